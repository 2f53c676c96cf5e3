package hhr_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/andrew-torda/spring/pkg/brokenio"
	"github.com/andrew-torda/spring/pkg/common"
	"github.com/andrew-torda/spring/pkg/hhr"
	"github.com/google/go-cmp/cmp"
)

func hit(no int, name string, prob, eval, score float64) string {
	return fmt.Sprintf("%3d %-30.30s %5.1f %7.2G %7.2G %6.1f %5.1f %4d %4d-%-4d %4d-%-4d(%d)\n",
		no, name, prob, eval, eval/10, score, 0.0, 50, 1, 50, 3, 52, 60)
}

var hhrText = "Query         T1084 a made up protein\n" +
	"Match_columns 60\n" +
	"No_of_seqs    12 out of 40\n" +
	"\n" +
	" No Hit                             Prob E-value P-value  Score    SS Cols Query HMM  Template HMM\n" +
	hit(1, "1abc_A Protein kinase", 100, 1.2e-40, 250.3) +
	hit(2, "2xyz_B Another thing with a long name that is cut", 99.5, 3e-20, 120) +
	hit(3, "1abc_A Protein kinase", 90, 1e-5, 40.5) +
	"\n" +
	"No 1\n" +
	">1abc_A Protein kinase\n" +
	"Probability=100.00  E-value=1.2e-40  Score=250.30  Aligned_cols=50\n" +
	"\n" +
	"Q ss_pred             CCHHHH\n" +
	"Q T1084            1 MKV-LA    5 (60)\n" +
	"Q Consensus        1 mkv~la    5 (60)\n" +
	"                     || ||\n" +
	"T Consensus        3 mkvgla    8 (60)\n" +
	"T 1abc_A           3 MKVGLA    8 (60)\n" +
	"T ss_dssp            CCHHHH\n" +
	"\n" +
	"Q T1084            6 GG     7 (60)\n" +
	"T 1abc_A           9 G-    9 (60)\n" +
	"\n" +
	"No 2\n" +
	">2xyz_B Another thing\n" +
	"Q T1084           10 AAA   12 (60)\n" +
	"T 2xyz_B           1 AAA    3 (60)\n"

func TestRead(t *testing.T) {
	res, err := hhr.Read(strings.NewReader(hhrText))
	if err != nil {
		t.Fatal(err)
	}
	if res.Query != "T1084" {
		t.Errorf("query name %q", res.Query)
	}
	if len(res.Hits) != 3 {
		t.Fatalf("got %d hits", len(res.Hits))
	}
	h := res.Hits[1]
	if h.No != 2 || h.ID != "2xyz_B" || h.Prob != 99.5 || h.Score != 120 {
		t.Errorf("second hit %+v", h)
	}
	if h.EValue < 2.9e-20 || h.EValue > 3.1e-20 {
		t.Errorf("E-value %g", h.EValue)
	}
	want := []hhr.RankedHit{{ID: "1abc_A", Score: 250.3}, {ID: "2xyz_B", Score: 120}}
	if diff := cmp.Diff(want, res.Ranked()); diff != "" {
		t.Errorf("ranked hits (-want +got)\n%s", diff)
	}
	if res.Top() != "1abc_A" {
		t.Errorf("top hit %s", res.Top())
	}
}

func TestAlignments(t *testing.T) {
	res, err := hhr.Read(strings.NewReader(hhrText))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Alignments) != 2 {
		t.Fatalf("got %d alignment blocks", len(res.Alignments))
	}
	want := hhr.Alignment{
		No: 1, ID: "1abc_A",
		Query: "MKV-LAGG", Template: "MKVGLAG-",
		QueryStart: 1, TemplateStart: 3,
	}
	if diff := cmp.Diff(&want, res.Alignment(1)); diff != "" {
		t.Errorf("first block (-want +got)\n%s", diff)
	}
	if a := res.Alignment(2); a == nil || a.QueryStart != 10 || a.Template != "AAA" {
		t.Errorf("second block %+v", a)
	}
	if res.Alignment(3) != nil {
		t.Error("there is no third block")
	}
}

func TestNoHits(t *testing.T) {
	_, err := hhr.Read(strings.NewReader("Query T1\nMatch_columns 60\n"))
	if !errors.Is(err, hhr.ErrNoHits) {
		t.Errorf("wanted ErrNoHits, got %v", err)
	}
	res, err := hhr.Read(strings.NewReader(" No Hit   Prob\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Top() != "" || len(res.Ranked()) != 0 {
		t.Error("empty table should give no hits")
	}
}

func TestBrokenHit(t *testing.T) {
	s := " No Hit\n" + "  1 1abc_A      junk\n"
	if _, err := hhr.Read(strings.NewReader(s)); err == nil {
		t.Error("short hit line should fail")
	}
}

func TestSplitID(t *testing.T) {
	for _, x := range []struct{ id, name, chain string }{
		{"1abc_A", "1abc", "A"},
		{"pdb_1abc_B", "pdb_1abc", "B"},
		{"1abc", "1abc", ""},
	} {
		name, chain := hhr.SplitID(x.id)
		if name != x.name || chain != x.chain {
			t.Errorf("%s gave %q %q", x.id, name, chain)
		}
	}
}

// A read error part way through must come back, not a short result.
func TestReadFails(t *testing.T) {
	cuts := []int{0, strings.Index(hhrText, "No 1\n"), strings.LastIndex(hhrText, "\nT ") + 1}
	for _, n := range cuts {
		r := brokenio.NewReader(strings.NewReader(hhrText))
		r.SetFailAfter(n)
		if _, err := hhr.Read(r); !errors.Is(err, brokenio.ErrBroken) {
			t.Errorf("failing after %d bytes, got %v", n, err)
		}
	}
	r := brokenio.NewReader(strings.NewReader(hhrText))
	r.SetZeroFile(true)
	if _, err := hhr.Read(r); !errors.Is(err, hhr.ErrNoHits) {
		t.Errorf("empty file wanted ErrNoHits, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	fname, err := common.WrtTemp(hhrText, "*.hhr")
	if err != nil {
		t.Fatal("Fail writing test file")
	}
	defer os.Remove(fname)
	res, err := hhr.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if res.Top() != "1abc_A" {
		t.Errorf("top hit got %q", res.Top())
	}
}
