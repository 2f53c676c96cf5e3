package spring_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/andrew-torda/spring/pkg/dbkit"
	"github.com/andrew-torda/spring/pkg/molecule"
	"github.com/andrew-torda/spring/pkg/molecule/moltest"
	"github.com/andrew-torda/spring/pkg/spring"
	"gonum.org/v1/gonum/spatial/r3"
)

func hhrFile(query, id, seq string) string {
	return "Query         " + query + "\n" +
		"Match_columns 5\n\n" +
		" No Hit                             Prob E-value P-value  Score    SS Cols Query HMM  Template HMM\n" +
		fmt.Sprintf("%3d %-30.30s %5.1f %7.2G %7.2G %6.1f %5.1f %4d %4d-%-4d %4d-%-4d(%d)\n",
			1, id+" made up", 100.0, 1e-30, 1e-35, 90.0, 0.0, 5, 1, 5, 1, 5, 5) +
		"\nNo 1\n>" + id + " made up\n" +
		"Q " + query + "             1 " + seq + "    5 (5)\n" +
		"T " + id + "           1 " + seq + "    5 (5)\n"
}

const identityMat = `------ The rotation matrix to rotate Chain_1 to Chain_2 ------
m               t[m]        u[m][0]        u[m][1]        u[m][2]
0       0.0000000000   1.0000000000   0.0000000000   0.0000000000
1       0.0000000000   0.0000000000   1.0000000000   0.0000000000
2       0.0000000000   0.0000000000   0.0000000000   1.0000000000
`

func tmReport() string {
	lines := make([]string, 13)
	lines = append(lines,
		"TM-score= 0.61000 (if normalized by length of Chain_1)",
		"TM-score= 0.72000 (if normalized by length of Chain_2)",
		"", "", "",
		"MKVLA", ":::::", "MKVLA", "")
	return strings.Join(lines, "\n")
}

func write(t *testing.T, fname, s string, mode os.FileMode) string {
	if err := os.WriteFile(fname, []byte(s), mode); err != nil {
		t.Fatal(err)
	}
	return fname
}

// setup makes a complete set of input files. Chain B of the template
// sits bOffset Å from chain A.
func setup(t *testing.T, bOffset float64) *spring.Config {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell")
	}
	dir := t.TempDir()
	var data, index bytes.Buffer
	bld := dbkit.NewBuilder(&data, &index, 0)
	entry := moltest.Chain('A', "MKVLA", 1, r3.Vec{}, moltest.X) +
		moltest.Chain('B', "GSWYF", 1, r3.Vec{Y: bOffset}, moltest.X)
	if err := bld.Add("1abc.pdb", strings.NewReader(entry)); err != nil {
		t.Fatal(err)
	}
	conf := spring.DefaultConfig()
	conf.Database = write(t, filepath.Join(dir, "pdb.dat"), data.String(), 0o644)
	conf.Index = write(t, filepath.Join(dir, "pdb.idx"), index.String(), 0o644)
	conf.AHhr = write(t, filepath.Join(dir, "a.hhr"), hhrFile("seqA", "1abc_A", "MKVLA"), 0o644)
	conf.BHhr = write(t, filepath.Join(dir, "b.hhr"), hhrFile("seqB", "1abc_B", "GSWYF"), 0o644)
	conf.Cross = write(t, filepath.Join(dir, "cross.txt"), "1abc_A 1abc_A 1abc_B 1abc_B\n", 0o644)
	mat := write(t, filepath.Join(dir, "mat.txt"), identityMat, 0o644)
	rep := write(t, filepath.Join(dir, "report.txt"), tmReport(), 0o644)
	conf.TMalign = write(t, filepath.Join(dir, "TMalign"),
		fmt.Sprintf("#!/bin/sh\ncp %s \"$4\"\ncat %s\n", mat, rep), 0o755)
	conf.Pulchra = write(t, filepath.Join(dir, "pulchra"),
		"#!/bin/sh\ncp \"$1\" \"${1%.pdb}.rebuilt.pdb\"\n", 0o755)
	conf.Workdir = filepath.Join(dir, "temp")
	conf.Output = filepath.Join(dir, "model.pdb")
	conf.Log = filepath.Join(dir, "spring.log")
	return &conf
}

func TestRun(t *testing.T) {
	conf := setup(t, 10)
	conf.ShowTemplate = true
	var buf bytes.Buffer
	res, err := spring.Run(context.Background(), conf, log.New(&buf, "", 0))
	if err != nil {
		t.Fatalf("%v\n%s", err, buf.String())
	}
	if res.Evaluated != 1 || res.Best == nil {
		t.Fatalf("got %+v", res)
	}
	if res.Best.TMscore != 0.72 || res.Best.Clashes != 0 {
		t.Errorf("best %+v", res.Best)
	}
	for _, s := range []string{"Found 1 templates.", "Building model with: 1abc_A.", "Completed."} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("log has no %q:\n%s", s, buf.String())
		}
	}
	m, err := molecule.ReadFile(conf.Output)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(m.Chains(), " "); got != "0 1 A B" {
		t.Errorf("model has chains %q", got)
	}
	if m.Sequence("0") != "MKVLA" || m.Sequence("1") != "GSWYF" {
		t.Errorf("model sequences %s %s", m.Sequence("0"), m.Sequence("1"))
	}
	b, err := os.ReadFile(conf.Log)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 || lines[0]+"\n" != spring.LogHeader {
		t.Fatalf("summary log\n%s", b)
	}
	if f := strings.Fields(lines[1]); len(f) != 6 || f[0] != "a.hhr" || f[1] != "b.hhr" || f[2] != "0.72" {
		t.Errorf("summary line %q", lines[1])
	}

	// a second run appends without a second header
	if _, err := spring.Run(context.Background(), conf, nil); err != nil {
		t.Fatal(err)
	}
	b, _ = os.ReadFile(conf.Log)
	if n := strings.Count(string(b), "# Columns"); n != 1 {
		t.Errorf("%d header lines", n)
	}
	if n := strings.Count(string(b), "\n"); n != 3 {
		t.Errorf("%d lines in log", n)
	}
	left, _ := os.ReadDir(conf.Workdir)
	if len(left) != 0 {
		t.Errorf("scratch left behind in %s", conf.Workdir)
	}
}

func TestRunClashes(t *testing.T) {
	conf := setup(t, 1)
	res, err := spring.Run(context.Background(), conf, nil)
	if !errors.Is(err, spring.ErrNoModel) {
		t.Fatalf("wanted ErrNoModel, got %v", err)
	}
	if res.Evaluated != 1 || res.Best != nil {
		t.Errorf("got %+v", res)
	}
	if _, err := os.Stat(conf.Output); !os.IsNotExist(err) {
		t.Error("no model, but an output file was written")
	}
	if _, err := os.Stat(conf.Log); !os.IsNotExist(err) {
		t.Error("no model, but the log was written")
	}
}

func TestRunBadInput(t *testing.T) {
	conf := setup(t, 10)
	os.WriteFile(conf.Index, []byte("1abc.pdb 0\n"), 0o644)
	_, err := spring.Run(context.Background(), conf, nil)
	if !errors.Is(err, dbkit.ErrIndexFormat) {
		t.Errorf("broken index: got %v", err)
	}
	if errors.Is(err, spring.ErrNoModel) {
		t.Error("a broken index is not a soft failure")
	}

	conf = setup(t, 10)
	os.WriteFile(conf.BHhr, []byte(hhrFile("seqB", "1abc_C", "GSWYF")), 0o644)
	_, err = spring.Run(context.Background(), conf, nil)
	if !errors.Is(err, spring.ErrNoModel) {
		t.Errorf("missing chain for monomer B: got %v", err)
	}
}
