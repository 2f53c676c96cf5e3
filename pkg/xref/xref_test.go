package xref_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/spring/pkg/brokenio"
	"github.com/andrew-torda/spring/pkg/xref"
	"github.com/google/go-cmp/cmp"
)

const xrefText = `# core templateA templateB partner
1abc_A 1abc_A 1abc_B 1abc_B

1abc_A 3pqr_C 3pqr_D 3pqr_D
2xyz_B 2xyz_B 2xyz_A 2xyz_A
`

func TestRead(t *testing.T) {
	idx, err := xref.Read(strings.NewReader(xrefText))
	if err != nil {
		t.Fatal(err)
	}
	want := []xref.Partner{
		{TemplateA: "1abc_A", TemplateB: "1abc_B", Partner: "1abc_B"},
		{TemplateA: "3pqr_C", TemplateB: "3pqr_D", Partner: "3pqr_D"},
	}
	if diff := cmp.Diff(want, idx.Partners("1abc_A")); diff != "" {
		t.Errorf("partners of 1abc_A (-want +got)\n%s", diff)
	}
	if !idx.Has("2xyz_B") || idx.Has("9zzz_A") {
		t.Error("Has is confused")
	}
	if p := idx.Partners("9zzz_A"); p != nil {
		t.Errorf("unknown chain gave %v", p)
	}
}

func TestBadLine(t *testing.T) {
	_, err := xref.Read(strings.NewReader("1abc_A 1abc_A 1abc_B\n"))
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("wanted error naming line 1, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "cross.txt")
	if err := os.WriteFile(fname, []byte(xrefText), 0o644); err != nil {
		t.Fatal(err)
	}
	idx, err := xref.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx) != 2 {
		t.Errorf("got %d core chains", len(idx))
	}
	if _, err := xref.ReadFile(fname + ".missing"); err == nil {
		t.Error("missing file should fail")
	}
}

func TestReadFails(t *testing.T) {
	r := brokenio.NewReader(strings.NewReader(xrefText))
	r.SetFailAfter(20)
	if _, err := xref.Read(r); !errors.Is(err, brokenio.ErrBroken) {
		t.Errorf("wanted ErrBroken, got %v", err)
	}
}
