// Package xref loads the cross reference of template chains which are
// seen together in known complexes. Each line of the file is
//
//	core templateA templateB partner
//
// The core chain is what a hit for the first sequence has to match.
// The partner has to be a hit for the second sequence. templateA and
// templateB are the two chains of the complex that will be used as
// the framework.
package xref

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/andrew-torda/spring/pkg/zwrap"
)

// Partner is one known partner of a core chain.
type Partner struct {
	TemplateA string
	TemplateB string
	Partner   string
}

// Index maps a core chain to its partners, in the order of the file.
type Index map[string][]Partner

// Partners returns the partners of core. It is nil if core is unknown.
func (idx Index) Partners(core string) []Partner { return idx[core] }

// Has says if core is in the index.
func (idx Index) Has(core string) bool {
	_, ok := idx[core]
	return ok
}

// Read builds an index. Blank lines and lines starting with # are
// ignored. Anything else must have exactly four fields.
func Read(r io.Reader) (Index, error) {
	idx := make(Index)
	scnr := bufio.NewScanner(r)
	for nline := 1; scnr.Scan(); nline++ {
		line := strings.TrimSpace(scnr.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 4 {
			return nil, fmt.Errorf("cross reference line %d wants 4 fields, got %d: %q", nline, len(f), line)
		}
		idx[f[0]] = append(idx[f[0]], Partner{TemplateA: f[1], TemplateB: f[2], Partner: f[3]})
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}

// ReadFile reads a cross reference file, which may be gzipped.
func ReadFile(fname string) (Index, error) {
	r, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	idx, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return idx, nil
}
