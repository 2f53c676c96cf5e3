// 12 Feb 2024

// Package molecule reads and writes coordinates in PDB format. It keeps
// every atom, but most of the work is done on a view of alpha carbons,
// keyed by chain and residue number. Biological assemblies from
// REMARK 350 can be expanded into new molecules.
package molecule

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/spring/pkg/zwrap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Atom holds the columns of one ATOM or HETATM record.
type Atom struct {
	Serial    int
	Name      string // atom name without padding, "CA"
	AltLoc    byte
	ResName   string
	Chain     string
	ResNum    int
	ICode     byte
	Coord     r3.Vec
	Occupancy float64
	BFactor   float64
	Element   string
	Het       bool
}

// Molecule is a set of atoms with the alpha carbon index built on top.
type Molecule struct {
	Atoms  []*Atom
	CAlpha map[string]map[int]*Residue // chain -> residue number -> residue
	Biomol []Biomolecule              // declared assemblies, Biomol[0] is assembly 1
	chains []string                   // chain labels in order of appearance
}

// New builds a molecule from atoms and sets up the alpha carbon index.
func New(atoms []*Atom) *Molecule {
	m := &Molecule{Atoms: atoms}
	m.index()
	return m
}

// index sets up the chain list and the alpha carbon map. If a residue
// number turns up twice in a chain (insertion codes, alternate
// locations), the first one wins.
func (m *Molecule) index() {
	m.CAlpha = make(map[string]map[int]*Residue)
	m.chains = m.chains[:0]
	seen := make(map[string]bool)
	for _, a := range m.Atoms {
		if !seen[a.Chain] {
			seen[a.Chain] = true
			m.chains = append(m.chains, a.Chain)
		}
		if a.Name != "CA" || a.Het && OneLetter(a.ResName) == 'X' {
			continue
		}
		chain, ok := m.CAlpha[a.Chain]
		if !ok {
			chain = make(map[int]*Residue)
			m.CAlpha[a.Chain] = chain
		}
		if _, dup := chain[a.ResNum]; dup {
			continue
		}
		chain[a.ResNum] = &Residue{
			Num: a.ResNum, Name: a.ResName, Code: OneLetter(a.ResName), CA: a.Coord,
		}
	}
}

// Chains returns the chain labels in the order they first appear.
func (m *Molecule) Chains() []string {
	return append([]string(nil), m.chains...)
}

// HasChain says if there are alpha carbons with this chain label.
func (m *Molecule) HasChain(chain string) bool {
	_, ok := m.CAlpha[chain]
	return ok
}

// SortedResidues gives the residues of a chain by ascending residue number.
func (m *Molecule) SortedResidues(chain string) []*Residue {
	c := m.CAlpha[chain]
	ret := make([]*Residue, 0, len(c))
	for _, r := range c {
		ret = append(ret, r)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Num < ret[j].Num })
	return ret
}

// Sequence is the one letter sequence of a chain in residue number order.
func (m *Molecule) Sequence(chain string) string {
	var sb strings.Builder
	for _, r := range m.SortedResidues(chain) {
		sb.WriteByte(r.Code)
	}
	return sb.String()
}

// CAs returns all the alpha carbon coordinates, chain by chain.
func (m *Molecule) CAs() []r3.Vec {
	var ret []r3.Vec
	for _, c := range m.chains {
		for _, r := range m.SortedResidues(c) {
			ret = append(ret, r.CA)
		}
	}
	return ret
}

// Chain returns a new molecule with copies of only the atoms from one chain.
func (m *Molecule) Chain(chain string) *Molecule {
	var atoms []*Atom
	for _, a := range m.Atoms {
		if a.Chain == chain {
			b := *a
			atoms = append(atoms, &b)
		}
	}
	return New(atoms)
}

// Transform returns a new molecule with every atom moved by t. The
// residues keep their names and numbers, only coordinates change.
func (m *Molecule) Transform(t *Transform) *Molecule {
	atoms := make([]*Atom, len(m.Atoms))
	for i, a := range m.Atoms {
		b := *a
		b.Coord = t.Apply(a.Coord)
		atoms[i] = &b
	}
	n := New(atoms)
	n.Biomol = m.Biomol
	return n
}

// field is a slice of a fixed column line that does not explode on
// short lines. Columns are counted from 1 as in the PDB documentation.
func field(line string, first, last int) string {
	if first > len(line) {
		return ""
	}
	if last > len(line) {
		last = len(line)
	}
	return strings.TrimSpace(line[first-1 : last])
}

// parseAtom reads one ATOM/HETATM line.
// https://www.wwpdb.org/documentation/file-format-content/format33/sect9.html#ATOM
func parseAtom(line string) (*Atom, error) {
	if len(line) < 54 {
		return nil, fmt.Errorf("atom record too short: %q", line)
	}
	var a Atom
	var err error
	a.Het = strings.HasPrefix(line, "HETATM")
	if s := field(line, 7, 11); s != "" {
		if a.Serial, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("atom serial in %q: %w", line, err)
		}
	}
	a.Name = field(line, 13, 16)
	a.AltLoc = line[16]
	a.ResName = field(line, 18, 20)
	a.Chain = string(line[21])
	if a.ResNum, err = strconv.Atoi(field(line, 23, 26)); err != nil {
		return nil, fmt.Errorf("residue number in %q: %w", line, err)
	}
	a.ICode = line[26]
	var xyz [3]float64
	for i := range xyz {
		s := field(line, 31+8*i, 38+8*i)
		if xyz[i], err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("coordinate in %q: %w", line, err)
		}
	}
	a.Coord = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	a.Occupancy, _ = strconv.ParseFloat(field(line, 55, 60), 64)
	a.BFactor, _ = strconv.ParseFloat(field(line, 61, 66), 64)
	a.Element = field(line, 77, 78)
	return &a, nil
}

// Read reads PDB format. Only the first model is kept. Water is thrown away.
func Read(r io.Reader) (*Molecule, error) {
	var atoms []*Atom
	var bp biomolParser
	scnr := bufio.NewScanner(r)
scan:
	for nline := 1; scnr.Scan(); nline++ {
		line := scnr.Text()
		switch {
		case strings.HasPrefix(line, "ATOM  "), strings.HasPrefix(line, "HETATM"):
			a, err := parseAtom(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", nline, err)
			}
			if a.ResName == "HOH" {
				continue
			}
			atoms = append(atoms, a)
		case strings.HasPrefix(line, "REMARK 350"):
			if err := bp.line(line); err != nil {
				return nil, fmt.Errorf("line %d: %w", nline, err)
			}
		case strings.HasPrefix(line, "ENDMDL"):
			break scan
		}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	m := New(atoms)
	m.Biomol = bp.biomols
	return m, nil
}

// ReadFile reads a PDB file which may be gzipped.
func ReadFile(fname string) (*Molecule, error) {
	r, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	m, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return m, nil
}
