package energy_test

import (
	"math"
	"strings"
	"testing"

	"github.com/andrew-torda/spring/pkg/energy"
	"github.com/andrew-torda/spring/pkg/molecule"
	"github.com/andrew-torda/spring/pkg/molecule/moltest"
	"github.com/andrew-torda/spring/pkg/potential"
	"github.com/andrew-torda/spring/pkg/tmalign"
	"gonum.org/v1/gonum/spatial/r3"
)

const table = `   A  K  E
A  -1  0  0
K  0  2  -3
E  0 -3 2
`

func mol(t *testing.T, s string) *molecule.Molecule {
	m, err := molecule.Read(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func aligned(m *molecule.Molecule, chain, query string) []tmalign.Aligned {
	var ret []tmalign.Aligned
	for i, r := range m.SortedResidues(chain) {
		ret = append(ret, tmalign.Aligned{Residue: r, Query: query[i]})
	}
	return ret
}

func TestEnergy(t *testing.T) {
	pot, err := potential.Read(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	cs := energy.NewContactScorer(pot)
	// two strands 5 Å apart, 3.8 Å between neighbours
	a := mol(t, moltest.Chain('A', "AAA", 1, r3.Vec{}, moltest.X))
	b := mol(t, moltest.Chain('B', "AAA", 1, r3.Vec{Y: 5}, moltest.X))
	// pairs closer than 10 Å: |i-j| = 0 (5 Å), 1 (6.28 Å), 2 (8.9 Å), so all 9
	e := cs.Energy(aligned(a, "A", "KKK"), aligned(b, "B", "EEE"))
	if e != -27 {
		t.Errorf("got %v wanted -27", e)
	}
	cs.Contact = 6
	e = cs.Energy(aligned(a, "A", "KAK"), aligned(b, "B", "EEA"))
	// only the facing pairs are in contact now: K-E, A-E, K-A
	if e != -3 {
		t.Errorf("short cutoff got %v wanted -3", e)
	}
	if e := cs.Energy(nil, aligned(b, "B", "EEE")); e != 0 {
		t.Errorf("nothing aligned gave %v", e)
	}
}

func TestClashes(t *testing.T) {
	cs := energy.NewContactScorer(nil)
	a := mol(t, moltest.Chain('A', "AAAA", 1, r3.Vec{}, moltest.X))
	far := mol(t, moltest.Chain('B', "AAAA", 1, r3.Vec{Z: 20}, moltest.X))
	if c := cs.Clashes(a, far); c != 0 {
		t.Errorf("far apart gave %v", c)
	}
	// two residues of b sit right on a, the rest are away along y
	b := mol(t,
		moltest.AtomLine(1, 'G', 'B', 1, r3.Vec{X: 0.5})+
			moltest.AtomLine(2, 'G', 'B', 2, r3.Vec{X: 3.8, Y: 1})+
			moltest.AtomLine(3, 'G', 'B', 3, r3.Vec{Y: 30}))
	c := cs.Clashes(a, b)
	if math.Abs(c-2.0/3.0) > 1e-9 {
		t.Errorf("got %v wanted 2/3", c)
	}
	if c2 := cs.Clashes(b, a); c2 != c {
		t.Errorf("order matters: %v and %v", c, c2)
	}
	if c := cs.Clashes(a, a); c != 1 {
		t.Errorf("molecule with itself gave %v", c)
	}
	if c := cs.Clashes(a, molecule.New(nil)); c != 0 {
		t.Errorf("empty molecule gave %v", c)
	}
}
