// Package energy scores the interface between two chains that have been
// laid onto a template complex.
package energy

import (
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/andrew-torda/spring/pkg/molecule"
	"github.com/andrew-torda/spring/pkg/potential"
	"github.com/andrew-torda/spring/pkg/tmalign"
)

// Scorer is anything that can give an interface energy and a clash ratio.
// Energy works on the two residue correspondences, so it sees template
// coordinates with query residue types. Clashes works on the two moved
// monomers.
type Scorer interface {
	Energy(a, b []tmalign.Aligned) float64
	Clashes(a, b *molecule.Molecule) float64
}

const (
	DefaultContact = 10.0 // Å between alpha carbons for a contact
	DefaultClash   = 3.0  // Å between alpha carbons for a clash
)

// ContactScorer sums pair energies over alpha carbon contacts.
type ContactScorer struct {
	Pot     *potential.Potential
	Contact float64
	Clash   float64
}

// NewContactScorer uses pot, or the built in table if pot is nil.
func NewContactScorer(pot *potential.Potential) *ContactScorer {
	if pot == nil {
		pot = potential.Default()
	}
	return &ContactScorer{Pot: pot, Contact: DefaultContact, Clash: DefaultClash}
}

// Energy is the sum over every pair of template residues, one from each
// side, closer than the contact distance, of the table entry for the two
// query residue types. Lower is better.
func (cs *ContactScorer) Energy(a, b []tmalign.Aligned) float64 {
	cut2 := cs.Contact * cs.Contact
	var e float64
	for _, ra := range a {
		for _, rb := range b {
			d := r3.Sub(ra.CA, rb.CA)
			if r3.Dot(d, d) < cut2 {
				e += cs.Pot.Score(ra.Query, rb.Query)
			}
		}
	}
	return e
}

func points(cas []r3.Vec) kdtree.Points {
	p := make(kdtree.Points, len(cas))
	for i, c := range cas {
		p[i] = kdtree.Point{c.X, c.Y, c.Z}
	}
	return p
}

// Clashes is the fraction of alpha carbons in the smaller molecule that
// sit within the clash distance of some alpha carbon of the other. It is
// zero if either side is empty.
func (cs *ContactScorer) Clashes(a, b *molecule.Molecule) float64 {
	ca, cb := a.CAs(), b.CAs()
	if len(ca) == 0 || len(cb) == 0 {
		return 0
	}
	if len(ca) > len(cb) {
		ca, cb = cb, ca
	}
	tree := kdtree.New(points(cb), false)
	cut2 := cs.Clash * cs.Clash
	n := 0
	for _, q := range points(ca) {
		if _, d2 := tree.Nearest(q); d2 < cut2 { // Nearest gives squared distance
			n++
		}
	}
	return float64(n) / float64(len(ca))
}
