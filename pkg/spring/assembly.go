package spring

import (
	"github.com/andrew-torda/spring/pkg/molecule"
)

// Assembly is the unit of a template entry in which both framework
// chains were found.
type Assembly struct {
	Unit   *molecule.Molecule
	Index  int    // 0 is the asymmetric unit, then biomolecules from 1
	ChainA string // labels as they appear in Unit
	ChainB string
}

// PairLabels gives the chain labels to look for. If both chains of a
// pair have the same label, the second must be a copy made by a
// biological assembly, which gets the _0 suffix.
func PairLabels(chainA, chainB string) (string, string) {
	if chainA == chainB {
		return chainA, chainB + "_0"
	}
	return chainA, chainB
}

// FindAssembly goes through the assemblies of m in order and stops at
// the first with more than one chain, including both of the ones we
// want. Later assemblies are not looked at, even if they might be better.
// ok is false if no assembly will do.
func FindAssembly(m *molecule.Molecule, chainA, chainB string) (asm *Assembly, ok bool, err error) {
	a, b := PairLabels(chainA, chainB)
	for i := 0; i < m.Assemblies(); i++ {
		u, err := m.Unit(i)
		if err != nil {
			return nil, false, err
		}
		if len(u.CAlpha) > 1 && u.HasChain(a) && u.HasChain(b) {
			return &Assembly{Unit: u, Index: i, ChainA: a, ChainB: b}, true, nil
		}
	}
	return nil, false, nil
}
