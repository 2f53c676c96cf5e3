package molecule

import (
	"fmt"
	"strconv"
	"strings"
)

// Group is a set of chains and the operators that are applied to them
// to build part of a biological assembly.
type Group struct {
	Chains []string
	Ops    []*Transform
}

// Biomolecule is one assembly declared in REMARK 350.
type Biomolecule struct {
	Num    int
	Groups []Group
}

// biomolParser collects REMARK 350 lines. Records look like
//
//	REMARK 350 BIOMOLECULE: 1
//	REMARK 350 APPLY THE FOLLOWING TO CHAINS: A, B
//	REMARK 350                    AND CHAINS: C
//	REMARK 350   BIOMT1   1  1.000000  0.000000  0.000000        0.00000
//	REMARK 350   BIOMT2   1  0.000000  1.000000  0.000000        0.00000
//	REMARK 350   BIOMT3   1  0.000000  0.000000  1.000000        0.00000
type biomolParser struct {
	biomols []Biomolecule
	rows    [3][4]float64
	nrow    int
}

func (bp *biomolParser) current() *Biomolecule {
	if len(bp.biomols) == 0 {
		return nil
	}
	return &bp.biomols[len(bp.biomols)-1]
}

func (bp *biomolParser) group() *Group {
	b := bp.current()
	if b == nil || len(b.Groups) == 0 {
		return nil
	}
	return &b.Groups[len(b.Groups)-1]
}

func chainList(s string) []string {
	var ret []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			ret = append(ret, c)
		}
	}
	return ret
}

func (bp *biomolParser) line(line string) error {
	body := strings.TrimSpace(line[len("REMARK 350"):])
	switch {
	case strings.HasPrefix(body, "BIOMOLECULE:"):
		n, err := strconv.Atoi(strings.TrimSpace(body[len("BIOMOLECULE:"):]))
		if err != nil {
			return fmt.Errorf("biomolecule number: %w", err)
		}
		bp.biomols = append(bp.biomols, Biomolecule{Num: n})
		bp.nrow = 0
	case strings.HasPrefix(body, "APPLY THE FOLLOWING TO CHAINS:"):
		b := bp.current()
		if b == nil {
			return fmt.Errorf("chains given before BIOMOLECULE: %q", line)
		}
		s := body[len("APPLY THE FOLLOWING TO CHAINS:"):]
		b.Groups = append(b.Groups, Group{Chains: chainList(s)})
	case strings.HasPrefix(body, "AND CHAINS:"):
		g := bp.group()
		if g == nil {
			return fmt.Errorf("AND CHAINS without a chain list: %q", line)
		}
		g.Chains = append(g.Chains, chainList(body[len("AND CHAINS:"):])...)
	case strings.HasPrefix(body, "BIOMT"):
		g := bp.group()
		if g == nil {
			return fmt.Errorf("BIOMT without a chain list: %q", line)
		}
		f := strings.Fields(body)
		if len(f) != 6 {
			return fmt.Errorf("BIOMT wants 6 fields: %q", line)
		}
		i, err := strconv.Atoi(strings.TrimPrefix(f[0], "BIOMT"))
		if err != nil || i != bp.nrow+1 {
			return fmt.Errorf("BIOMT rows out of order: %q", line)
		}
		for j := 0; j < 4; j++ {
			if bp.rows[bp.nrow][j], err = strconv.ParseFloat(f[j+2], 64); err != nil {
				return fmt.Errorf("BIOMT number: %w", err)
			}
		}
		if bp.nrow++; bp.nrow == 3 {
			g.Ops = append(g.Ops, NewTransform(bp.rows))
			bp.nrow = 0
		}
	}
	return nil
}

// Assemblies is the number of ways we can look at this molecule.
// Number 0 is the asymmetric unit as read, then come the declared
// biological assemblies.
func (m *Molecule) Assemblies() int { return len(m.Biomol) + 1 }

// uniqueLabel gives a chain label that is not yet in used. The first
// copy of a chain keeps its name. Later copies become A_0, A_1, ...
func uniqueLabel(chain string, used map[string]bool, ncopy map[string]int) string {
	if !used[chain] {
		used[chain] = true
		return chain
	}
	for {
		label := chain + "_" + strconv.Itoa(ncopy[chain])
		ncopy[chain]++
		if !used[label] {
			used[label] = true
			return label
		}
	}
}

// Unit builds assembly n. Unit(0) is the molecule itself. For the others,
// each operator is applied to each of its chains and the copies are
// gathered into a new molecule. A chain that is used more than once is
// relabelled on each later copy.
func (m *Molecule) Unit(n int) (*Molecule, error) {
	if n == 0 {
		return m, nil
	}
	if n < 0 || n > len(m.Biomol) {
		return nil, fmt.Errorf("assembly %d does not exist, only %d", n, len(m.Biomol))
	}
	byChain := make(map[string][]*Atom)
	for _, a := range m.Atoms {
		byChain[a.Chain] = append(byChain[a.Chain], a)
	}
	used := make(map[string]bool)
	ncopy := make(map[string]int)
	var atoms []*Atom
	for _, g := range m.Biomol[n-1].Groups {
		for _, op := range g.Ops {
			for _, c := range g.Chains {
				src := byChain[c]
				if len(src) == 0 {
					continue
				}
				label := uniqueLabel(c, used, ncopy)
				for _, a := range src {
					b := *a
					b.Chain = label
					b.Coord = op.Apply(a.Coord)
					atoms = append(atoms, &b)
				}
			}
		}
	}
	u := New(atoms)
	return u, nil
}
