// Package moltest writes small made up structures for tests in other
// packages. Only alpha carbons are written. Residues are laid out in a
// straight line, which is enough for superpositions and contacts.
package moltest

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var three = map[byte]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'E': "GLU", 'Q': "GLN", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
}

// AtomLine formats one alpha carbon record.
func AtomLine(serial int, res byte, chain byte, num int, p r3.Vec) string {
	name, ok := three[res]
	if !ok {
		name = "UNK"
	}
	return fmt.Sprintf("ATOM  %5d  CA  %3s %c%4d    %8.3f%8.3f%8.3f  1.00 20.00           C\n",
		serial, name, chain, num, p.X, p.Y, p.Z)
}

// Step is the distance between neighbouring alpha carbons.
const Step = 3.8

// Chain writes a chain with sequence seq, numbering from first,
// starting at origin and going in direction dir (normalised for you).
func Chain(chain byte, seq string, first int, origin, dir r3.Vec) string {
	dir = r3.Scale(Step/r3.Norm(dir), dir)
	var sb strings.Builder
	p := origin
	for i := 0; i < len(seq); i++ {
		sb.WriteString(AtomLine(i+1, seq[i], chain, first+i, p))
		p = r3.Add(p, dir)
	}
	return sb.String()
}

// X is the unit vector along x, used everywhere as a default direction.
var X = r3.Vec{X: 1}

// Biomol writes the REMARK 350 lines for one assembly. Each op is a row
// major 3 x 4 matrix (rotation then translation).
func Biomol(num int, chains []string, ops ...[3][4]float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "REMARK 350 BIOMOLECULE: %d\n", num)
	fmt.Fprintf(&sb, "REMARK 350 APPLY THE FOLLOWING TO CHAINS: %s\n", strings.Join(chains, ", "))
	for i, op := range ops {
		for r := 0; r < 3; r++ {
			fmt.Fprintf(&sb, "REMARK 350   BIOMT%d %3d%10.6f%10.6f%10.6f%15.5f\n",
				r+1, i+1, op[r][0], op[r][1], op[r][2], op[r][3])
		}
	}
	return sb.String()
}

// Ident is the identity operator, optionally with a shift.
func Ident(dx, dy, dz float64) [3][4]float64 {
	return [3][4]float64{{1, 0, 0, dx}, {0, 1, 0, dy}, {0, 0, 1, dz}}
}
