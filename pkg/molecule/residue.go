package molecule

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var residueNames = [...][2]string{
	{"ALA", "A"}, {"ARG", "R"}, {"ASN", "N"}, {"ASP", "D"},
	{"CYS", "C"}, {"GLU", "E"}, {"GLN", "Q"}, {"GLY", "G"},
	{"HIS", "H"}, {"ILE", "I"}, {"LEU", "L"}, {"LYS", "K"},
	{"MET", "M"}, {"PHE", "F"}, {"PRO", "P"}, {"SER", "S"},
	{"THR", "T"}, {"TRP", "W"}, {"TYR", "Y"}, {"VAL", "V"},
}

// modified residues that are common enough to be worth mapping
var modifiedNames = map[string]byte{
	"MSE": 'M', "SEP": 'S', "TPO": 'T', "PTR": 'Y', "HYP": 'P', "MLY": 'K',
}

// OneLetter turns a three letter residue name into its one letter code.
// Anything we do not know becomes 'X'.
func OneLetter(name3 string) byte {
	s := strings.ToUpper(strings.TrimSpace(name3))
	for _, r := range residueNames {
		if r[0] == s {
			return r[1][0]
		}
	}
	if c, ok := modifiedNames[s]; ok {
		return c
	}
	return 'X'
}

// ThreeLetter goes the other way. Unknown codes give "UNK".
func ThreeLetter(code byte) string {
	c := strings.ToUpper(string(code))
	for _, r := range residueNames {
		if r[1] == c {
			return r[0]
		}
	}
	return "UNK"
}

// Residue is the alpha carbon view of one residue.
type Residue struct {
	Num  int    // residue number from the file
	Name string // three letter name
	Code byte   // one letter code
	CA   r3.Vec
}
