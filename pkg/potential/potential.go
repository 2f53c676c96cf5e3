// 23 Feb 2018 substitution matrices
// 21 Feb 2024 now used for residue contact energies

// Package potential reads a table of residue pair contact energies.
// The format is that of a substitution matrix. The first line names
// the residue types, then comes one line per type:
//
//	#  comment
//	   A     R     N
//	A  -0.18  0.14  0.09
//	R   0.14  0.95  0.40
//	N   0.09  0.40  0.35
//
// The table is made symmetric as it is read.
package potential

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/spring/pkg/zwrap"
)

//go:embed contact.txt
var defaultTable string

// Potential is the contact energy table. Its internals do not have to
// be exported.
type Potential struct {
	mat  *matrix.FMatrix2d
	cmap [128]int8
}

const notset int8 = -1

// String prints the table. Useful during debugging.
func (pot *Potential) String() string {
	var sb strings.Builder
	var types []byte
	for c := byte('A'); c <= 'Z'; c++ {
		if pot.cmap[c] != notset {
			types = append(types, c)
		}
	}
	sb.WriteString("    ")
	for _, c := range types {
		fmt.Fprintf(&sb, "%6c", c)
	}
	sb.WriteByte('\n')
	for _, c := range types {
		fmt.Fprintf(&sb, "%4c", c)
		for _, d := range types {
			fmt.Fprintf(&sb, "%6.2f", pot.mat.Mat[pot.cmap[c]][pot.cmap[d]])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CmmtScanner is a wrapper around bufio.Scanner that will ignore anything
// after a comment character and remove leading and trailing white space.
type CmmtScanner struct {
	bufio.Scanner
	cmmt byte // Comment character
}

// NewCmmtScanner is a wrapper around scanner, but
//
//   - jumps over blank lines
//   - removes leading spaces
//   - removes anything after a comment character
func NewCmmtScanner(r io.Reader, cmmt byte) *CmmtScanner {
	s := bufio.NewScanner(r)
	return &CmmtScanner{*s, cmmt}
}

// CBytes presents exactly the same interface as scanner.Bytes, but
// strips comments and white space first. If this leaves an empty line,
// we call Scan again. At the end of input it returns nil.
// Like Bytes, it works in the i/o buffer, so copy what you want to keep.
func (s *CmmtScanner) CBytes() []byte {
	ok := true
	for b := s.Bytes(); ok; ok, b = s.Scan(), s.Bytes() {
		if i := bytes.IndexByte(b, s.cmmt); i >= 0 {
			b = b[:i]
		}
		b = bytes.TrimSpace(b)
		if len(b) > 0 {
			return b
		}
	}
	return nil
}

// alfbt_line reads the list of residue types. Each field has to be one
// character long. Upper and lower case both map to the same row.
func alfbt_line(inline []byte, pot *Potential) (n_alfbt int, err error) {
	for i := range pot.cmap {
		pot.cmap[i] = notset
	}
	f := bytes.Fields(inline)
	if len(f) == 0 {
		return 0, errors.New("no residue types on first line")
	}
	for _, c := range f {
		if len(c) != 1 {
			return 0, errors.New("alfbt_line: expected a single character, got " + string(c))
		}
		if c[0] >= 128 {
			return 0, errors.New("alfbt_line: saw a non-ascii character in " + string(inline))
		}
	}
	for i, c := range f {
		pot.cmap[c[0]] = int8(i)
	}
	for i, c := range f { // If not set, set both upper and lower case
		l := bytes.ToLower(c)[0]
		u := bytes.ToUpper(c)[0]
		if pot.cmap[l] == notset {
			pot.cmap[l] = int8(i)
		}
		if pot.cmap[u] == notset {
			pot.cmap[u] = int8(i)
		}
	}
	return len(f), nil
}

// Read reads a table. Rows may come in any order, but every residue
// type needs its row, and a row must agree with what earlier rows said
// about the symmetric entries.
func Read(r io.Reader) (*Potential, error) {
	pot := new(Potential)
	scnr := NewCmmtScanner(r, '#')
	scnr.Scan()
	n_alfbt, err := alfbt_line(scnr.CBytes(), pot)
	if err != nil {
		return nil, err
	}
	pot.mat = matrix.NewFMatrix2d(n_alfbt, n_alfbt)
	done := make([]bool, n_alfbt)
	nc := 0
	for scnr.Scan() {
		line := scnr.CBytes()
		if line == nil {
			break
		}
		fields := bytes.Fields(line)
		if len(fields) != n_alfbt+1 {
			return nil, fmt.Errorf("wrong number of items on line: %s", line)
		}
		if len(fields[0]) != 1 || fields[0][0] >= 128 || pot.cmap[fields[0][0]] == notset {
			return nil, fmt.Errorf("unknown residue type on line: %s", line)
		}
		i := pot.cmap[fields[0][0]]
		if done[i] {
			return nil, fmt.Errorf("residue type %s given twice", fields[0])
		}
		done[i] = true
		for j := 0; j < n_alfbt; j++ {
			f, err := strconv.ParseFloat(string(fields[j+1]), 32)
			if err != nil {
				return nil, fmt.Errorf("potential: %w", err)
			}
			x := float32(f)
			if done[j] && j != int(i) && pot.mat.Mat[j][i] != x {
				return nil, fmt.Errorf("table not symmetric at %s, column %d", fields[0], j+1)
			}
			pot.mat.Mat[i][j], pot.mat.Mat[j][i] = x, x
		}
		nc++
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	if nc != n_alfbt {
		return nil, fmt.Errorf("found %d rows, wanted %d", nc, n_alfbt)
	}
	return pot, nil
}

// ReadFile reads a table from a file, which may be gzipped.
func ReadFile(fname string) (*Potential, error) {
	r, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	pot, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return pot, nil
}

// Default returns the table compiled into the program.
func Default() *Potential {
	pot, err := Read(strings.NewReader(defaultTable))
	if err != nil {
		panic("built in contact table broken: " + err.Error())
	}
	return pot
}

// Score returns the contact energy of residue types a and b. Types that
// are not in the table, like X, contribute nothing.
func (pot *Potential) Score(a, b byte) float64 {
	if a >= 128 || b >= 128 {
		return 0
	}
	i, j := pot.cmap[a], pot.cmap[b]
	if i == notset || j == notset {
		return 0
	}
	return float64(pot.mat.Mat[i][j])
}
