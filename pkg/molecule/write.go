package molecule

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// padName puts an atom name into the four columns PDB wants.
// Names shorter than four characters start in the second column.
func padName(name string) string {
	if len(name) < 4 {
		return " " + name
	}
	return name
}

func blankIfZero(c byte) byte {
	if c == 0 {
		return ' '
	}
	return c
}

// writeAtom writes one record with the given chain label. Only the
// first character of a label like "A_0" fits in the chain column.
func writeAtom(w io.Writer, a *Atom, serial int, chain string) error {
	rec := "ATOM"
	if a.Het {
		rec = "HETATM"
	}
	c := byte(' ')
	if len(chain) > 0 {
		c = chain[0]
	}
	_, err := fmt.Fprintf(w, "%-6s%5d %-4s%c%3s %c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
		rec, serial%100000, padName(a.Name), blankIfZero(a.AltLoc), a.ResName, c,
		a.ResNum, blankIfZero(a.ICode), a.Coord.X, a.Coord.Y, a.Coord.Z,
		a.Occupancy, a.BFactor, a.Element)
	return err
}

// write sends atoms that pass the filter. If rename is not empty, every
// atom is written with that chain label.
func (m *Molecule) write(w io.Writer, keep func(*Atom) bool, rename string) error {
	bw := bufio.NewWriter(w)
	serial := 0
	last := ""
	for _, a := range m.Atoms {
		if !keep(a) {
			continue
		}
		if serial > 0 && a.Chain != last && rename == "" {
			fmt.Fprintln(bw, "TER")
		}
		last = a.Chain
		serial++
		chain := a.Chain
		if rename != "" {
			chain = rename
		}
		if err := writeAtom(bw, a, serial, chain); err != nil {
			return err
		}
	}
	if serial > 0 {
		fmt.Fprintln(bw, "TER")
	}
	return bw.Flush()
}

// Write writes every atom. If chainName is not empty, all atoms are
// given that chain label.
func (m *Molecule) Write(w io.Writer, chainName string) error {
	return m.write(w, func(*Atom) bool { return true }, chainName)
}

// WriteChain writes only the atoms of one chain.
func (m *Molecule) WriteChain(w io.Writer, chain string) error {
	return m.write(w, func(a *Atom) bool { return a.Chain == chain }, "")
}

func openOut(fname string, appendTo bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendTo {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	return os.OpenFile(fname, flags, 0644)
}

// Save writes the molecule to a file, truncating it unless appendTo
// is set.
func (m *Molecule) Save(fname, chainName string, appendTo bool) error {
	fp, err := openOut(fname, appendTo)
	if err != nil {
		return err
	}
	if err := m.Write(fp, chainName); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return fp.Close()
}

// SaveChain writes a single chain to a new file.
func (m *Molecule) SaveChain(chain, fname string) error {
	if !m.HasChain(chain) {
		return fmt.Errorf("chain %s not in molecule", chain)
	}
	fp, err := openOut(fname, false)
	if err != nil {
		return err
	}
	if err := m.WriteChain(fp, chain); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return fp.Close()
}
