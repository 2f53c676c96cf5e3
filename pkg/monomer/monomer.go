// 26 Feb 2024

// Package monomer builds a model of one chain from an hhsearch result.
// The query sequence is threaded onto the alpha carbons of the top
// template and the backbone and side chains are then rebuilt by an
// external program (PULCHRA).
package monomer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/andrew-torda/spring/pkg/common"
	"github.com/andrew-torda/spring/pkg/hhr"
	"github.com/andrew-torda/spring/pkg/molecule"
)

var (
	// ErrChainMissing means the template entry does not have the chain
	// the hit was for.
	ErrChainMissing = errors.New("chain not found in template")
	// ErrRebuild means the rebuilding program failed.
	ErrRebuild = errors.New("rebuilding model failed")
	// ErrNoAlignment means the result has no alignment for the template.
	ErrNoAlignment = errors.New("no alignment for template")
)

// Store gives the raw bytes of a database entry. *dbkit.DBKit is one.
type Store interface {
	Bytes(id string) ([]byte, error)
}

// Builder turns an hhsearch result and a template identifier into a
// model and returns the name of the file holding it.
type Builder interface {
	Build(ctx context.Context, res *hhr.Result, id, out string) (string, error)
}

// EntryKey is the database key of the entry holding template chain id.
// 1abc_A lives in 1abc.pdb.
func EntryKey(id string) string {
	name, _ := hhr.SplitID(id)
	return name + ".pdb"
}

// Entry fetches and reads the whole entry that template chain id
// belongs to.
func Entry(db Store, id string) (*molecule.Molecule, error) {
	b, err := db.Bytes(EntryKey(id))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", id, err)
	}
	m, err := molecule.Read(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", id, err)
	}
	return m, nil
}

// Threader is the default Builder.
type Threader struct {
	DB      Store
	Pulchra string // rebuilding program, called as "Pulchra file.pdb"
}

// Thread puts the query residues of an alignment onto the template
// chain. Only columns with a residue on both sides are kept. A kept
// residue takes the query's residue type and numbering and the
// template's alpha carbon position. The template start counts residues
// of the chain in residue number order, from one.
func Thread(tmplt *molecule.Molecule, chain string, a *hhr.Alignment) *molecule.Molecule {
	res := tmplt.SortedResidues(chain)
	qpos, tpos := a.QueryStart, a.TemplateStart-1
	n := min(len(a.Query), len(a.Template))
	var atoms []*molecule.Atom
	for i := 0; i < n; i++ {
		q, t := a.Query[i], a.Template[i]
		if q != common.GapChar && t != common.GapChar && tpos >= 0 && tpos < len(res) {
			atoms = append(atoms, &molecule.Atom{
				Serial:    len(atoms) + 1,
				Name:      "CA",
				ResName:   molecule.ThreeLetter(q),
				Chain:     chain,
				ResNum:    qpos,
				Coord:     res[tpos].CA,
				Occupancy: 1,
				Element:   "C",
			})
		}
		if q != common.GapChar {
			qpos++
		}
		if t != common.GapChar {
			tpos++
		}
	}
	return molecule.New(atoms)
}

// Rebuilt is the name PULCHRA gives its output for input fname.
func Rebuilt(fname string) string {
	return strings.TrimSuffix(fname, ".pdb") + ".rebuilt.pdb"
}

// Build makes a model of the query in res on template chain id. The
// threaded alpha carbons are written to out, and the full model to
// Rebuilt(out), whose name is returned.
func (th *Threader) Build(ctx context.Context, res *hhr.Result, id, out string) (string, error) {
	tmplt, err := Entry(th.DB, id)
	if err != nil {
		return "", err
	}
	_, chain := hhr.SplitID(id)
	if !tmplt.HasChain(chain) {
		return "", fmt.Errorf("%w: %s", ErrChainMissing, id)
	}
	var a *hhr.Alignment
	for i := range res.Alignments {
		if res.Alignments[i].ID == id {
			a = &res.Alignments[i]
			break
		}
	}
	if a == nil {
		return "", fmt.Errorf("%w: %s", ErrNoAlignment, id)
	}
	model := Thread(tmplt, chain, a)
	if err := model.Save(out, "", false); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, th.Pulchra, out)
	if b, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %s %s: %v\n%s", ErrRebuild, th.Pulchra, out, err, b)
	}
	rebuilt := Rebuilt(out)
	if _, err := os.Stat(rebuilt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRebuild, err)
	}
	return rebuilt, nil
}
