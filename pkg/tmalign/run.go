package tmalign

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/spring/pkg/molecule"
)

// Names of the files left in the work directory.
const (
	MatFile    = "tmalign.mat"
	ReportFile = "tmalign.out"
)

// Run superposes moving onto fixed. Output files go into workdir, which
// must exist and belong to this call alone. The command is built as an
// argument list, so odd file names do no harm.
func (conf Config) Run(ctx context.Context, moving, fixed, workdir string) (*Report, *molecule.Transform, error) {
	matName := filepath.Join(workdir, MatFile)
	outName := filepath.Join(workdir, ReportFile)
	out, err := os.Create(outName)
	if err != nil {
		return nil, nil, err
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, conf.Binary, moving, fixed, "-m", matName)
	cmd.Stdout = out
	cmd.Stderr = &stderr
	err = cmd.Run()
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s %s %s: %v %s", ErrAlignTool, conf.Binary, moving, fixed,
			err, strings.TrimSpace(stderr.String()))
	}

	fp, err := os.Open(matName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAlignTool, err)
	}
	defer fp.Close()
	xform, err := ReadTransform(fp)
	if err != nil {
		return nil, nil, err
	}

	fp2, err := os.Open(outName)
	if err != nil {
		return nil, nil, err
	}
	defer fp2.Close()
	rep, err := conf.ReadReport(fp2)
	if err != nil {
		return nil, nil, err
	}
	return rep, xform, nil
}

// Superposition is one monomer laid on one template chain.
type Superposition struct {
	Score     float64
	Transform *molecule.Transform
	Moved     *molecule.Molecule // the moving structure in the template's frame
	Aligned   []Aligned
}

// Superpose runs TM-align with movingFile on fixedFile, then moves the
// molecule from movingFile into the template frame and lines up the
// template chain's residues with the moving structure's.
func (conf Config) Superpose(ctx context.Context, movingFile, fixedFile string,
	template []*molecule.Residue, workdir string) (*Superposition, error) {
	rep, xform, err := conf.Run(ctx, movingFile, fixedFile, workdir)
	if err != nil {
		return nil, err
	}
	aligned, err := conf.Correspondence(rep, template)
	if err != nil {
		return nil, err
	}
	mol, err := molecule.ReadFile(movingFile)
	if err != nil {
		return nil, err
	}
	return &Superposition{
		Score:     rep.Score,
		Transform: xform,
		Moved:     mol.Transform(xform),
		Aligned:   aligned,
	}, nil
}
