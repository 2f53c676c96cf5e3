// Package spring builds a model of a two chain complex. Each sequence
// has an hhsearch result. The best hit of each gives a monomer model.
// Pairs of template chains known to form complexes are then tried as
// frameworks: each monomer is superposed on its template chain, the
// interface is scored and the best framework that does not have the
// two monomers crashing into each other wins.
package spring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"

	"github.com/andrew-torda/spring/pkg/dbkit"
	"github.com/andrew-torda/spring/pkg/energy"
	"github.com/andrew-torda/spring/pkg/frameworks"
	"github.com/andrew-torda/spring/pkg/hhr"
	"github.com/andrew-torda/spring/pkg/molecule"
	"github.com/andrew-torda/spring/pkg/monomer"
	"github.com/andrew-torda/spring/pkg/tmalign"
	"github.com/andrew-torda/spring/pkg/xref"
)

// ErrNoModel means the run finished without finding a model.
var ErrNoModel = errors.New("failed to determine model")

// Superposer lays a moving structure onto a template chain.
// tmalign.Config is one.
type Superposer interface {
	Superpose(ctx context.Context, movingFile, fixedFile string,
		template []*molecule.Residue, workdir string) (*tmalign.Superposition, error)
}

// Driver has what is needed to evaluate frameworks.
type Driver struct {
	Conf       *Config
	Store      monomer.Store
	Superposer Superposer
	Scorer     energy.Scorer
	Log        *log.Logger
}

// Result says how a scan went.
type Result struct {
	Best      *Candidate
	Evaluated int // frameworks that were scored
	Failed    int // superposition failed
	Skipped   int // no entry or no assembly with both chains
}

// Names of files in a candidate's scratch directory.
const (
	templateA = "template_0.pdb"
	templateB = "template_1.pdb"
)

// evaluate superposes both monomers on the chains of one assembly and
// scores the result. It works in its own scratch directory, which is
// gone by the time we return.
func (d *Driver) evaluate(ctx context.Context, asm *Assembly, monoA, monoB string) (*Candidate, error) {
	dir, err := os.MkdirTemp(d.Conf.Workdir, "candidate")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	fA, fB := filepath.Join(dir, templateA), filepath.Join(dir, templateB)
	if err := asm.Unit.SaveChain(asm.ChainA, fA); err != nil {
		return nil, err
	}
	if err := asm.Unit.SaveChain(asm.ChainB, fB); err != nil {
		return nil, err
	}
	spA, err := d.Superposer.Superpose(ctx, monoA, fA, asm.Unit.SortedResidues(asm.ChainA), dir)
	if err != nil {
		return nil, err
	}
	spB, err := d.Superposer.Superpose(ctx, monoB, fB, asm.Unit.SortedResidues(asm.ChainB), dir)
	if err != nil {
		return nil, err
	}
	c := &Candidate{Assembly: asm, A: spA, B: spB}
	c.TMscore = min(spA.Score, spB.Score)
	c.Energy = -d.Scorer.Energy(spA.Aligned, spB.Aligned)
	c.Clashes = d.Scorer.Clashes(spA.Moved, spB.Moved)
	c.Score = CompositeScore(spA.Score, spB.Score, c.Energy, d.Conf.WEnergy)
	return c, nil
}

// Scan tries each framework in turn and keeps the best. Problems with a
// single framework are logged and the scan goes on. Only a cancelled
// context stops it early.
func (d *Driver) Scan(ctx context.Context, pairs iter.Seq[frameworks.Pair], monoA, monoB string) (*Result, error) {
	lg := d.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	res := new(Result)
	for pair := range pairs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		lg.Printf("Evaluating Complex Template: %s.", pair.A)
		tmplt, err := monomer.Entry(d.Store, pair.A)
		if err != nil {
			lg.Printf("Warning: skipping %s: %v", pair.A, err)
			res.Skipped++
			continue
		}
		_, chainA := hhr.SplitID(pair.A)
		_, chainB := hhr.SplitID(pair.B)
		lg.Printf("Evaluating chain %s and %s...", pair.A, pair.B)
		asm, ok, err := FindAssembly(tmplt, chainA, chainB)
		if err != nil {
			lg.Printf("Warning: skipping %s: %v", pair.A, err)
			res.Skipped++
			continue
		}
		if !ok {
			lg.Printf("Warning: no assembly of %s has chains %s and %s.", pair.A, chainA, chainB)
			res.Skipped++
			continue
		}
		lg.Printf("Evaluating biomolecule %d...", asm.Index)
		cand, err := d.evaluate(ctx, asm, monoA, monoB)
		if err != nil {
			lg.Printf("Warning: Failed TMalign [%s].", asm.ChainB)
			lg.Print(err)
			res.Failed++
			continue
		}
		cand.Pair = pair
		res.Evaluated++
		lg.Printf("  minTMscore : %5.2f", cand.TMscore)
		lg.Printf("  Interaction: %5.2f", cand.Energy)
		lg.Printf("  ClashRatio : %5.2f", cand.Clashes)
		lg.Printf("  SpringScore: %5.2f", cand.Score)
		res.Best = Select(res.Best, cand, d.Conf.MaxClashes)
	}
	return res, nil
}

// Run is the whole job. Problems with the input files are returned
// straight away. If either monomer cannot be built, or no framework
// passes, the error wraps ErrNoModel. On success the model is written
// and a line is added to the summary log.
func Run(ctx context.Context, conf *Config, lg *log.Logger) (*Result, error) {
	if err := conf.Check(); err != nil {
		return nil, err
	}
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	lg.Println("SPRING - Complex Model Creation")
	nameA, nameB := filepath.Base(conf.AHhr), filepath.Base(conf.BHhr)
	lg.Printf("Sequence A: %s", nameA)
	lg.Printf("Sequence B: %s", nameB)
	hitsA, err := hhr.ReadFile(conf.AHhr)
	if err != nil {
		return nil, err
	}
	hitsB, err := hhr.ReadFile(conf.BHhr)
	if err != nil {
		return nil, err
	}
	db, err := dbkit.Open(conf.Index, conf.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	scorer, err := newScorer(conf.Potential)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(conf.Workdir, 0o755); err != nil {
		return nil, err
	}

	var pairs iter.Seq[frameworks.Pair]
	if conf.Direct {
		pairs = frameworks.Direct(hitsA.Ranked(), hitsB.Ranked(), conf.MinScore, conf.MaxTries)
	} else {
		idx, err := xref.ReadFile(conf.Cross)
		if err != nil {
			return nil, err
		}
		joined := frameworks.Join(hitsA.Ranked(), hitsB.Ranked(), idx)
		lg.Printf("Found %d templates.", len(joined))
		pairs = frameworks.Stream(joined, conf.MinScore, conf.MaxTries)
	}

	mdir, err := os.MkdirTemp(conf.Workdir, "monomers")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(mdir)
	builder := &monomer.Threader{DB: db, Pulchra: conf.Pulchra}
	monoA, err := buildMonomer(ctx, builder, hitsA, filepath.Join(mdir, "monomerA.pdb"), lg)
	if err != nil {
		return nil, fmt.Errorf("%w: sequence A: %w", ErrNoModel, err)
	}
	monoB, err := buildMonomer(ctx, builder, hitsB, filepath.Join(mdir, "monomerB.pdb"), lg)
	if err != nil {
		return nil, fmt.Errorf("%w: sequence B: %w", ErrNoModel, err)
	}

	d := &Driver{Conf: conf, Store: db, Superposer: conf.TMConfig(), Scorer: scorer, Log: lg}
	res, err := d.Scan(ctx, pairs, monoA, monoB)
	if err != nil {
		return res, err
	}
	if res.Best == nil {
		lg.Println("Warning: Failed to determine model.")
		return res, ErrNoModel
	}
	if err := WriteModel(conf.Output, res.Best, conf.ShowTemplate); err != nil {
		return res, err
	}
	if err := AppendLog(conf.Log, nameA, nameB, res.Best); err != nil {
		return res, err
	}
	lg.Println("Completed.")
	lg.Printf("SpringScore: %5.2f", res.Best.Score)
	lg.Printf("Result stored to %s", conf.Output)
	return res, nil
}

func buildMonomer(ctx context.Context, b monomer.Builder, res *hhr.Result, out string, lg *log.Logger) (string, error) {
	top := res.Top()
	if top == "" {
		return "", errors.New("no hits")
	}
	lg.Printf("Building model with: %s.", top)
	return b.Build(ctx, res, top, out)
}
