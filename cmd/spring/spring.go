// 28 Feb 2024

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	. "github.com/andrew-torda/spring/pkg/common"
	"github.com/andrew-torda/spring/pkg/spring"
)

func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] -a_hhr a.hhr -b_hhr b.hhr -index idx -database db -cross xref -output model.pdb")
	flag.PrintDefaults()
	return ExitUsageError
}

// run does the work and gives the exit status, so deferred calls
// happen before the program exits.
func run() int {
	conf := spring.DefaultConfig()
	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "toml configuration file")
	flag.StringVar(&conf.AHhr, "a_hhr", "", "hhsearch result for sequence A")
	flag.StringVar(&conf.BHhr, "b_hhr", "", "hhsearch result for sequence B")
	flag.StringVar(&conf.Index, "index", "", "database index file")
	flag.StringVar(&conf.Database, "database", "", "database file")
	flag.StringVar(&conf.Cross, "cross", "", "cross reference file")
	flag.StringVar(&conf.Output, "output", "", "output model")
	flag.Float64Var(&conf.MinScore, "minscore", conf.MinScore, "minimum framework score")
	flag.IntVar(&conf.MaxTries, "maxtries", conf.MaxTries, "maximum number of frameworks")
	flag.Float64Var(&conf.WEnergy, "wenergy", conf.WEnergy, "weight of interface energy")
	flag.Float64Var(&conf.MaxClashes, "maxclashes", conf.MaxClashes, "maximum clash ratio")
	flag.BoolVar(&conf.ShowTemplate, "showtemplate", false, "append template to the model")
	flag.StringVar(&conf.Log, "log", conf.Log, "summary log, appended to")
	flag.BoolVar(&conf.Direct, "direct", false, "no cross reference, take partners from the same entry")
	flag.StringVar(&conf.Workdir, "workdir", conf.Workdir, "directory for scratch files")
	flag.StringVar(&conf.TMalign, "tmalign", conf.TMalign, "TM-align executable")
	flag.IntVar(&conf.ScoreLine, "scoreline", conf.ScoreLine, "line of first TM-score in TM-align output")
	flag.IntVar(&conf.AlignLine, "alignline", conf.AlignLine, "line of alignment in TM-align output")
	flag.BoolVar(&conf.Relaxed, "relaxed", false, "count '.' in TM-align alignments as matches")
	flag.StringVar(&conf.Pulchra, "pulchra", conf.Pulchra, "pulchra executable")
	flag.StringVar(&conf.Potential, "potential", "", "contact energy table, built in by default")
	flag.Parse()

	if cfgFile != "" { // file first, then let the command line win
		if err := spring.LoadConfig(cfgFile, &conf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return ExitUsageError
		}
		flag.Parse()
	}
	if flag.NArg() != 0 {
		return usage()
	}
	if err := conf.Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_, err := spring.Run(ctx, &conf, log.New(os.Stdout, "", 0))
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, spring.ErrNoModel):
		fmt.Fprintln(os.Stderr, err)
		return ExitNoModel
	default:
		fmt.Fprintln(os.Stderr, err)
		return ExitFailure
	}
}

func main() { os.Exit(run()) }
