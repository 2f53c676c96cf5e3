// 27 Feb 2024

package spring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/andrew-torda/spring/pkg/tmalign"
)

// Config is everything a run needs to know. It is filled in once, from
// defaults, a configuration file and the command line, then only read.
type Config struct {
	AHhr     string `toml:"a_hhr"`    // hhsearch result for the first sequence
	BHhr     string `toml:"b_hhr"`    // and the second
	Index    string `toml:"index"`    // database index
	Database string `toml:"database"` // concatenated PDB entries
	Cross    string `toml:"cross"`    // cross reference of partner chains
	Output   string `toml:"output"`   // model goes here

	MinScore     float64 `toml:"minscore"`     // worst framework score we try
	MaxTries     int     `toml:"maxtries"`     // most frameworks we try
	WEnergy      float64 `toml:"wenergy"`      // weight of interface energy in the score
	MaxClashes   float64 `toml:"maxclashes"`   // models must clash less than this
	ShowTemplate bool    `toml:"showtemplate"` // append template assembly to the model
	Log          string  `toml:"log"`          // one line summary is appended here
	Direct       bool    `toml:"direct"`       // walk the hits of A, no cross reference

	Workdir   string `toml:"workdir"`   // scratch directories are made in here
	TMalign   string `toml:"tmalign"`   // TM-align executable
	ScoreLine int    `toml:"scoreline"` // line of the first TM-score in TM-align's report
	AlignLine int    `toml:"alignline"` // line of the alignment in TM-align's report
	Relaxed   bool   `toml:"relaxed"`   // count "." in TM-align alignments as matches
	Pulchra   string `toml:"pulchra"`   // backbone and side chain rebuilding program
	Potential string `toml:"potential"` // contact energy table, built in if empty
}

// DefaultConfig has the values used when nothing else is said.
func DefaultConfig() Config {
	return Config{
		MinScore:   0.5,
		MaxTries:   10,
		WEnergy:    0.01,
		MaxClashes: 0.1,
		Log:        "spring.log",
		Workdir:    "temp",
		TMalign:    tmalign.DefaultConfig.Binary,
		ScoreLine:  tmalign.DefaultConfig.ScoreLine,
		AlignLine:  tmalign.DefaultConfig.AlignLine,
		Pulchra:    "pulchra",
	}
}

// LoadConfig reads a toml file over the top of conf. Keys we do not
// know about are an error, since they are probably spelling mistakes.
func LoadConfig(fname string, conf *Config) error {
	md, err := toml.DecodeFile(fname, conf)
	if err != nil {
		return fmt.Errorf("config file %s: %w", fname, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys %s", fname, strings.Join(keys, ", "))
	}
	return nil
}

// Check looks for missing or silly settings before any work is done.
func (conf *Config) Check() error {
	var errs []error
	need := func(val, name string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%s not set", name))
		}
	}
	need(conf.AHhr, "a_hhr")
	need(conf.BHhr, "b_hhr")
	need(conf.Index, "index")
	need(conf.Database, "database")
	need(conf.Output, "output")
	need(conf.Workdir, "workdir")
	need(conf.TMalign, "tmalign")
	need(conf.Pulchra, "pulchra")
	if !conf.Direct {
		need(conf.Cross, "cross")
	}
	if conf.MaxTries < 1 {
		errs = append(errs, fmt.Errorf("maxtries %d, must be at least 1", conf.MaxTries))
	}
	if conf.MaxClashes <= 0 || conf.MaxClashes > 1 {
		errs = append(errs, fmt.Errorf("maxclashes %g must be in (0, 1]", conf.MaxClashes))
	}
	if conf.ScoreLine < 0 || conf.AlignLine < 0 {
		errs = append(errs, errors.New("TM-align line numbers cannot be negative"))
	}
	return errors.Join(errs...)
}

// TMConfig is the part of the configuration for running TM-align.
func (conf *Config) TMConfig() tmalign.Config {
	return tmalign.Config{
		Binary:    conf.TMalign,
		ScoreLine: conf.ScoreLine,
		AlignLine: conf.AlignLine,
		Relaxed:   conf.Relaxed,
	}
}
