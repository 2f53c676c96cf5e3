package spring

import (
	"fmt"
	"os"

	"github.com/andrew-torda/spring/pkg/energy"
	"github.com/andrew-torda/spring/pkg/potential"
)

// newScorer uses the contact table in fname, or the built in one if
// fname is empty.
func newScorer(fname string) (energy.Scorer, error) {
	if fname == "" {
		return energy.NewContactScorer(nil), nil
	}
	pot, err := potential.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return energy.NewContactScorer(pot), nil
}

// WriteModel writes monomer A as chain 0 and monomer B as chain 1. With
// showTemplate, the template assembly follows so one can see where the
// model came from.
func WriteModel(fname string, c *Candidate, showTemplate bool) error {
	if err := c.A.Moved.Save(fname, "0", false); err != nil {
		return err
	}
	if err := c.B.Moved.Save(fname, "1", true); err != nil {
		return err
	}
	if showTemplate {
		return c.Assembly.Unit.Save(fname, "", true)
	}
	return nil
}

const logHeader = "# Columns: NameA, NameB, Score, TMscore, Energy, Clashes\n"

func summaryLine(nameA, nameB string, c *Candidate) string {
	return fmt.Sprintf("%s\t %s\t %5.2f\t %5.2f\t %5.2f\t %5.2f\n",
		nameA, nameB, c.Score, c.TMscore, c.Energy, c.Clashes)
}

// AppendLog adds a line for this model to the summary log. A new log
// starts with a header line.
func AppendLog(fname, nameA, nameB string, c *Candidate) error {
	_, err := os.Stat(fname)
	isNew := os.IsNotExist(err)
	fp, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if isNew {
		if _, err := fp.WriteString(logHeader); err != nil {
			fp.Close()
			return err
		}
	}
	if _, err := fp.WriteString(summaryLine(nameA, nameB, c)); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
