// 29 Apr 2020
// 2 Mar 2024 exit code for a run that found no model

// Package common holds the few constants shared by the commands and
// a helper used all over the place in testing.
package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
	ExitNoModel // ran to the end, but nothing passed the filters
)

const GapChar byte = '-' // a minus sign is always used for gaps

// WrtTemp writes s to a new file in the temporary directory and
// returns its name. pattern is as for os.CreateTemp, so "*.toml" keeps
// the suffix. The caller removes the file.
func WrtTemp(s, pattern string) (string, error) {
	fp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(fp, s); err != nil {
		fp.Close()
		os.Remove(fp.Name())
		return "", fmt.Errorf("writing temp file %s: %w", fp.Name(), err)
	}
	return fp.Name(), fp.Close()
}
