// 22 Feb 2024

// Package tmalign runs TM-align and reads what it writes. TM-align
// superposes a moving structure onto a fixed one. It leaves the rotation
// matrix in the file given with -m and prints a report to stdout, which
// holds the TM-scores and the structure based sequence alignment.
package tmalign

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/spring/pkg/common"
	"github.com/andrew-torda/spring/pkg/molecule"
)

var (
	// ErrAlignTool means TM-align failed or wrote something we cannot use.
	ErrAlignTool = errors.New("TM-align failed")
	// ErrScoreParse means a number in the output could not be read.
	ErrScoreParse = errors.New("TM-align output not understood")
)

// DefaultConfig is right for TM-align version 20190822. Other versions
// move the lines around, so ScoreLine and AlignLine may need changing.
var DefaultConfig = Config{
	Binary:    "TMalign",
	ScoreLine: 13,
	AlignLine: 18,
	Relaxed:   false,
}

// Config says where TM-align lives and how to read its report.
type Config struct {
	// Binary is the TM-align executable.
	Binary string

	// ScoreLine is the line number (from 0) of the first of the two
	// TM-score lines. The second follows directly.
	ScoreLine int

	// AlignLine is the line number (from 0) of the moving structure's
	// aligned sequence. The match markers and the fixed structure's
	// aligned sequence follow directly.
	AlignLine int

	// Relaxed lets "." count as a match as well as ":".
	Relaxed bool
}

// Report is what we take from the text TM-align prints.
type Report struct {
	Score float64    // the larger of the two normalised TM-scores
	TM    [2]float64 // normalised by moving and by fixed length
	rows  *matrix.BMatrix2d
}

// Rows of the alignment in the report.
const (
	MovingRow = iota
	OpsRow
	FixedRow
)

// Row returns one of the three aligned lines as a string.
func (rep *Report) Row(i int) string { return string(rep.rows.Mat[i]) }

// Len is the number of alignment columns.
func (rep *Report) Len() int {
	_, n := rep.rows.Size()
	return n
}

// ReadTransform reads the file from TM-align's -m option.
//
//	------ The rotation matrix to rotate Chain_1 to Chain_2 ------
//	m               t[m]        u[m][0]        u[m][1]        u[m][2]
//	0     -1.2345678901   0.9999999999   0.0000000000   0.0000000000
//	1 ...
//
// After two header lines come three rows. The first column is the row
// number, then translation, then the row of the rotation.
func ReadTransform(r io.Reader) (*molecule.Transform, error) {
	scnr := bufio.NewScanner(r)
	for i := 0; i < 2; i++ {
		if !scnr.Scan() {
			return nil, fmt.Errorf("%w: transform file header missing", ErrScoreParse)
		}
	}
	var rows [3][4]float64
	for i := 0; i < 3; i++ {
		if !scnr.Scan() {
			return nil, fmt.Errorf("%w: transform file has only %d rows", ErrScoreParse, i)
		}
		line := scnr.Text()
		if len(line) < 1 {
			return nil, fmt.Errorf("%w: empty transform row %d", ErrScoreParse, i)
		}
		f := strings.Fields(line[1:])
		if len(f) != 4 {
			return nil, fmt.Errorf("%w: transform row %q wants 4 numbers", ErrScoreParse, line)
		}
		var x [4]float64
		for j, s := range f {
			var err error
			if x[j], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("%w: transform row %q: %v", ErrScoreParse, line, err)
			}
		}
		rows[i] = [4]float64{x[1], x[2], x[3], x[0]}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	return molecule.NewTransform(rows), nil
}

// tmScore reads "TM-score= 0.81234 (if normalized by ...".
func tmScore(line string) (float64, error) {
	const tag = "TM-score="
	if !strings.HasPrefix(line, tag) {
		return 0, fmt.Errorf("%w: wanted TM-score, got %q", ErrScoreParse, line)
	}
	f := strings.Fields(line[len(tag):])
	if len(f) == 0 {
		return 0, fmt.Errorf("%w: no number in %q", ErrScoreParse, line)
	}
	x, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrScoreParse, line, err)
	}
	return x, nil
}

// ReadReport reads TM-align's stdout. The positions of the lines come
// from the config.
func (conf Config) ReadReport(r io.Reader) (*Report, error) {
	var lines []string
	scnr := bufio.NewScanner(r)
	scnr.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	last := max(conf.ScoreLine+1, conf.AlignLine+2)
	for len(lines) <= last && scnr.Scan() {
		lines = append(lines, strings.TrimRight(scnr.Text(), "\r"))
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	if len(lines) <= conf.ScoreLine+1 {
		return nil, fmt.Errorf("%w: report has no TM-score lines", ErrAlignTool)
	}
	rep := new(Report)
	for i := range rep.TM {
		var err error
		if rep.TM[i], err = tmScore(lines[conf.ScoreLine+i]); err != nil {
			return nil, err
		}
	}
	rep.Score = max(rep.TM[0], rep.TM[1])

	if len(lines) <= conf.AlignLine+2 {
		return nil, fmt.Errorf("%w: report has no alignment", ErrAlignTool)
	}
	moving, ops, fixed := lines[conf.AlignLine], lines[conf.AlignLine+1], lines[conf.AlignLine+2]
	if len(moving) != len(fixed) || len(ops) > len(fixed) {
		return nil, fmt.Errorf("%w: aligned lines have lengths %d, %d, %d",
			ErrAlignTool, len(moving), len(ops), len(fixed))
	}
	rep.rows = matrix.NewBMatrix2d(3, len(fixed))
	copy(rep.rows.Mat[MovingRow], moving)
	copy(rep.rows.Mat[FixedRow], fixed)
	m := rep.rows.Mat[OpsRow]
	for i := range m { // trailing blanks may have been lost
		m[i] = ' '
	}
	copy(m, ops)
	return rep, nil
}

// Aligned is a template residue and the query residue type sitting on
// it in the alignment.
type Aligned struct {
	*molecule.Residue
	Query byte
}

// match says if an operator marks a column we believe.
func (conf Config) match(op byte) bool {
	return op == ':' || (conf.Relaxed && op == '.')
}

// Correspondence walks the alignment in the report along the residues
// of the fixed chain, which must be sorted by residue number. It returns
// the fixed residues in the columns marked as matches, each tagged with
// the moving structure's residue type in that column. Every non-gap
// fixed column moves us one residue on, so at the end we must have used
// up exactly all the residues.
func (conf Config) Correspondence(rep *Report, residues []*molecule.Residue) ([]Aligned, error) {
	moving := rep.rows.Mat[MovingRow]
	ops := rep.rows.Mat[OpsRow]
	fixed := rep.rows.Mat[FixedRow]
	var ret []Aligned
	cursor := 0
	for i := range fixed {
		if conf.match(ops[i]) {
			if cursor >= len(residues) {
				return nil, fmt.Errorf("%w: alignment runs past %d template residues", ErrAlignTool, len(residues))
			}
			ret = append(ret, Aligned{Residue: residues[cursor], Query: moving[i]})
		}
		if fixed[i] != common.GapChar {
			cursor++
		}
	}
	if cursor != len(residues) {
		return nil, fmt.Errorf("%w: alignment covers %d of %d template residues",
			ErrAlignTool, cursor, len(residues))
	}
	return ret, nil
}
