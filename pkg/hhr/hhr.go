// 20 Feb 2024

// Package hhr reads the result files written by hhsearch and hhblits.
// We want the table of hits at the top, which becomes a ranked list of
// templates, and the alignment blocks further down, which are needed
// to thread a query onto a template.
//
// The hit table has fixed columns. From the hhsuite source
//
//	%3i %-30.30s %5.1f %7.2G %7.2G %6.1f %5.1f %4i ...
//
// so the score lives in columns 57 to 63 (counting from zero).
package hhr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrew-torda/spring/pkg/zwrap"
)

// ErrNoHits means we could not find the table of hits.
var ErrNoHits = errors.New("no hit table in hhr file")

const (
	probStart  = 35
	probEnd    = 40
	evalStart  = 41
	evalEnd    = 48
	scoreStart = 57
	scoreEnd   = 63
	nameStart  = 4
	nameEnd    = 34
)

// Hit is one row of the table of hits.
type Hit struct {
	No     int
	ID     string // template identifier like 1abc_A
	Prob   float64
	EValue float64
	Score  float64
}

// RankedHit is a template and how much we believe it. Lists are kept in
// the order of the file, which is best first.
type RankedHit struct {
	ID    string
	Score float64
}

// Alignment is one "No n" block. The aligned strings include gaps and
// the starts count from one, as in the file.
type Alignment struct {
	No            int
	ID            string
	Query         string
	Template      string
	QueryStart    int
	TemplateStart int
}

// Result is what we take from one hhr file.
type Result struct {
	Query      string
	Hits       []Hit
	Alignments []Alignment
}

// Ranked gives the template identifiers with their scores, in the order
// of the hit table. If an identifier appears twice, the first one wins.
func (r *Result) Ranked() []RankedHit {
	ret := make([]RankedHit, 0, len(r.Hits))
	seen := make(map[string]bool, len(r.Hits))
	for _, h := range r.Hits {
		if seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		ret = append(ret, RankedHit{ID: h.ID, Score: h.Score})
	}
	return ret
}

// Top is the best template. It returns an empty string if there were
// no hits.
func (r *Result) Top() string {
	if len(r.Hits) == 0 {
		return ""
	}
	return r.Hits[0].ID
}

// Alignment returns the alignment block for hit number no, or nil.
func (r *Result) Alignment(no int) *Alignment {
	for i := range r.Alignments {
		if r.Alignments[i].No == no {
			return &r.Alignments[i]
		}
	}
	return nil
}

// column returns a trimmed fixed column slice, empty on short lines.
func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

// hitLine reads one row of the hit table.
func hitLine(line string) (Hit, error) {
	var h Hit
	var err error
	bust := func(what string, err error) (Hit, error) {
		return h, fmt.Errorf("hit table %s in %q: %w", what, line, err)
	}
	if h.No, err = strconv.Atoi(column(line, 0, 3)); err != nil {
		return bust("number", err)
	}
	name := strings.Fields(column(line, nameStart, nameEnd))
	if len(name) == 0 {
		return bust("name", errors.New("empty"))
	}
	h.ID = name[0]
	if h.Prob, err = strconv.ParseFloat(column(line, probStart, probEnd), 64); err != nil {
		return bust("probability", err)
	}
	if h.EValue, err = strconv.ParseFloat(column(line, evalStart, evalEnd), 64); err != nil {
		return bust("E-value", err)
	}
	if h.Score, err = strconv.ParseFloat(column(line, scoreStart, scoreEnd), 64); err != nil {
		return bust("score", err)
	}
	return h, nil
}

// annotation lines in an alignment block which are not sequences
var notSeq = map[string]bool{
	"ss_pred": true, "ss_conf": true, "ss_dssp": true, "Consensus": true,
}

// seqLine picks apart
//
//	Q T1084            1 MKVLAAGIV   9 (120)
//
// and returns the start and the aligned string. ok is false for
// consensus and secondary structure lines.
func seqLine(line string) (start int, s string, ok bool, err error) {
	f := strings.Fields(line)
	if len(f) < 2 || notSeq[f[1]] {
		return 0, "", false, nil
	}
	if len(f) < 5 {
		return 0, "", false, fmt.Errorf("broken alignment line %q", line)
	}
	if start, err = strconv.Atoi(f[2]); err != nil {
		return 0, "", false, fmt.Errorf("alignment start in %q: %w", line, err)
	}
	return start, f[3], true, nil
}

// alignLine adds one Q or T line to the alignment being built. Long
// alignments come in several chunks, so sequences are concatenated and
// only the first start is kept.
func (a *Alignment) alignLine(line string) error {
	start, s, ok, err := seqLine(line)
	if !ok {
		return err
	}
	if line[0] == 'Q' {
		if a.Query == "" {
			a.QueryStart = start
		}
		a.Query += s
	} else {
		if a.Template == "" {
			a.TemplateStart = start
		}
		a.Template += s
	}
	return nil
}

// Read reads an hhr file.
func Read(r io.Reader) (*Result, error) {
	const (
		header = iota
		table
		blocks
	)
	var res Result
	var cur *Alignment
	state := header
	scnr := bufio.NewScanner(r)
	scnr.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for nline := 1; scnr.Scan(); nline++ {
		line := scnr.Text()
		switch state {
		case header:
			if strings.HasPrefix(line, "Query ") {
				if f := strings.Fields(line); len(f) > 1 {
					res.Query = f[1]
				}
			}
			if strings.HasPrefix(line, " No Hit") {
				state = table
			}
		case table:
			if strings.TrimSpace(line) == "" {
				state = blocks
				continue
			}
			h, err := hitLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", nline, err)
			}
			res.Hits = append(res.Hits, h)
		case blocks:
			switch {
			case strings.HasPrefix(line, "No "):
				n, err := strconv.Atoi(strings.TrimSpace(line[3:]))
				if err != nil {
					return nil, fmt.Errorf("line %d: alignment number: %w", nline, err)
				}
				res.Alignments = append(res.Alignments, Alignment{No: n})
				cur = &res.Alignments[len(res.Alignments)-1]
			case cur == nil:
			case strings.HasPrefix(line, ">"):
				if f := strings.Fields(line[1:]); len(f) > 0 {
					cur.ID = f[0]
				}
			case strings.HasPrefix(line, "Q "), strings.HasPrefix(line, "T "):
				if err := cur.alignLine(line); err != nil {
					return nil, fmt.Errorf("line %d: %w", nline, err)
				}
			}
		}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	if state == header {
		return nil, ErrNoHits
	}
	return &res, nil
}

// ReadFile reads an hhr file, possibly gzipped.
func ReadFile(fname string) (*Result, error) {
	r, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	res, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return res, nil
}

// SplitID breaks a template identifier like 1abc_A into the entry name
// and the chain. The split is at the last underscore. With no underscore
// the chain is empty.
func SplitID(id string) (name, chain string) {
	i := strings.LastIndexByte(id, '_')
	if i < 0 {
		return id, ""
	}
	return id[:i], id[i+1:]
}
