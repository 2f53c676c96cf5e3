// Package frameworks proposes pairs of template chains which might serve
// as the framework for a complex. Pairs come out best first through an
// iterator, so the caller can stop whenever it likes.
package frameworks

import (
	"iter"
	"slices"

	"github.com/andrew-torda/spring/pkg/hhr"
	"github.com/andrew-torda/spring/pkg/xref"
)

// Pair is a candidate framework. A is the template chain for the first
// sequence and B for the second. Score is how much we believe the pair.
type Pair struct {
	A, B  string
	Score float64
}

// Join finds every A side hit that is in the cross reference and has a
// partner among the B side hits. The score of a pair is the worse of
// the two hit scores. The result is sorted by descending score. The sort
// is stable, so ties keep the order in which they were found.
func Join(a, b []hhr.RankedHit, idx xref.Index) []Pair {
	bScore := make(map[string]float64, len(b))
	for _, h := range b {
		if _, ok := bScore[h.ID]; !ok {
			bScore[h.ID] = h.Score
		}
	}
	var pairs []Pair
	for _, h := range a {
		for _, p := range idx.Partners(h.ID) {
			sb, ok := bScore[p.Partner]
			if !ok {
				continue
			}
			pairs = append(pairs, Pair{A: p.TemplateA, B: p.TemplateB, Score: min(h.Score, sb)})
		}
	}
	slices.SortStableFunc(pairs, func(x, y Pair) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		}
		return 0
	})
	return pairs
}

// Stream hands out pairs in the order given. It stops at the first pair
// scoring below minScore or once maxTries pairs have gone out. A
// maxTries less than one lets nothing through.
func Stream(pairs []Pair, minScore float64, maxTries int) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		for i, p := range pairs {
			if p.Score < minScore || i >= maxTries {
				return
			}
			if !yield(p) {
				return
			}
		}
	}
}

// CrossReference is Join followed by Stream.
func CrossReference(a, b []hhr.RankedHit, idx xref.Index, minScore float64, maxTries int) iter.Seq[Pair] {
	return Stream(Join(a, b, idx), minScore, maxTries)
}

// Direct walks the A side hits without a cross reference. The B chain
// comes from the same entry as A: the best B side hit in that entry if
// there is one, otherwise A itself, which only works out if a biological
// assembly makes a second copy. The score is that of the A hit. Hits are
// taken as ranked, so the same thresholds as Stream apply.
func Direct(a, b []hhr.RankedHit, minScore float64, maxTries int) iter.Seq[Pair] {
	bByEntry := make(map[string]string)
	for _, h := range b {
		name, _ := hhr.SplitID(h.ID)
		if _, ok := bByEntry[name]; !ok {
			bByEntry[name] = h.ID
		}
	}
	pairs := make([]Pair, 0, len(a))
	for _, h := range a {
		name, _ := hhr.SplitID(h.ID)
		partner, ok := bByEntry[name]
		if !ok {
			partner = h.ID
		}
		pairs = append(pairs, Pair{A: h.ID, B: partner, Score: h.Score})
	}
	return Stream(pairs, minScore, maxTries)
}
