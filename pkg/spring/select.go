package spring

import (
	"github.com/andrew-torda/spring/pkg/frameworks"
	"github.com/andrew-torda/spring/pkg/tmalign"
)

// Candidate is one framework that made it through both superpositions.
type Candidate struct {
	Pair     frameworks.Pair
	Assembly *Assembly
	A, B     *tmalign.Superposition

	TMscore float64 // the worse of the two TM-scores
	Energy  float64 // interface energy, sign flipped so bigger is better
	Clashes float64
	Score   float64
}

// CompositeScore is the spring score.
func CompositeScore(tmA, tmB, energy, wEnergy float64) float64 {
	return min(tmA, tmB) + wEnergy*energy
}

// Select returns whichever of best and cand should be kept. cand only
// wins if it clashes less than maxClashes and scores strictly better.
// best may be nil at the start of a scan.
func Select(best, cand *Candidate, maxClashes float64) *Candidate {
	if cand == nil || !(cand.Clashes < maxClashes) {
		return best
	}
	if best == nil || cand.Score > best.Score {
		return cand
	}
	return best
}
