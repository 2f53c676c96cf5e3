package spring_test

import (
	"math/rand"
	"testing"

	"github.com/andrew-torda/spring/pkg/spring"
)

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		tmA, tmB, e, w, want float64
	}{
		{0.6, 0.8, 10, 0.01, 0.7},
		{0.8, 0.6, 10, 0.01, 0.7},
		{0.5, 0.5, -20, 0.01, 0.3},
		{0.5, 0.9, 100, 0, 0.5},
	}
	for _, tt := range tests {
		got := spring.CompositeScore(tt.tmA, tt.tmB, tt.e, tt.w)
		if d := got - tt.want; d > 1e-12 || d < -1e-12 {
			t.Errorf("%+v gave %v", tt, got)
		}
		if again := spring.CompositeScore(tt.tmA, tt.tmB, tt.e, tt.w); again != got {
			t.Errorf("same input, different answer %v %v", got, again)
		}
	}
}

func TestSelect(t *testing.T) {
	const ceiling = 0.1
	good := &spring.Candidate{Score: 0.5, Clashes: 0.05}
	if spring.Select(nil, good, ceiling) != good {
		t.Error("first good candidate should be taken")
	}
	if spring.Select(nil, nil, ceiling) != nil {
		t.Error("nothing from nothing")
	}
	clash := &spring.Candidate{Score: 0.9, Clashes: ceiling}
	if spring.Select(good, clash, ceiling) != good {
		t.Error("clash ratio equal to the ceiling must be rejected")
	}
	if spring.Select(nil, clash, ceiling) != nil {
		t.Error("clashing candidate taken on an empty scan")
	}
	tie := &spring.Candidate{Score: 0.5, Clashes: 0}
	if spring.Select(good, tie, ceiling) != good {
		t.Error("a tie should not replace the best")
	}
	better := &spring.Candidate{Score: 0.6, Clashes: 0.09}
	if spring.Select(good, better, ceiling) != better {
		t.Error("better candidate not taken")
	}
}

func TestSelectMonotonic(t *testing.T) {
	const ceiling = 0.1
	rng := rand.New(rand.NewSource(1))
	var best *spring.Candidate
	last := -1e9
	for i := 0; i < 1000; i++ {
		c := &spring.Candidate{Score: rng.NormFloat64(), Clashes: rng.Float64() * 0.2}
		next := spring.Select(best, c, ceiling)
		if next != best {
			if next.Clashes >= ceiling {
				t.Fatalf("took candidate with clash ratio %v", next.Clashes)
			}
			if next.Score < last {
				t.Fatalf("best went down from %v to %v", last, next.Score)
			}
			last = next.Score
		}
		best = next
	}
	if best == nil {
		t.Fatal("never found anything")
	}
}
