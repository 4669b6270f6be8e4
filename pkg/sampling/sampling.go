// Package sampling provides the seeded random draws used by Monte Carlo
// transport: discrete weighted choice and exponential flight distance.
package sampling

import (
	"errors"
	"math"
	"math/rand/v2"
)

// ErrZeroTotalWeight is returned when every weight of a discrete choice is
// zero, leaving nothing to sample.
var ErrZeroTotalWeight = errors.New("sampling: total weight is zero")

// NewRand returns a generator whose sequence is fixed by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WeightedIndex selects the index whose cumulative interval [c_{i-1}, c_i)
// contains u, where u is a draw in [0, sum(weights)). Negative weights are
// treated as zero. A draw at or beyond the total selects the last index with
// a positive weight.
func WeightedIndex(weights []float64, u float64) (int, error) {
	var cum float64
	last := -1
	for i, w := range weights {
		if !(w > 0) {
			continue
		}
		cum += w
		last = i
		if u < cum {
			return i, nil
		}
	}
	if last < 0 {
		return -1, ErrZeroTotalWeight
	}
	return last, nil
}

// Total sums the positive weights.
func Total(weights []float64) float64 {
	var t float64
	for _, w := range weights {
		if w > 0 {
			t += w
		}
	}
	return t
}

// Choose draws u uniformly in [0, total) and returns WeightedIndex(weights, u).
func Choose(weights []float64, rng *rand.Rand) (int, error) {
	total := Total(weights)
	if !(total > 0) {
		return -1, ErrZeroTotalWeight
	}
	return WeightedIndex(weights, rng.Float64()*total)
}

// Distance samples a flight distance -ln(U)/sigmaT with U uniform in (0, 1).
// sigmaT must be positive.
func Distance(sigmaT float64, rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return -math.Log(u) / sigmaT
}
