// Package interp provides the interpolation kernels used to evaluate tabulated
// cross sections at arbitrary energies.
//
// All kernels share one boundary policy: a query at or below the first
// abscissa returns the first ordinate and a query at or above the last
// abscissa returns the last ordinate. They never fail on out-of-range input.
package interp

import (
	"math"
	"sort"
)

// Law is an ENDF interpolation scheme code.
type Law int

const (
	LawHistogram Law = 1 // y constant on each interval
	LawLinLin    Law = 2
	LawLinLog    Law = 3 // y linear in ln(x)
	LawLogLin    Law = 4 // ln(y) linear in x
	LawLogLog    Law = 5
)

// FindInterval returns i such that x[i] <= at < x[i+1]. x must be ascending
// with at least two points and x[0] <= at < x[len(x)-1].
func FindInterval(x []float64, at float64) int {
	// first index whose value is strictly greater than at
	j := sort.Search(len(x), func(k int) bool { return x[k] > at })
	if j == 0 {
		return 0
	}
	if j >= len(x) {
		return len(x) - 2
	}
	return j - 1
}

// bracket applies the shared boundary policy. When done is true, y is the
// answer; otherwise i is the interior interval index.
func bracket(x, y []float64, at float64) (v float64, i int, done bool) {
	n := len(x)
	switch {
	case n == 0 || len(y) == 0:
		return math.NaN(), 0, true
	case n == 1:
		return y[0], 0, true
	case at <= x[0]:
		return y[0], 0, true
	case at >= x[n-1]:
		return y[len(y)-1], 0, true
	}
	return 0, FindInterval(x, at), false
}

// Linear interpolates y at the given abscissa on linear axes.
func Linear(x, y []float64, at float64) float64 {
	v, i, done := bracket(x, y, at)
	if done {
		return v
	}
	x1, x2, y1, y2 := x[i], x[i+1], y[i], y[i+1]
	return y1 + (at-x1)*(y2-y1)/(x2-x1)
}

// LogLog interpolates on logarithmic axes. Every x and y must be
// positive; the caller chooses this kernel only for such data.
func LogLog(x, y []float64, at float64) float64 {
	v, i, done := bracket(x, y, at)
	if done {
		return v
	}
	lx1, lx2 := math.Log(x[i]), math.Log(x[i+1])
	ly1, ly2 := math.Log(y[i]), math.Log(y[i+1])
	return math.Exp(ly1 + (math.Log(at)-lx1)*(ly2-ly1)/(lx2-lx1))
}

// Interpolate evaluates y at the given abscissa using law. Logarithmic laws
// fall back to linear interpolation on an interval holding a non-positive value.
func Interpolate(law Law, x, y []float64, at float64) float64 {
	v, i, done := bracket(x, y, at)
	if done {
		return v
	}
	x1, x2, y1, y2 := x[i], x[i+1], y[i], y[i+1]
	switch law {
	case LawHistogram:
		return y1
	case LawLinLog:
		if x1 > 0 && at > 0 {
			return y1 + (math.Log(at)-math.Log(x1))*(y2-y1)/(math.Log(x2)-math.Log(x1))
		}
	case LawLogLin:
		if y1 > 0 && y2 > 0 {
			return math.Exp(math.Log(y1) + (at-x1)*(math.Log(y2)-math.Log(y1))/(x2-x1))
		}
	case LawLogLog:
		if x1 > 0 && y1 > 0 && y2 > 0 {
			return LogLog(x[i:i+2], y[i:i+2], at)
		}
	}
	return y1 + (at-x1)*(y2-y1)/(x2-x1)
}
