package calcexpr

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the tolerance for every comparison the evaluator makes on
// computed values: a result within Epsilon of zero, an integer, or a known
// constant is treated as exactly that value.
const Epsilon = 1e-15

// maxExact is the largest magnitude at which every integer is representable
// as a float64.
const maxExact = 1 << 53

// near reports whether x is within Epsilon of y.
func near(x, y float64) bool {
	return scalar.EqualWithinAbs(x, y, Epsilon)
}

// nearZero reports whether x is within Epsilon of zero.
func nearZero(x float64) bool {
	return near(x, 0)
}

// snap returns 0 if x is within Epsilon of zero and x otherwise.
func snap(x float64) float64 {
	if nearZero(x) {
		return 0
	}
	return x
}

// snapOne returns 1 if x is within Epsilon of one and x otherwise.
func snapOne(x float64) float64 {
	if near(x, 1) {
		return 1
	}
	return x
}

// integral reports whether x is an integer small enough that int64 arithmetic
// on it is exact.
func integral(x float64) bool {
	return x == math.Trunc(x) && math.Abs(x) <= maxExact
}

// nearIntegral reports whether x is within Epsilon of an integer.
func nearIntegral(x float64) bool {
	return near(x, math.Round(x))
}
