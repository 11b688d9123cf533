package calcexpr

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

var (
	// fractions are the common fractions a result snaps to.
	fractions = []float64{
		1.0 / 2,
		1.0 / 3, 2.0 / 3,
		1.0 / 4, 3.0 / 4,
		1.0 / 5, 2.0 / 5, 3.0 / 5, 4.0 / 5,
		1.0 / 6, 5.0 / 6,
		1.0 / 8, 3.0 / 8, 5.0 / 8, 7.0 / 8,
	}
	// roots are the common square roots a result snaps to.
	roots = []float64{
		math.Sqrt(2),
		math.Sqrt(3),
		math.Sqrt(5),
		math.Sqrt(6),
		math.Sqrt(7),
		math.Sqrt(8),
		math.Sqrt(10),
	}
	// decimals are the short decimals whose magnitude a result snaps to when
	// rounding.
	decimals = []float64{0.1, 0.2, 0.25, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9}
)

// roundTol is the looser tolerance used when rounding to integers and short
// decimals.
const roundTol = 1000 * Epsilon

// roundDigits is the number of decimal places kept by rounding.
const roundDigits = 12

// Normalize snaps x to the exact value it approximates: π, e, zero, a common
// fraction or square root, an integer, or a short decimal. Anything else is
// rounded to 12 decimal places. NaN and infinities are returned unchanged.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(x float64) float64 {
	// Rounding can land on a value that snaps; a couple of passes always
	// reach a fixed point.
	for range 4 {
		y := normalize(x)
		if y == x {
			return y
		}
		x = y
	}
	return x
}

func normalize(x float64) float64 {
	switch {
	case math.IsNaN(x), math.IsInf(x, 0):
		return x
	case near(x, math.Pi):
		return math.Pi
	case near(x, math.E):
		return math.E
	case nearZero(x):
		return 0
	}
	for _, f := range fractions {
		if near(x, f) {
			return f
		}
	}
	for _, r := range roots {
		if near(x, r) {
			return r
		}
	}
	return round(x)
}

// round rounds x to an integer or a short decimal if it is within roundTol of
// one, and to 12 decimal places otherwise.
func round(x float64) float64 {
	if n := math.Round(x); scalar.EqualWithinAbs(x, n, roundTol) {
		return n
	}
	ax := math.Abs(x)
	for _, d := range decimals {
		if scalar.EqualWithinAbs(ax, d, roundTol) {
			return math.Copysign(d, x)
		}
	}
	return scalar.Round(x, roundDigits)
}
