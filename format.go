package calcexpr

import (
	"math"
	"strconv"
)

// Format renders an evaluation result for display. Magnitudes above 1e15 or
// below 1e-10 use exponential notation with ten fractional digits; other
// values print in plain decimal with the fewest digits that round-trip.
func Format(x float64) string {
	switch ax := math.Abs(x); {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return strconv.FormatFloat(x, 'g', -1, 64)
	case ax > 1e15 || (ax < 1e-10 && x != 0):
		return strconv.FormatFloat(x, 'e', 10, 64)
	default:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
}
