package calcexpr

import "math"

// Nearest float64 values of common surds.
const (
	halfSqrt2  = 0.7071067811865476 // √2/2
	halfSqrt3  = 0.8660254037844386 // √3/2
	thirdSqrt3 = 0.5773502691896257 // √3/3
	sqrt3      = 1.7320508075688772
)

// specialAngle is an angle of num/den·π radians whose trigonometric values
// are known exactly.
type specialAngle struct {
	num, den      float64
	sin, cos, tan float64
	// noTan marks the angles at which the tangent is undefined.
	noTan bool
}

// specialAngles are the multiples of π/6 and π/4 in one turn.
var specialAngles = []specialAngle{
	{num: 0, den: 1, sin: 0, cos: 1, tan: 0},
	{num: 1, den: 6, sin: 0.5, cos: halfSqrt3, tan: thirdSqrt3},
	{num: 1, den: 4, sin: halfSqrt2, cos: halfSqrt2, tan: 1},
	{num: 1, den: 3, sin: halfSqrt3, cos: 0.5, tan: sqrt3},
	{num: 1, den: 2, sin: 1, cos: 0, noTan: true},
	{num: 2, den: 3, sin: halfSqrt3, cos: -0.5, tan: -sqrt3},
	{num: 3, den: 4, sin: halfSqrt2, cos: -halfSqrt2, tan: -1},
	{num: 5, den: 6, sin: 0.5, cos: -halfSqrt3, tan: -thirdSqrt3},
	{num: 1, den: 1, sin: 0, cos: -1, tan: 0},
	{num: 7, den: 6, sin: -0.5, cos: -halfSqrt3, tan: thirdSqrt3},
	{num: 5, den: 4, sin: -halfSqrt2, cos: -halfSqrt2, tan: 1},
	{num: 4, den: 3, sin: -halfSqrt3, cos: -0.5, tan: sqrt3},
	{num: 3, den: 2, sin: -1, cos: 0, noTan: true},
	{num: 5, den: 3, sin: -halfSqrt3, cos: 0.5, tan: -sqrt3},
	{num: 7, den: 4, sin: -halfSqrt2, cos: halfSqrt2, tan: -1},
	{num: 11, den: 6, sin: -0.5, cos: halfSqrt3, tan: -thirdSqrt3},
}

// lookupAngle finds the special angle equal to x, measured in mode, modulo a
// full turn.
func lookupAngle(mode AngleMode, x float64) (specialAngle, bool) {
	turn := mode.turn()
	a := math.Mod(x, turn)
	if a < 0 {
		a += turn
	}
	for _, s := range specialAngles {
		v := mode.piFrac(s.num, s.den)
		if near(a, v) || near(a, v+turn) {
			return s, true
		}
	}
	return specialAngle{}, false
}

// inverseValue maps an argument of an inverse trigonometric function to its
// exact result, num/den·π radians.
type inverseValue struct {
	x, num, den float64
}

var asinValues = []inverseValue{
	{0, 0, 1},
	{0.5, 1, 6},
	{-0.5, -1, 6},
	{halfSqrt2, 1, 4},
	{-halfSqrt2, -1, 4},
	{halfSqrt3, 1, 3},
	{-halfSqrt3, -1, 3},
	{1, 1, 2},
	{-1, -1, 2},
}

var acosValues = []inverseValue{
	{1, 0, 1},
	{halfSqrt3, 1, 6},
	{halfSqrt2, 1, 4},
	{0.5, 1, 3},
	{0, 1, 2},
	{-0.5, 2, 3},
	{-halfSqrt2, 3, 4},
	{-halfSqrt3, 5, 6},
	{-1, 1, 1},
}

var atanValues = []inverseValue{
	{0, 0, 1},
	{thirdSqrt3, 1, 6},
	{-thirdSqrt3, -1, 6},
	{1, 1, 4},
	{-1, -1, 4},
	{sqrt3, 1, 3},
	{-sqrt3, -1, 3},
}

// lookupInverse finds the exact angle, in mode, for the argument x.
func lookupInverse(table []inverseValue, mode AngleMode, x float64) (float64, bool) {
	for _, v := range table {
		if near(x, v.x) {
			return mode.piFrac(v.num, v.den), true
		}
	}
	return 0, false
}

// exactValue is an argument of a function paired with its exact result.
type exactValue struct {
	x, y float64
}

var (
	sinhValues = []exactValue{
		{0, 0},
		{1, 1.1752011936438014},
		{-1, -1.1752011936438014},
	}
	coshValues = []exactValue{
		{0, 1},
		{1, 1.5430806348152437},
		{-1, 1.5430806348152437},
	}
	tanhValues = []exactValue{
		{0, 0},
		{1, 0.7615941559557649},
		{-1, -0.7615941559557649},
	}
	asinhValues = []exactValue{
		{0, 0},
		{1, 0.881373587019543},
		{-1, -0.881373587019543},
	}
	acoshValues = []exactValue{
		{1, 0},
		{2, 1.3169578969248166},
	}
	atanhValues = []exactValue{
		{0, 0},
		{0.5, 0.5493061443340549},
		{-0.5, -0.5493061443340549},
	}
	logValues = []exactValue{
		{1, 0},
		{10, 1},
		{100, 2},
		{1000, 3},
	}
	lnValues = []exactValue{
		{1, 0},
		{math.E, 1},
		{2, math.Ln2},
		{0.5, -math.Ln2},
	}
	expValues = []exactValue{
		{0, 1},
		{1, math.E},
		{2, 7.38905609893065},
		{0.5, 1.6487212707001282},
	}
	absValues = []exactValue{
		{0, 0},
		{1, 1},
		{-1, 1},
	}
	sqrtValues = perfectPowers(2, 10, false)
	cbrtValues = perfectPowers(3, 3, true)
)

// perfectPowers builds the table of k^p → k for k from 0 to n, including
// negative k if signed.
func perfectPowers(p, n int, signed bool) []exactValue {
	var r []exactValue
	for k := 0; k <= n; k++ {
		x := math.Pow(float64(k), float64(p))
		r = append(r, exactValue{x, float64(k)})
		if signed && k != 0 {
			r = append(r, exactValue{-x, -float64(k)})
		}
	}
	return r
}

// lookup finds the exact result for x in a table.
func lookup(table []exactValue, x float64) (float64, bool) {
	for _, v := range table {
		if near(x, v.x) {
			return v.y, true
		}
	}
	return 0, false
}

// factorials are the exact factorials of 0 through 10.
var factorials = [...]float64{1, 1, 2, 6, 24, 120, 720, 5040, 40320, 362880, 3628800}
