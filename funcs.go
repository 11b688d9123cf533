package calcexpr

import "math"

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. The function may but generally should not look up
	// variables. Call must not retain or modify args.
	Call(ctx *Context, args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// A function name followed by a parenthesized list of n expressions is a
	// call with n arguments, and an empty list is a call with none. A function
	// name followed by a bare term is a call with that one term if CanCall(1),
	// and otherwise a call with no arguments.
	CanCall(n int) bool
}

// IsDefaultFunc reports whether name is one of the functions available to
// every expression unless disabled.
func IsDefaultFunc(name string) bool {
	_, ok := globalfuncs[name]
	return ok
}

var globalfuncs = map[string]Func{
	"sin":   Trig(sin),
	"cos":   Trig(cos),
	"tan":   Trig(tan),
	"asin":  Trig(asin),
	"acos":  Trig(acos),
	"atan":  Trig(atan),
	"sinh":  Monadic(sinh),
	"cosh":  Monadic(cosh),
	"tanh":  Monadic(tanh),
	"asinh": Monadic(asinh),
	"acosh": Monadic(acosh),
	"atanh": Monadic(atanh),
	"log":   logarithm{},
	"ln":    Monadic(ln),
	"sqrt":  Monadic(sqrt),
	"cbrt":  Monadic(cbrt),
	"abs":   Monadic(abs),
	"exp":   Monadic(exp),
	"!":     Monadic(factorial),
}

type monadic struct {
	f func(x float64) (float64, error)
}

func (m monadic) Call(ctx *Context, args []float64) (float64, error) {
	return m.f(args[0])
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. If f is called on an
// argument outside its domain, it should return a *DomainError.
func Monadic(f func(x float64) (float64, error)) Func {
	return monadic{f}
}

type niladic struct {
	f func() float64
}

func (n niladic) Call(ctx *Context, args []float64) (float64, error) {
	return n.f(), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func.
func Niladic(f func() float64) Func {
	return niladic{f}
}

type trig struct {
	f func(mode AngleMode, x float64) (float64, error)
}

func (t trig) Call(ctx *Context, args []float64) (float64, error) {
	return t.f(ctx.angle, args[0])
}

func (t trig) CanCall(n int) bool {
	return n == 1
}

// Trig wraps a function of one angle or of one variable giving an angle into
// a Func. f receives the angle mode of the evaluating context.
func Trig(f func(mode AngleMode, x float64) (float64, error)) Func {
	return trig{f}
}

func sin(mode AngleMode, x float64) (float64, error) {
	if s, ok := lookupAngle(mode, x); ok {
		return s.sin, nil
	}
	return snap(math.Sin(mode.radians(x))), nil
}

func cos(mode AngleMode, x float64) (float64, error) {
	if s, ok := lookupAngle(mode, x); ok {
		return s.cos, nil
	}
	return snap(math.Cos(mode.radians(x))), nil
}

// maxTan is the largest tangent returned before the argument is considered
// too close to a pole.
const maxTan = 1e15

func tan(mode AngleMode, x float64) (float64, error) {
	if s, ok := lookupAngle(mode, x); ok {
		if s.noTan {
			return 0, &TangentError{X: x, Undefined: true}
		}
		return s.tan, nil
	}
	r := math.Tan(mode.radians(x))
	if math.Abs(r) > maxTan {
		return 0, &TangentError{X: x}
	}
	return snap(r), nil
}

func asin(mode AngleMode, x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, &DomainError{X: x, Arg: 1, Func: "asin"}
	}
	if r, ok := lookupInverse(asinValues, mode, x); ok {
		return r, nil
	}
	return snap(mode.fromRadians(math.Asin(x))), nil
}

func acos(mode AngleMode, x float64) (float64, error) {
	if x < -1 || x > 1 {
		return 0, &DomainError{X: x, Arg: 1, Func: "acos"}
	}
	if r, ok := lookupInverse(acosValues, mode, x); ok {
		return r, nil
	}
	return snap(mode.fromRadians(math.Acos(x))), nil
}

func atan(mode AngleMode, x float64) (float64, error) {
	if r, ok := lookupInverse(atanValues, mode, x); ok {
		return r, nil
	}
	return snap(mode.fromRadians(math.Atan(x))), nil
}

func sinh(x float64) (float64, error) {
	if r, ok := lookup(sinhValues, x); ok {
		return r, nil
	}
	return snap(math.Sinh(x)), nil
}

func cosh(x float64) (float64, error) {
	if r, ok := lookup(coshValues, x); ok {
		return r, nil
	}
	return snapOne(math.Cosh(x)), nil
}

func tanh(x float64) (float64, error) {
	if r, ok := lookup(tanhValues, x); ok {
		return r, nil
	}
	return snap(math.Tanh(x)), nil
}

func asinh(x float64) (float64, error) {
	if r, ok := lookup(asinhValues, x); ok {
		return r, nil
	}
	return snap(math.Asinh(x)), nil
}

func acosh(x float64) (float64, error) {
	if x < 1 {
		return 0, &DomainError{X: x, Arg: 1, Func: "acosh"}
	}
	if r, ok := lookup(acoshValues, x); ok {
		return r, nil
	}
	return snap(math.Acosh(x)), nil
}

func atanh(x float64) (float64, error) {
	if x <= -1 || x >= 1 {
		return 0, &DomainError{X: x, Arg: 1, Func: "atanh"}
	}
	if r, ok := lookup(atanhValues, x); ok {
		return r, nil
	}
	return snap(math.Atanh(x)), nil
}

// logarithm is log(x) in base 10 or log(x, b) in base b.
type logarithm struct{}

func (logarithm) Call(ctx *Context, args []float64) (float64, error) {
	x := args[0]
	if x <= 0 {
		return 0, &DomainError{X: x, Arg: 1, Func: "log"}
	}
	if len(args) == 1 {
		if r, ok := lookup(logValues, x); ok {
			return r, nil
		}
		return snap(math.Log10(x)), nil
	}
	b := args[1]
	if b <= 0 || near(b, 1) {
		return 0, &DomainError{X: b, Arg: 2, Func: "log"}
	}
	switch {
	case near(x, 1):
		return 0, nil
	case near(x, b):
		return 1, nil
	case b == 2:
		return snap(math.Log2(x)), nil
	case b == 10:
		return snap(math.Log10(x)), nil
	}
	return snap(math.Log(x) / math.Log(b)), nil
}

func (logarithm) CanCall(n int) bool {
	return n == 1 || n == 2
}

func ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, &DomainError{X: x, Arg: 1, Func: "ln"}
	}
	if r, ok := lookup(lnValues, x); ok {
		return r, nil
	}
	return snap(math.Log(x)), nil
}

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, &DomainError{X: x, Arg: 1, Func: "sqrt"}
	}
	if r, ok := lookup(sqrtValues, x); ok {
		return r, nil
	}
	return math.Sqrt(x), nil
}

func cbrt(x float64) (float64, error) {
	if r, ok := lookup(cbrtValues, x); ok {
		return r, nil
	}
	return math.Cbrt(x), nil
}

func abs(x float64) (float64, error) {
	if r, ok := lookup(absValues, x); ok {
		return r, nil
	}
	return math.Abs(x), nil
}

func exp(x float64) (float64, error) {
	if r, ok := lookup(expValues, x); ok {
		return r, nil
	}
	return snapOne(math.Exp(x)), nil
}

// maxFactorial is the largest n for which n! is finite as a float64.
const maxFactorial = 170

func factorial(x float64) (float64, error) {
	n := math.Round(x)
	if !nearIntegral(x) || n < 0 {
		return 0, &DomainError{X: x, Arg: 1, Func: "!"}
	}
	if n < float64(len(factorials)) {
		return factorials[int(n)], nil
	}
	if n > maxFactorial {
		return math.Inf(1), nil
	}
	r := factorials[len(factorials)-1]
	for k := float64(len(factorials)); k <= n; k++ {
		r *= k
	}
	return r, nil
}
