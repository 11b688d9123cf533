package calcexpr

import "math"

// binops are the implementations of the binary operators.
var binops = map[string]func(a, b float64) (float64, error){
	"+": add,
	"-": sub,
	"*": mul,
	"/": div,
	"%": mod,
	"^": pow,
}

func add(a, b float64) (float64, error) {
	switch {
	case nearZero(a):
		return b, nil
	case nearZero(b):
		return a, nil
	case integral(a) && integral(b):
		return float64(int64(a) + int64(b)), nil
	}
	return snap(a + b), nil
}

func sub(a, b float64) (float64, error) {
	switch {
	case nearZero(b):
		return a, nil
	case nearZero(a):
		return -b, nil
	case integral(a) && integral(b):
		return float64(int64(a) - int64(b)), nil
	}
	return snap(a - b), nil
}

func mul(a, b float64) (float64, error) {
	switch {
	case nearZero(a), nearZero(b):
		return 0, nil
	case near(a, 1):
		return b, nil
	case near(b, 1):
		return a, nil
	case near(a, -1):
		return -b, nil
	case near(b, -1):
		return -a, nil
	case integral(a) && integral(b):
		x, y := int64(a), int64(b)
		if p := x * y; p/y == x {
			return float64(p), nil
		}
	}
	return snap(a * b), nil
}

func div(a, b float64) (float64, error) {
	switch {
	case nearZero(b):
		return 0, &ZeroDivisorError{Op: "/", X: a}
	case nearZero(a):
		return 0, nil
	case near(b, 1):
		return a, nil
	case near(b, -1):
		return -a, nil
	case near(a, b):
		return 1, nil
	case near(a, -b):
		return -1, nil
	case integral(a) && integral(b):
		x, y := int64(a), int64(b)
		if x%y == 0 {
			return float64(x / y), nil
		}
	}
	return snap(a / b), nil
}

func mod(a, b float64) (float64, error) {
	switch {
	case nearZero(b):
		return 0, &ZeroDivisorError{Op: "%", X: a}
	case integral(a) && integral(b):
		return float64(int64(a) % int64(b)), nil
	}
	return math.Mod(a, b), nil
}

// rootShortcuts are the squares whose square roots x^0.5 gives exactly.
var rootShortcuts = []exactValue{{4, 2}, {9, 3}, {16, 4}, {25, 5}}

func pow(a, b float64) (float64, error) {
	switch {
	case nearZero(b):
		return 1, nil
	case nearZero(a):
		return 0, nil
	case near(a, 1):
		return 1, nil
	case near(b, 1):
		return a, nil
	case near(b, 2):
		return a * a, nil
	case near(a, -1) && nearIntegral(b):
		if math.Mod(math.Round(b), 2) == 0 {
			return 1, nil
		}
		return -1, nil
	case near(b, 0.5):
		if r, ok := lookup(rootShortcuts, a); ok {
			return r, nil
		}
	}
	r := math.Pow(a, b)
	if math.IsNaN(r) && !math.IsNaN(a) && !math.IsNaN(b) {
		return 0, &DomainError{X: a, Arg: 1, Func: "^"}
	}
	return r, nil
}
