package calcexpr_test

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calcexpr"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		angle calcexpr.AngleMode
		want  float64
	}{
		{"blank", "", calcexpr.Degrees, 0},
		{"spaces", "  \t", calcexpr.Degrees, 0},
		{"num", "1", calcexpr.Degrees, 1},
		{"mul", "7*8", calcexpr.Degrees, 56},
		{"pow-right", "2^3^2", calcexpr.Degrees, 512},
		{"prec", "1+2*3", calcexpr.Degrees, 7},
		{"parens", "(1+2)*3", calcexpr.Degrees, 9},
		{"sub", "4-5-6", calcexpr.Degrees, -7},
		{"div", "10/4", calcexpr.Degrees, 2.5},
		{"div-exact", "144/12", calcexpr.Degrees, 12},
		{"third", "1/3", calcexpr.Degrees, 1.0 / 3},
		{"point-three", "0.1+0.2", calcexpr.Degrees, 0.3},
		{"point-three-sub", "0.3-0.1", calcexpr.Degrees, 0.2},
		{"mod", "10%3", calcexpr.Degrees, 1},
		{"mod-neg", "-5%3", calcexpr.Degrees, -2},
		{"mod-frac", "5.5%2", calcexpr.Degrees, 1.5},
		{"times-divide", "2 × 3 ÷ 4", calcexpr.Degrees, 1.5},
		{"implicit", "2(3+4)", calcexpr.Degrees, 14},
		{"implicit-parens", "(1+1)(2+2)", calcexpr.Degrees, 8},
		{"implicit-after", "(2)3", calcexpr.Degrees, 6},
		{"neg", "-5", calcexpr.Degrees, -5},
		{"neg-pow", "-2^2", calcexpr.Degrees, -4},
		{"pow-neg", "2^-2", calcexpr.Degrees, 0.25},
		{"mul-neg", "2*-3", calcexpr.Degrees, -6},
		{"sub-neg", "3--2", calcexpr.Degrees, 5},
		{"neg-parens", "-(2+3)", calcexpr.Degrees, -5},
		{"pow-half", "2^0.5", calcexpr.Degrees, math.Sqrt(2)},
		{"pow-root", "16^0.5", calcexpr.Degrees, 4},
		{"pow-zero", "5^0", calcexpr.Degrees, 1},
		{"pow-zero-base", "0^5", calcexpr.Degrees, 0},
		{"pow-one-base", "1^100", calcexpr.Degrees, 1},
		{"pow-neg-one-odd", "(-1)^3", calcexpr.Degrees, -1},
		{"pow-neg-one-even", "(-1)^4", calcexpr.Degrees, 1},
		{"pow-square", "1.5^2", calcexpr.Degrees, 2.25},
		{"pi", "π", calcexpr.Degrees, math.Pi},
		{"pi-word", "pi", calcexpr.Degrees, math.Pi},
		{"e", "e", calcexpr.Degrees, math.E},
		{"3pi", "3π", calcexpr.Degrees, calcexpr.Normalize(3 * math.Pi)},
		{"sin30", "sin(30)", calcexpr.Degrees, 0.5},
		{"sin30-bare", "sin30", calcexpr.Degrees, 0.5},
		{"cos90", "cos(90)", calcexpr.Degrees, 0},
		{"cos-neg", "cos(-60)", calcexpr.Degrees, 0.5},
		{"sin210", "sin(210)", calcexpr.Degrees, -0.5},
		{"sin390", "sin(390)", calcexpr.Degrees, 0.5},
		{"sin180", "sin(180)", calcexpr.Degrees, 0},
		{"tan45", "tan(45)", calcexpr.Degrees, 1},
		{"tan135", "tan(135)", calcexpr.Degrees, -1},
		{"trig-sum", "sin(30)+cos(60)", calcexpr.Degrees, 1},
		{"pythagoras", "sin(40)^2+cos(40)^2", calcexpr.Degrees, 1},
		{"asin", "asin(1)", calcexpr.Degrees, 90},
		{"acos", "acos(0.5)", calcexpr.Degrees, 60},
		{"acos-neg", "acos(-1)", calcexpr.Degrees, 180},
		{"atan", "atan(1)", calcexpr.Degrees, 45},
		{"sin-rad", "sin(π/2)", calcexpr.Radians, 1},
		{"cos-rad", "cos(π)", calcexpr.Radians, -1},
		{"sin-rad-sixth", "sin(π/6)", calcexpr.Radians, 0.5},
		{"sin-rad-zero", "sin(2π)", calcexpr.Radians, 0},
		{"cos-rad-third", "cos(2π/3)", calcexpr.Radians, -0.5},
		{"asin-rad", "asin(1)", calcexpr.Radians, calcexpr.Normalize(math.Pi / 2)},
		{"atan-rad", "atan(1)", calcexpr.Radians, calcexpr.Normalize(math.Pi / 4)},
		{"acos-rad", "acos(-1)", calcexpr.Radians, math.Pi},
		{"sinh", "sinh(0)", calcexpr.Degrees, 0},
		{"cosh", "cosh(0)", calcexpr.Degrees, 1},
		{"tanh", "tanh(0)", calcexpr.Degrees, 0},
		{"acosh", "acosh(1)", calcexpr.Degrees, 0},
		{"log", "log(1000)", calcexpr.Degrees, 3},
		{"log-bare", "log100", calcexpr.Degrees, 2},
		{"log-base", "log(8, 2)", calcexpr.Degrees, 3},
		{"log-base-self", "log(7, 7)", calcexpr.Degrees, 1},
		{"ln-e", "ln(e)", calcexpr.Degrees, 1},
		{"ln-one", "ln(1)", calcexpr.Degrees, 0},
		{"sqrt", "sqrt(16)", calcexpr.Degrees, 4},
		{"sqrt-two", "sqrt(2)", calcexpr.Degrees, math.Sqrt(2)},
		{"sqrt-implicit", "2sqrt(9)", calcexpr.Degrees, 6},
		{"cbrt", "cbrt(27)", calcexpr.Degrees, 3},
		{"cbrt-neg", "cbrt(-8)", calcexpr.Degrees, -2},
		{"abs", "abs(-3)", calcexpr.Degrees, 3},
		{"exp-zero", "exp(0)", calcexpr.Degrees, 1},
		{"exp-one", "exp(1)", calcexpr.Degrees, math.E},
		{"factorial", "5!", calcexpr.Degrees, 120},
		{"factorial-zero", "0!", calcexpr.Degrees, 1},
		{"factorial-add", "3!+1", calcexpr.Degrees, 7},
		{"factorial-pow", "3!^2", calcexpr.Degrees, 36},
		{"factorial-big", "12!", calcexpr.Degrees, 479001600},
		{"factorial-overflow", "171!", calcexpr.Degrees, math.Inf(1)},
		{"integer-large", "9007199254740993+0", calcexpr.Degrees, 9007199254740992},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := calcexpr.NewContext(calcexpr.Angle(c.angle))
			r, err := ctx.Evaluate(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.want, r, "%s", c.src)
		})
	}
}

func TestEvaluateVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars map[string]float64
		want float64
	}{
		{"ident", "x", map[string]float64{"x": 4}, 4},
		{"implicit", "2x", map[string]float64{"x": 3}, 6},
		{"square", "x^2+1", map[string]float64{"x": 2}, 5},
		{"two", "x*y", map[string]float64{"x": 2, "y": 5}, 10},
		{"trig", "sin(x)", map[string]float64{"x": 30}, 0.5},
		{"neg", "-x", map[string]float64{"x": 6}, -6},
		{"long", "xy+1", map[string]float64{"xy": 6}, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calcexpr.EvalString(c.src, calcexpr.SetVars(c.vars))
			require.NoError(t, err)
			assert.Equal(t, c.want, r)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		angle calcexpr.AngleMode
		kind  error
	}{
		{"div-zero", "5/0", calcexpr.Degrees, calcexpr.ErrDivisionByZero},
		{"div-zero-expr", "1/(1-1)", calcexpr.Degrees, calcexpr.ErrDivisionByZero},
		{"mod-zero", "5%0", calcexpr.Degrees, calcexpr.ErrModuloByZero},
		{"sqrt", "sqrt(-4)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"asin", "asin(2)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"acos", "acos(-2)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"acosh", "acosh(0.5)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"atanh", "atanh(1)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"log", "log(0)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"log-base", "log(8, 1)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"ln", "ln(-1)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"factorial-neg", "(-1)!", calcexpr.Degrees, calcexpr.ErrDomain},
		{"factorial-frac", "2.5!", calcexpr.Degrees, calcexpr.ErrDomain},
		{"pow-nan", "(-8)^(1/3)", calcexpr.Degrees, calcexpr.ErrDomain},
		{"tan90", "tan(90)", calcexpr.Degrees, calcexpr.ErrTangentUndefined},
		{"tan270", "tan(270)", calcexpr.Degrees, calcexpr.ErrTangentUndefined},
		{"tan-neg90", "tan(-90)", calcexpr.Degrees, calcexpr.ErrTangentUndefined},
		{"tan-rad", "tan(π/2)", calcexpr.Radians, calcexpr.ErrTangentUndefined},
		{"tan-large", "tan(89.99999999999997)", calcexpr.Degrees, calcexpr.ErrTangentTooLarge},
		{"unclosed", "(2+3", calcexpr.Degrees, calcexpr.ErrMismatchedParentheses},
		{"unopened", "2+3)", calcexpr.Degrees, calcexpr.ErrMismatchedParentheses},
		{"trailing-op", "2+", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"leading-op", "*3", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"double-neg", "--1", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"two-values", "2 3", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"empty-parens", "()", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"args", "log(1, 2, 3)", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"no-args", "sin()", calcexpr.Degrees, calcexpr.ErrInvalidExpression},
		{"unbound", "y", calcexpr.Degrees, calcexpr.ErrUnknownToken},
		{"symbol", "2$3", calcexpr.Degrees, calcexpr.ErrUnknownToken},
		{"dots", "1.2.3", calcexpr.Degrees, calcexpr.ErrUnknownToken},
		{"long", strings.Repeat("1+", 2500) + "1", calcexpr.Degrees, calcexpr.ErrExpressionTooLong},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := calcexpr.NewContext(calcexpr.Angle(c.angle))
			r, err := ctx.Evaluate(c.src)
			require.Error(t, err, "%s gave %g", c.src, r)
			assert.ErrorIs(t, err, c.kind)
			assert.Equal(t, c.kind, calcexpr.Kind(err))
		})
	}
}

func TestEvalErrorDetails(t *testing.T) {
	t.Run("domain", func(t *testing.T) {
		_, err := calcexpr.EvalString("sqrt(-4)")
		var de *calcexpr.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "sqrt", de.Func)
		assert.Equal(t, 1, de.Arg)
		assert.Equal(t, -4.0, de.X)
	})
	t.Run("log-base", func(t *testing.T) {
		_, err := calcexpr.EvalString("log(8, -2)")
		var de *calcexpr.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 2, de.Arg)
	})
	t.Run("token", func(t *testing.T) {
		_, err := calcexpr.EvalString("1 + foo")
		var te *calcexpr.TokenError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "foo", te.Text)
		assert.Equal(t, 5, te.Pos())
	})
	t.Run("call", func(t *testing.T) {
		_, err := calcexpr.EvalString("sqrt(1, 2)")
		var ce *calcexpr.CallError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "sqrt", ce.Func)
		assert.Equal(t, 2, ce.Len)
	})
	t.Run("divisor", func(t *testing.T) {
		_, err := calcexpr.EvalString("7/0")
		var ze *calcexpr.ZeroDivisorError
		require.True(t, errors.As(err, &ze))
		assert.Equal(t, "/", ze.Op)
		assert.Equal(t, 7.0, ze.X)
	})
	t.Run("tangent", func(t *testing.T) {
		_, err := calcexpr.EvalString("tan(450)")
		var te *calcexpr.TangentError
		require.True(t, errors.As(err, &te))
		assert.True(t, te.Undefined)
		assert.Equal(t, 450.0, te.X)
	})
	t.Run("not-ours", func(t *testing.T) {
		assert.Nil(t, calcexpr.Kind(errors.New("something else")))
		assert.Nil(t, calcexpr.Kind(nil))
	})
}

func TestCustomFuncs(t *testing.T) {
	twice := calcexpr.Monadic(func(x float64) (float64, error) { return 2 * x, nil })
	tau := calcexpr.Niladic(func() float64 { return 2 * math.Pi })
	cases := []struct {
		name string
		src  string
		want float64
	}{
		{"monadic", "twice(4)", 8},
		{"monadic-bare", "twice 4 + 1", 9},
		{"niladic", "tau", calcexpr.Normalize(2 * math.Pi)},
		{"niladic-implicit", "2tau", calcexpr.Normalize(4 * math.Pi)},
		{"niladic-parens", "tau()", calcexpr.Normalize(2 * math.Pi)},
	}
	opts := []calcexpr.ParseOption{calcexpr.ParseFunc("twice", twice), calcexpr.ParseFunc("tau", tau)}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calcexpr.NewContext().Evaluate(c.src, opts...)
			require.NoError(t, err)
			assert.Equal(t, c.want, r)
		})
	}
}

func TestContext(t *testing.T) {
	ctx := calcexpr.NewContext()
	assert.Equal(t, calcexpr.Degrees, ctx.AngleMode())
	_, ok := ctx.Lookup("x")
	assert.False(t, ok)

	ctx.Set("x", 2).SetAngleMode(calcexpr.Radians)
	v, ok := ctx.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, calcexpr.Radians, ctx.AngleMode())

	c := ctx.Clone(calcexpr.SetVar("x", 3), calcexpr.SetVar("y", 4), calcexpr.Angle(calcexpr.Degrees))
	v, _ = c.Lookup("x")
	assert.Equal(t, 3.0, v, "clone option did not apply")
	v, _ = ctx.Lookup("x")
	assert.Equal(t, 2.0, v, "clone modified original")
	_, ok = ctx.Lookup("y")
	assert.False(t, ok, "clone modified original")
	assert.Equal(t, calcexpr.Degrees, c.AngleMode())
	assert.Equal(t, calcexpr.Radians, ctx.AngleMode())

	// Evaluating twice on one context must not leak stack state.
	e, err := calcexpr.Parse("x+y")
	require.NoError(t, err)
	_, err = c.Eval(e)
	require.NoError(t, err)
	r, err := c.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, 7.0, r)
	_, err = ctx.Eval(e)
	assert.ErrorIs(t, err, calcexpr.ErrUnknownToken)
	r, err = c.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, 7.0, r)
}

func TestParseOnceEvalMany(t *testing.T) {
	e, err := calcexpr.Parse("x^2 - 2x + 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, e.Vars())
	ctx := calcexpr.NewContext()
	for x := -5; x <= 5; x++ {
		r, err := ctx.Set("x", float64(x)).Eval(e)
		require.NoError(t, err)
		assert.Equal(t, float64((x-1)*(x-1)), r, "x = %d", x)
	}
}

func TestAngleMode(t *testing.T) {
	cases := []struct {
		in   string
		want calcexpr.AngleMode
		ok   bool
	}{
		{"deg", calcexpr.Degrees, true},
		{"Degrees", calcexpr.Degrees, true},
		{"rad", calcexpr.Radians, true},
		{" radians ", calcexpr.Radians, true},
		{"grad", calcexpr.Degrees, false},
		{"", calcexpr.Degrees, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			m, err := calcexpr.ParseAngleMode(c.in)
			if !c.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, m)
			b, err := m.MarshalText()
			require.NoError(t, err)
			var n calcexpr.AngleMode
			require.NoError(t, n.UnmarshalText(b))
			assert.Equal(t, m, n)
		})
	}
	assert.Equal(t, "deg", calcexpr.Degrees.String())
	assert.Equal(t, "rad", calcexpr.Radians.String())
}

func BenchmarkEval(b *testing.B) {
	vars := map[string]float64{
		"x": 2,
		"y": 3,
		"z": 4,
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calcexpr.NewContext()
		a, err := calcexpr.Parse("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Eval(a)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calcexpr.NewContext(calcexpr.SetVars(vars))
		a, err := calcexpr.Parse("x+y+z")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Eval(a)
		}
	})
	b.Run("trig", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calcexpr.NewContext(calcexpr.SetVars(vars))
		a, err := calcexpr.Parse("sin(x)^2 + cos(y)^2")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			ctx.Eval(a)
		}
	})
}

func Example() {
	ctx := calcexpr.NewContext()
	a, _ := calcexpr.Parse("x^3/2 - x")
	b, _ := calcexpr.Parse("3x^2/2 - 1")
	c, _ := calcexpr.Parse("3x")

	for i := 0; i < 4; i++ {
		x := float64(i)
		ctx := ctx.Set("x", x)
		y, _ := ctx.Eval(a)
		yp, _ := ctx.Eval(b)
		ypp, _ := ctx.Eval(c)
		fmt.Printf("x = %g   y = %-4g  y' = %-4g  y'' = %g\n", x, y, yp, ypp)
	}

	// Output:
	// x = 0   y = 0     y' = -1    y'' = 0
	// x = 1   y = -0.5  y' = 0.5   y'' = 3
	// x = 2   y = 2     y' = 5     y'' = 6
	// x = 3   y = 10.5  y' = 12.5  y'' = 9
}

func ExampleContext_Evaluate() {
	ctx := calcexpr.NewContext()
	for _, src := range []string{"7*8", "2^3^2", "sin(30)", "2(3+4)", "0.1+0.2", "1/3", "5!"} {
		r, err := ctx.Evaluate(src)
		if err != nil {
			fmt.Println(src, "error:", err)
			continue
		}
		fmt.Printf("%s = %g\n", src, r)
	}
	_, err := ctx.Evaluate("5/0")
	fmt.Println(err)

	// Output:
	// 7*8 = 56
	// 2^3^2 = 512
	// sin(30) = 0.5
	// 2(3+4) = 14
	// 0.1+0.2 = 0.3
	// 1/3 = 0.3333333333333333
	// 5! = 120
	// division by zero: 5 / 0
}
