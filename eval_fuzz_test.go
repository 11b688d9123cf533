package calcexpr_test

import (
	"testing"

	"github.com/zephyrtronium/calcexpr"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("sin(30)^2 + cos(30)^2")
	f.Add("log(8, 2)!")
	f.Fuzz(func(t *testing.T, s string) {
		_, err := calcexpr.EvalString(s, calcexpr.SetVar("x", 2))
		if err != nil && calcexpr.Kind(err) == nil {
			t.Errorf("error %q for %q has no kind", err, s)
		}
	})
}
