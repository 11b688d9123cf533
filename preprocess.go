package calcexpr

import (
	"math/big"
	"strings"
	"unicode"

	"github.com/zephyrtronium/bigfloat"
)

// constPrec is the precision used to compute the literals substituted for
// symbolic constants.
const constPrec = 128

var (
	piLiteral = constLiteral(bigfloat.Pi(new(big.Float).SetPrec(constPrec)))
	eLiteral  = constLiteral(bigfloat.Exp(new(big.Float).SetPrec(constPrec), big.NewFloat(1).SetPrec(constPrec)))
)

func constLiteral(x *big.Float) string {
	return "(" + x.Text('f', 20) + ")"
}

// preprocess rewrites symbolic constants as parenthesized literals and makes
// implicit multiplication explicit.
func preprocess(src string) string {
	return implicitMul(substConsts(src))
}

// substConsts replaces π, and the words pi and e, with decimal literals. Words
// which merely contain those letters, like exp, are kept.
func substConsts(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		if r == 'π' {
			b.WriteString(piLiteral)
			i++
			continue
		}
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			i++
			continue
		}
		j := i
		for j < len(rs) && unicode.IsLetter(rs[j]) && rs[j] != 'π' {
			j++
		}
		switch w := string(rs[i:j]); w {
		case "pi":
			b.WriteString(piLiteral)
		case "e":
			b.WriteString(eLiteral)
		default:
			b.WriteString(w)
		}
		i = j
	}
	return b.String()
}

// implicitMul inserts * after a digit that is followed by a letter or open
// paren, and after a close paren followed by a letter, digit, or open paren.
func implicitMul(src string) string {
	var b strings.Builder
	b.Grow(len(src) + len(src)/4)
	var prev rune
	for _, r := range src {
		if juxtaposed(prev, r) {
			b.WriteByte('*')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func juxtaposed(prev, next rune) bool {
	switch {
	case isDigit(prev):
		return unicode.IsLetter(next) || next == '('
	case prev == ')':
		return unicode.IsLetter(next) || isDigit(next) || next == '('
	}
	return false
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
