package calcexpr

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

type token struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a number token.
	num float64
	// neg marks a - that the unary minus pass turned into a negation.
	neg bool
	// fn is the implementation of a function token.
	fn Func
	// args is the argument count of a function token.
	args int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal number.
	tokenNum
	// tokenOp is a binary operator.
	tokenOp
	// tokenFunc is the name of a known function.
	tokenFunc
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a function arguments separator.
	tokenSep
	// tokenIdent is a variable name or a symbol with no other meaning.
	tokenIdent
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token
//go:generate go mod tidy

// Operators contains the runes which are considered to be operators. × and ÷
// are read as * and /.
const Operators = "+-*/%^×÷"

// opText gives the canonical text of an operator rune.
func opText(r rune) string {
	switch r {
	case '×':
		return "*"
	case '÷':
		return "/"
	default:
		return string(r)
	}
}

type charClass int8

const (
	classNone charClass = iota
	classLetter
	classDigit
)

type lexer struct {
	toks  []token
	funcs map[string]Func
	buf   strings.Builder
	class charClass
	start int
}

// tokenize scans an expression into tokens. Letter runs which name a function
// in funcs become function tokens. Characters with no other meaning become
// identifier tokens so that the evaluator can report them.
func tokenize(src string, funcs map[string]Func) []token {
	l := lexer{funcs: funcs}
	col := 0
	for _, r := range src {
		col++
		switch {
		case unicode.IsSpace(r):
			l.flush()
		case strings.ContainsRune(Operators, r):
			l.flush()
			l.toks = append(l.toks, token{text: opText(r), kind: tokenOp, pos: col})
		case r == '(':
			l.flush()
			l.toks = append(l.toks, token{text: "(", kind: tokenOpen, pos: col})
		case r == ')':
			l.flush()
			l.toks = append(l.toks, token{text: ")", kind: tokenClose, pos: col})
		case r == ',':
			l.flush()
			l.toks = append(l.toks, token{text: ",", kind: tokenSep, pos: col})
		case unicode.IsLetter(r):
			l.accum(classLetter, r, col)
		case '0' <= r && r <= '9', r == '.':
			l.accum(classDigit, r, col)
		default:
			l.flush()
			l.toks = append(l.toks, l.word(string(r), col))
		}
	}
	l.flush()
	return unaryMinus(l.toks)
}

// accum adds r to the token being scanned, first finishing the current token
// if it is of a different class.
func (l *lexer) accum(class charClass, r rune, col int) {
	if l.class != class {
		l.flush()
		l.class = class
		l.start = col
	}
	l.buf.WriteRune(r)
}

// flush finishes the token being scanned, if any.
func (l *lexer) flush() {
	if l.class == classNone {
		return
	}
	text := l.buf.String()
	l.buf.Reset()
	switch l.class {
	case classDigit:
		l.toks = append(l.toks, number(text, l.start))
	case classLetter:
		l.toks = append(l.toks, l.word(text, l.start))
	}
	l.class = classNone
}

// word classifies a name as a function or an identifier.
func (l *lexer) word(text string, pos int) token {
	if fn := l.funcs[text]; fn != nil {
		t := token{text: text, kind: tokenFunc, pos: pos, fn: fn, args: 1}
		if !fn.CanCall(1) && fn.CanCall(0) {
			t.args = 0
		}
		return t
	}
	return token{text: text, kind: tokenIdent, pos: pos}
}

// number parses a run of digits and dots. Runs that are not numbers, like
// "1.2.3", become identifiers.
func number(text string, pos int) token {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return token{text: text, kind: tokenIdent, pos: pos}
	}
	return token{text: text, kind: tokenNum, pos: pos, num: v}
}

// unaryMinus inserts a 0 before each - that begins an operand, i.e. one at the
// start or following an operator, open paren, or separator, so that it
// becomes a subtraction from zero. A - followed by an operator or close paren
// is left alone.
func unaryMinus(toks []token) []token {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokenOp || t.text != "-" {
			continue
		}
		if i > 0 {
			switch toks[i-1].kind {
			case tokenOp, tokenOpen, tokenSep: // do nothing
			default:
				continue
			}
		}
		if i+1 >= len(toks) || toks[i+1].kind == tokenOp || toks[i+1].kind == tokenClose {
			continue
		}
		toks[i].neg = true
		toks = slices.Insert(toks, i, token{text: "0", kind: tokenNum, pos: t.pos})
		i++
	}
	return toks
}
