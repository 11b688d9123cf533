package calcexpr

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// postfix is the expression in reverse Polish order.
	postfix []token
	// names is the list of variable names used in the expression.
	names []string
	// blank is true if the source had nothing but whitespace.
	blank bool
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
//
// A blank expression parses successfully and evaluates to 0. An expression
// longer than the maximum length is rejected before anything else is done
// with it.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	var p parseConfig
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	p.resolve()
	if strings.TrimSpace(src) == "" {
		return &Expr{blank: true}, nil
	}
	if n := utf8.RuneCountInString(src); p.maxlen > 0 && n > p.maxlen {
		return nil, &LengthError{Len: n, Max: p.maxlen}
	}
	toks := tokenize(preprocess(src), p.funcs)
	postfix, err := toPostfix(toks)
	if err != nil {
		return nil, err
	}
	ex := Expr{postfix: postfix}
	for _, t := range postfix {
		if t.kind != tokenIdent || slices.Contains(ex.names, t.text) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(t.text); unicode.IsLetter(r) {
			ex.names = append(ex.names, t.text)
		}
	}
	slices.Sort(ex.names)
	return &ex, nil
}

// toPostfix reorders tokens into reverse Polish order using the shunting-yard
// algorithm. Parentheses and separators do not survive; each function token
// in the result records its argument count.
func toPostfix(toks []token) ([]token, error) {
	out := make([]token, 0, len(toks))
	var ops []token
	// argc has the argument count so far for each open paren in ops.
	var argc []int
	prev := tokenNone
	for _, t := range toks {
		switch t.kind {
		case tokenNum, tokenIdent:
			out = append(out, t)
		case tokenFunc:
			ops = append(ops, t)
		case tokenOpen:
			ops = append(ops, t)
			argc = append(argc, 1)
		case tokenSep:
			var ok bool
			out, ops, ok = unwind(out, ops)
			if !ok {
				return nil, &BracketError{Col: t.pos, Right: ","}
			}
			argc[len(argc)-1]++
		case tokenClose:
			var ok bool
			out, ops, ok = unwind(out, ops)
			if !ok {
				return nil, &BracketError{Col: t.pos, Right: ")"}
			}
			n := argc[len(argc)-1]
			if prev == tokenOpen {
				n = 0
			}
			argc = argc[:len(argc)-1]
			ops = ops[:len(ops)-1]
			if k := len(ops) - 1; k >= 0 && ops[k].kind == tokenFunc {
				f := ops[k]
				f.args = n
				out = append(out, f)
				ops = ops[:k]
			}
		case tokenOp:
			p := t.operator()
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind == tokenOpen || !top.operator().outranks(p) {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		default:
			panic("calcexpr: unexpected token " + t.String())
		}
		prev = t.kind
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == tokenOpen {
			return nil, &BracketError{Col: ops[i].pos, Left: "("}
		}
		out = append(out, ops[i])
	}
	return out, nil
}

// unwind moves operators to the output until an open paren is on top of ops.
// The paren stays. If there is no open paren, the result is false.
func unwind(out, ops []token) ([]token, []token, bool) {
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top.kind == tokenOpen {
			return out, ops, true
		}
		out = append(out, top)
		ops = ops[:len(ops)-1]
	}
	return out, ops, false
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String formats the expression in reverse Polish notation. Functions called
// with other than one argument show the count in parentheses.
func (e *Expr) String() string {
	var b strings.Builder
	for i, t := range e.postfix {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
		if t.kind == tokenFunc && t.args != 1 {
			b.WriteByte('(')
			b.WriteString(strconv.Itoa(t.args))
			b.WriteByte(')')
		}
	}
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// prefix indicates an operator that precedes its operand. Pushing a prefix
	// operator never applies operators already on the stack.
	prefix bool
}

// outranks reports whether top, on the operator stack, must be applied before
// p is pushed.
func (top operator) outranks(p operator) bool {
	if p.prefix {
		return false
	}
	if top.prec != p.prec {
		return top.prec > p.prec
	}
	return !p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result is the zero operator.
func binop(text string) operator {
	switch text {
	case "+", "-":
		return operator{1, false, false}
	case "*", "/", "%":
		return operator{2, false, false}
	case "^":
		return operator{3, true, false}
	default:
		return operator{}
	}
}

var (
	// negprec is the precedence of a negation. It binds like exponentiation,
	// so a following ^ is applied first, but it is applied before any other
	// operator is pushed.
	negprec = operator{3, true, true}
	// funcprec is the precedence of a function without parentheses, which
	// takes only the term right after it.
	funcprec = operator{4, false, true}
)

// operator gets the operator for an operator or function token.
func (t token) operator() operator {
	switch {
	case t.kind == tokenFunc:
		return funcprec
	case t.neg:
		return negprec
	default:
		return binop(t.text)
	}
}
