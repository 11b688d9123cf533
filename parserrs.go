package calcexpr

import (
	"errors"
	"strconv"
)

// Error kinds. Every error returned by Parse, Eval, and Evaluate unwraps to
// exactly one of these, so callers can test with errors.Is or Kind.
var (
	ErrExpressionTooLong     = errors.New("expression too long")
	ErrMismatchedParentheses = errors.New("mismatched parentheses")
	ErrInvalidExpression     = errors.New("invalid expression")
	ErrUnknownToken          = errors.New("unknown token")
	ErrUnknownOperator       = errors.New("unknown operator")
	ErrUnknownFunction       = errors.New("unknown function")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrModuloByZero          = errors.New("modulo by zero")
	ErrDomain                = errors.New("domain error")
	ErrTangentUndefined      = errors.New("tangent undefined")
	ErrTangentTooLarge       = errors.New("tangent result too large")
)

var kinds = []error{
	ErrExpressionTooLong,
	ErrMismatchedParentheses,
	ErrInvalidExpression,
	ErrUnknownToken,
	ErrUnknownOperator,
	ErrUnknownFunction,
	ErrDivisionByZero,
	ErrModuloByZero,
	ErrDomain,
	ErrTangentUndefined,
	ErrTangentTooLarge,
}

// Kind returns the error kind that err unwraps to, or nil if err did not come
// from the evaluator.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// LengthError is an error indicating an expression longer than the parser
// accepts.
type LengthError struct {
	// Len is the length of the expression in runes.
	Len int
	// Max is the maximum allowed length.
	Max int
}

func (err *LengthError) Error() string {
	return "expression too long: " + strconv.Itoa(err.Len) + " runes (max " + strconv.Itoa(err.Max) + ")"
}

func (err *LengthError) Unwrap() error {
	return ErrExpressionTooLong
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the offending bracket or separator.
	Col int
	// Left is the unclosed opening bracket, if any.
	Left string
	// Right is the closing bracket or separator with no opening bracket, if
	// any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		if err.Right == "," {
			return errpos(err.Col, "separator outside brackets")
		}
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Unwrap() error {
	return ErrMismatchedParentheses
}

// StackError is an error indicating an operator or function without enough
// operands, or an expression that leaves other than one value.
type StackError struct {
	// Token is the operator or function that lacked operands, or the empty
	// string if the expression ended with the wrong number of values.
	Token string
	// Need is the number of operands required.
	Need int
	// Have is the number of operands available.
	Have int
}

func (err *StackError) Error() string {
	if err.Token == "" {
		return "invalid expression: " + strconv.Itoa(err.Have) + " values left"
	}
	return "invalid expression: " + err.Token + " needs " + strconv.Itoa(err.Need) + " operands, have " + strconv.Itoa(err.Have)
}

func (err *StackError) Unwrap() error {
	return ErrInvalidExpression
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) Unwrap() error {
	return ErrInvalidExpression
}

// TokenError is an error indicating a name or symbol that is neither a number,
// a function, nor a bound variable. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token.
	Text string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unknown token "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Unwrap() error {
	return ErrUnknownToken
}

// OperatorError is an error indicating an operator token that is not
// understood by the evaluator. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "unknown operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Unwrap() error {
	return ErrUnknownOperator
}

// FuncError is an error indicating a function token with no implementation.
// It implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name.
	Func string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Func))
}

func (err *FuncError) Pos() int {
	return err.Col
}

func (err *FuncError) Unwrap() error {
	return ErrUnknownFunction
}

// ZeroDivisorError is an error from division or remainder by a value within
// Epsilon of zero.
type ZeroDivisorError struct {
	// Op is "/" or "%".
	Op string
	// X is the dividend.
	X float64
}

func (err *ZeroDivisorError) Error() string {
	if err.Op == "%" {
		return "modulo by zero: " + fmtnum(err.X) + " % 0"
	}
	return "division by zero: " + fmtnum(err.X) + " / 0"
}

func (err *ZeroDivisorError) Unwrap() error {
	if err.Op == "%" {
		return ErrModuloByZero
	}
	return ErrDivisionByZero
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := fmtnum(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return ErrDomain
}

// TangentError is an error from tan at an odd multiple of a right angle or
// with a result too large to be meaningful.
type TangentError struct {
	// X is the argument to tan, in the angle mode of the evaluation.
	X float64
	// Undefined distinguishes an undefined tangent from a too large one.
	Undefined bool
}

func (err *TangentError) Error() string {
	if err.Undefined {
		return "tangent undefined at " + fmtnum(err.X)
	}
	return "tangent of " + fmtnum(err.X) + " too large"
}

func (err *TangentError) Unwrap() error {
	if err.Undefined {
		return ErrTangentUndefined
	}
	return ErrTangentTooLarge
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

func fmtnum(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// InputError is an error with position information. Positions count runes in
// the expression after constant substitution and implicit multiplication
// have been applied.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*FuncError)(nil)
)
