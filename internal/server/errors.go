package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zephyrtronium/calcexpr"
)

// errorCodes maps evaluator error kinds to the codes clients see.
var errorCodes = map[error]string{
	calcexpr.ErrExpressionTooLong:     "expression_too_long",
	calcexpr.ErrMismatchedParentheses: "mismatched_parentheses",
	calcexpr.ErrInvalidExpression:     "invalid_expression",
	calcexpr.ErrUnknownToken:          "unknown_token",
	calcexpr.ErrUnknownOperator:       "unknown_operator",
	calcexpr.ErrUnknownFunction:       "unknown_function",
	calcexpr.ErrDivisionByZero:        "division_by_zero",
	calcexpr.ErrModuloByZero:          "modulo_by_zero",
	calcexpr.ErrDomain:                "domain_error",
	calcexpr.ErrTangentUndefined:      "tangent_undefined",
	calcexpr.ErrTangentTooLarge:       "tangent_too_large",
}

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure. Pos is the column of the offending input
// for errors that have one.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Pos     *int   `json:"pos,omitempty"`
}

// Code returns the client-facing code for an evaluator error, or "internal"
// for anything else.
func Code(err error) string {
	if c, ok := errorCodes[calcexpr.Kind(err)]; ok {
		return c
	}
	return "internal"
}

// abort ends the request with an error body.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

// evalFailed ends the request with the details of an evaluator error.
func evalFailed(c *gin.Context, err error) {
	body := ErrorBody{Error: ErrorDetail{Code: Code(err), Message: err.Error()}}
	var ie calcexpr.InputError
	if errors.As(err, &ie) {
		pos := ie.Pos()
		body.Error.Pos = &pos
	}
	status := http.StatusUnprocessableEntity
	if body.Error.Code == "internal" {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, body)
}
