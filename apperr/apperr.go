// Package apperr defines the error taxonomy shared by the ticket, ledger
// and session engines. Every error carries a machine-readable code that
// the HTTP layer turns into a status and an error envelope.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeUnknownPlan        = "UNKNOWN_PLAN"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeVerificationFailed = "VERIFICATION_FAILED"
	CodePaymentFailed      = "PAYMENT_FAILED"
)

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrValidation         = &Error{Code: CodeValidation}
	ErrInvalidTransition  = &Error{Code: CodeInvalidTransition}
	ErrDuplicateEmail     = &Error{Code: CodeDuplicateEmail}
	ErrUnknownPlan        = &Error{Code: CodeUnknownPlan}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized}
	ErrForbidden          = &Error{Code: CodeForbidden}
	ErrVerificationFailed = &Error{Code: CodeVerificationFailed}
	ErrPaymentFailed      = &Error{Code: CodePaymentFailed}
)

// Error is a recoverable domain error.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an error with the given code and a formatted message.
func New(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(CodeInvalidTransition, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(CodeForbidden, format, args...)
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// err is not a domain error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
