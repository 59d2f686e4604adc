// Package errors provides coded domain errors for the circulation client.
//
// Usage:
//
//	// In the API client - map a response to a typed error
//	return errors.NotFoundf("loan %d not found", id)
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrConnectivity) {
//	    // degrade the widget, keep the session alive
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes, one per failure class the client distinguishes.
const (
	// CodeConnectivity: the request never reached the service.
	CodeConnectivity Code = "CONNECTIVITY"
	// CodeValidation: the service (or the local validator) rejected
	// malformed or conflicting input.
	CodeValidation Code = "VALIDATION"
	// CodeNotFound: a referenced entity no longer exists.
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict: duplicate key or insufficient inventory.
	CodeConflict Code = "CONFLICT"
	// CodePrecondition: an operation attempted out of order, e.g.
	// returning an already-returned loan.
	CodePrecondition Code = "PRECONDITION"
	// CodeInternal: the service failed on its side.
	CodeInternal Code = "INTERNAL"
)

// FromStatus maps an HTTP response status to an error code.
func FromStatus(status int) Code {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusPreconditionFailed:
		return CodePrecondition
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeInternal
	}
}

// Error is a domain error with a code, a readable message, and an optional
// cause. Message is what the user sees; never empty.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrConnectivity = &Error{Code: CodeConnectivity, Message: "service unreachable"}
	ErrValidation   = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound     = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict     = &Error{Code: CodeConflict, Message: "conflict"}
	ErrPrecondition = &Error{Code: CodePrecondition, Message: "precondition failed"}
	ErrInternal     = &Error{Code: CodeInternal, Message: "internal error"}
)

// Connectivity creates a connectivity error wrapping the transport failure.
func Connectivity(msg string, cause error) *Error {
	return &Error{Code: CodeConnectivity, Message: msg, cause: cause}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Precondition creates a precondition error.
func Precondition(msg string) *Error {
	return &Error{Code: CodePrecondition, Message: msg}
}

// Preconditionf creates a precondition error with formatted message.
func Preconditionf(format string, args ...any) *Error {
	return &Error{Code: CodePrecondition, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// New creates an error with an explicit code.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
