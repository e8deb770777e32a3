// Package httperr provides the unified application error type.
// Every failure the service reports is classified into an *Error carrying a
// machine-readable code, the HTTP status the boundary should use, and the
// static client-facing message. Internal causes stay attached for logging
// and never reach the wire.
package httperr

import (
	"fmt"
	"net/http"
)

// Error is the unified application error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode
	// Message is the static client-facing message.
	Message string
	// HTTPStatus is the status code for this error.
	HTTPStatus int
	// Fields carries per-field messages for validation failures.
	Fields []FieldError
	// Cause is the underlying error, logged but never serialized.
	Cause error
}

// FieldError is a validation message tied to a payload field.
type FieldError struct {
	Field   string
	Message string
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause attaches the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates an Error with an explicit status.
func New(code ErrorCode, message string, httpStatus int) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: httpStatus}
}

// BadRequest creates a 400 Error.
func BadRequest(code ErrorCode, message string) *Error {
	return New(code, message, http.StatusBadRequest)
}

// Internal creates a 500 Error with a static message; the cause is kept for logs.
func Internal(code ErrorCode, cause error) *Error {
	return &Error{
		Code:       code,
		Message:    "Internal Server Error",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Validation creates a 400 Error carrying per-field messages.
func Validation(fields []FieldError) *Error {
	return &Error{
		Code:       ErrCodeValidationFailure,
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}
