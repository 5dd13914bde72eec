// Package errors provides coded errors shared by the settings service and
// the console client.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInternal     Code = "INTERNAL"
	ErrCodeValidation   Code = "VALIDATION"
	ErrCodePersistence  Code = "PERSISTENCE"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeConflict     Code = "CONFLICT"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
)

// Error is the coded error type.
type Error struct {
	Code    Code
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause. The cause text is
// appended to the message.
func Wrap(cause error, code Code, message string) *Error {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound reports a missing resource.
func NotFound(resource string, id any) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

// InvalidInput reports a field-scoped validation failure.
func InvalidInput(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidationError is a recoverable, field-scoped failure. It blocks
// submission and is shown next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

// Unwrap exposes the coded form so CodeOf and Is see ErrCodeValidation.
func (v *ValidationError) Unwrap() error {
	return &Error{Code: ErrCodeValidation, Message: v.Message, Field: v.Field}
}

// PersistenceError is returned when the persistence boundary rejects a
// record, whether the transport failed or the server refused it.
type PersistenceError struct {
	Message string
	Cause   error
}

func (p *PersistenceError) Error() string {
	return p.Message
}

// Unwrap exposes both the coded form and the underlying cause.
func (p *PersistenceError) Unwrap() []error {
	coded := &Error{Code: ErrCodePersistence, Message: p.Message}
	if p.Cause == nil {
		return []error{coded}
	}
	return []error{coded, p.Cause}
}

// Persistence wraps a failure from the persistence boundary.
func Persistence(message string, cause error) *PersistenceError {
	return &PersistenceError{Message: message, Cause: cause}
}

// CodeOf returns the code of the first coded error in the chain, or
// ErrCodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// FieldOf returns the offending field of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Field
	}
	return ""
}

// HTTPStatus maps an error to the HTTP status the REST surface returns.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Is and As are re-exported so callers need a single errors import.
var (
	Is = stderrors.Is
	As = stderrors.As
)
