package errors

import (
	"fmt"
)

// ErrorType categorizes where a failure came from. Only external VCS
// failures are fatal to a run; everything text-shaped is handled locally
// with skip-and-continue.
type ErrorType int

const (
	// External errors - the git query boundary failed (access, window, exec)
	ErrorTypeExternal ErrorType = iota
	// Validation errors - invalid caller input (dates, thresholds, patterns)
	ErrorTypeValidation
	// Database errors - review-run storage failures
	ErrorTypeDatabase
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Error is a structured error with an origin type.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on error type so callers can compare against a sentinel
// of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new error with formatting
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error; returns nil for a nil cause
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: errType, Message: message, Cause: err}
}

// Wrapf wraps an existing error with formatting
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Convenience constructors for common error types

// ExternalError wraps a failure of the git boundary
func ExternalError(err error, message string) *Error {
	return Wrap(err, ErrorTypeExternal, message)
}

// ExternalErrorf wraps a failure of the git boundary with formatting
func ExternalErrorf(err error, format string, args ...interface{}) *Error {
	return Wrapf(err, ErrorTypeExternal, format, args...)
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return Newf(ErrorTypeValidation, format, args...)
}

// DatabaseError wraps a storage error
func DatabaseError(err error, message string) *Error {
	return Wrap(err, ErrorTypeDatabase, message)
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return Newf(ErrorTypeInternal, format, args...)
}

// IsExternal reports whether err originated at the git boundary.
// Used by the CLI to distinguish "query failed" from "no activity".
func IsExternal(err error) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Type == ErrorTypeExternal
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return ErrorTypeInternal
}
