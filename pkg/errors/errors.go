// Package errors provides structured error types for grapher.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and layout worker
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Graph mutations report:
//   - INVALID_REFERENCE: an edge or parent names an unknown node
//   - INVALID_OPERATION: a compound-only operation on a flat graph
//   - CYCLE_DETECTED: reparenting would create a containment cycle
//
// The layout phase reports:
//   - LAYOUT_CANCELLED: the layout was cancelled (see [layout.StatusCancelled])
//   - LAYOUT_TIMEOUT: the engine did not answer within the configured timeout
//   - LAYOUT_IN_PROGRESS: a second layout was started on the same graph
//   - LAYOUT_FAILED: the engine returned an error or a malformed response
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidReference, "invalid edge %q", from)
//	if errors.Is(err, errors.ErrCodeInvalidReference) {
//	    // Handle unknown endpoint
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayoutFailed, origErr, "render %s", engine)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeCycleDetected    Code = "CYCLE_DETECTED"

	// Layout errors
	ErrCodeLayoutCancelled  Code = "LAYOUT_CANCELLED"
	ErrCodeLayoutTimeout    Code = "LAYOUT_TIMEOUT"
	ErrCodeLayoutInProgress Code = "LAYOUT_IN_PROGRESS"
	ErrCodeLayoutFailed     Code = "LAYOUT_FAILED"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
