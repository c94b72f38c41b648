// Package errors provides structured error types for drawlayout.
//
// Every failure the layout engine can report carries a machine-readable
// [Code], so callers can tell an unknown engine apart from a diverged force
// simulation or a malformed graph without matching on message text.
//
// # Error Codes
//
// Layout failures:
//   - UNKNOWN_ENGINE: the requested algorithm is not registered
//   - NUMERIC_INSTABILITY: a force simulation diverged
//   - INVALID_GRAPH: the graph failed the validation pass
//   - DELEGATE_FAILURE: an external engine errored or returned a malformed result
//
// Input and internal failures use INVALID_*, FILE_NOT_FOUND and INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownEngine, "unknown layout engine %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownEngine) {
//	    // Handle unknown engine
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDelegateFailure, origErr, "graphviz layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout errors
	ErrCodeUnknownEngine      Code = "UNKNOWN_ENGINE"
	ErrCodeNumericInstability Code = "NUMERIC_INSTABILITY"
	ErrCodeInvalidGraph       Code = "INVALID_GRAPH"
	ErrCodeDelegateFailure    Code = "DELEGATE_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeCache        Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code anywhere in its chain.
// Outer codes are checked first, so a DELEGATE_FAILURE wrapping an
// INVALID_INPUT matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no *Error.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
