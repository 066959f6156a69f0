// Package errors provides structured error types for the JFreports application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the editor
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages for load and validation failures
//
// The canvas engine itself (snapping, history, interaction) never returns
// errors for ordinary edge cases; those degrade to identity or no-op. Errors
// from this package are produced at the boundaries: decoding dashboard files,
// reading preferences and talking to document stores.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "invalid dashboard file format")
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Report to the user, leave state untouched
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to save %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidResolution Code = "INVALID_RESOLUTION"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidName       Code = "INVALID_NAME"
	ErrCodeInvalidElement    Code = "INVALID_ELEMENT"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeElementNotFound  Code = "ELEMENT_NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"

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

// codeTarget is the errors.Is target for a bare code.
type codeTarget Code

func (c codeTarget) Error() string { return string(c) }

// Is lets the standard errors.Is match an *Error by code.
func (e *Error) Is(target error) bool {
	c, ok := target.(codeTarget)
	return ok && Code(c) == e.Code
}

// Is reports whether any *Error in err's chain carries code. Joined errors
// are searched member by member, so a load failure wrapping several
// validation errors matches each of their codes.
func Is(err error, code Code) bool {
	return errors.Is(err, codeTarget(code))
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

// UserMessage returns the message of the outermost *Error, without the
// code prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Details returns the messages of the coded errors beneath the outermost
// error, in chain order. Each member of a joined error contributes its own
// message.
func Details(err error) []string {
	var out []string
	var walk func(err error, top bool)
	walk = func(err error, top bool) {
		if err == nil {
			return
		}
		if e, ok := err.(*Error); ok && !top {
			out = append(out, e.Message)
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, c := range u.Unwrap() {
				walk(c, false)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap(), false)
		}
	}
	walk(err, true)
	return out
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeElementNotFound, ErrCodeDocumentNotFound:
		return true
	}
	return false
}
