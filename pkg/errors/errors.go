// Package errors provides structured error types for the card builder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor, CLI and HTTP host
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad coordinates, templates, patches)
//   - CAPACITY_EXCEEDED, LAST_ROW, NESTED_CONTAINER: Structural refusals
//   - NO_CHANGE: The operation was accepted but left the layout untouched
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// Editor operations never panic and never partially mutate a layout: a returned
// error always comes with the caller's original layout.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinate, "row %d out of range", row)
//	if errors.Is(err, errors.ErrCodeInvalidCoordinate) {
//	    // Handle aborted edit
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save card %s", id)
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
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidTemplate   Code = "INVALID_TEMPLATE"
	ErrCodeInvalidPatch      Code = "INVALID_PATCH"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidID         Code = "INVALID_ID"

	// Structural refusals
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	ErrCodeLastRow          Code = "LAST_ROW"
	ErrCodeNestedContainer  Code = "NESTED_CONTAINER"

	// Drag and drop errors
	ErrCodeIncompatibleDrop Code = "INCOMPATIBLE_DROP"
	ErrCodeStaleSource      Code = "STALE_SOURCE"

	// Accepted, but nothing to do
	ErrCodeNoChange Code = "NO_CHANGE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeCardNotFound    Code = "CARD_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

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

// IsRefusal reports whether err is a deliberate no-op of the editor: the
// operation was understood but the layout state forbids or does not need it.
// Refusals are reported informationally rather than as failures.
func IsRefusal(err error) bool {
	switch GetCode(err) {
	case ErrCodeCapacityExceeded, ErrCodeLastRow, ErrCodeNoChange:
		return true
	}
	return false
}
