// Package errors provides coded errors for the box-office pipeline.
//
// Per-record problems never surface as errors; these codes cover the
// failures that abort a run:
//
//	if errors.Is(err, errors.ErrEmptyDataset) {
//	    log.Error("nothing left to chart after filtering")
//	}
package errors

import (
	"errors"
	"fmt"
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

// Error codes used throughout the module.
const (
	CodeMalformedInput Code = "MALFORMED_INPUT"
	CodeEmptyDataset   Code = "EMPTY_DATASET"
	CodeValidation     Code = "VALIDATION"
)

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
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

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a copy of e with details attached.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrMalformedInput = &Error{Code: CodeMalformedInput, Message: "malformed input"}
	ErrEmptyDataset   = &Error{Code: CodeEmptyDataset, Message: "empty dataset"}
	ErrValidation     = &Error{Code: CodeValidation, Message: "validation error"}
)

// MalformedInput creates a structural input error.
func MalformedInput(msg string) *Error {
	return &Error{Code: CodeMalformedInput, Message: msg}
}

// EmptyDataset creates an error for statistics requested over zero records.
func EmptyDataset(msg string) *Error {
	return &Error{Code: CodeEmptyDataset, Message: msg}
}

// Validation creates a configuration or parameter validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}
