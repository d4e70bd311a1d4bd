// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, schema mismatches, invalid date ranges
//   - Input errors (200-299): Unreadable files, unparseable dates and values
//   - Model errors (300-399): Model artifact loading and invocation failures
//   - Output errors (400-499): Export and read-back failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeRangeInvalid, "start date must not be after end date")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeDateParse, "cannot parse date %q", value)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeModelInvocation, "model prediction failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeSchemaMismatch) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// Returns ErrCodeUnknown if no error in the chain carries a code.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var schemaErr *SchemaMismatchError
	if errors.As(err, &schemaErr) {
		return ErrCodeSchemaMismatch
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// SchemaMismatchError is returned when required columns are absent at a checkpoint.
type SchemaMismatchError struct {
	Checkpoint string   // Name of the checkpoint that failed
	Missing    []string // Required columns that were not found, in required order
}

// NewSchemaMismatchError creates a new SchemaMismatchError.
func NewSchemaMismatchError(checkpoint string, missing []string) *SchemaMismatchError {
	return &SchemaMismatchError{
		Checkpoint: checkpoint,
		Missing:    missing,
	}
}

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("[%d] checkpoint %s: missing required columns: %s",
		ErrCodeSchemaMismatch, e.Checkpoint, strings.Join(e.Missing, ", "))
}

// IsSchemaMismatchError checks if an error is a SchemaMismatchError.
// It uses errors.As to check the error chain.
func IsSchemaMismatchError(err error) bool {
	var schemaErr *SchemaMismatchError

	return errors.As(err, &schemaErr)
}
