// Package errors provides structured error types for gdsr.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so callers can tell a malformed stream from a geometry violation or
// a failed write without matching on message text.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: Input and geometry validation failures
//   - *_NOT_FOUND, UNRESOLVED_REFERENCE: Missing cells or files
//   - MALFORMED_STREAM: Stream decoding failures
//   - FILE_CREATE, WRITE_FAILED, IO: File system failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLayer, "layer %d out of range", layer)
//	if errors.Is(err, errors.ErrCodeInvalidLayer) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileCreate, origErr, "create %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidLayer    Code = "INVALID_LAYER"
	ErrCodeInvalidInstance Code = "INVALID_INSTANCE"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Library integrity errors
	ErrCodeDuplicateName       Code = "DUPLICATE_NAME"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeCycle               Code = "CYCLE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Stream errors
	ErrCodeMalformedStream Code = "MALFORMED_STREAM"

	// File system errors
	ErrCodeFileCreate  Code = "FILE_CREATE"
	ErrCodeWriteFailed Code = "WRITE_FAILED"
	ErrCodeIO          Code = "IO"

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

// StreamError locates a decoding failure within a stream.
type StreamError struct {
	Offset int64  // Byte offset of the offending record
	Record string // Record type name, if known
	Err    error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("offset %d (%s): %v", e.Offset, e.Record, e.Err)
	}
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// Code returns the error code for this error type.
func (e *StreamError) Code() Code {
	return ErrCodeMalformedStream
}
