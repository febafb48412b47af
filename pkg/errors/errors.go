// Package errors provides structured error types for distortviz.
//
// Every failure in distortviz is scoped to the user action that triggered it;
// none of them are fatal to the process. The codes below classify those
// failures so that the CLI and the web API can react consistently:
//
//   - FILE_READ: no file chosen, or the file could not be read
//   - PARSE_ERROR: an edge-list line is malformed
//   - PROTOCOL_ERROR: the distortion service answered with a malformed body
//   - NETWORK_ERROR: the distortion service could not be reached
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "line %d: missing comma", n)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // keep the previously loaded graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "post %s", url)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFileRead     Code = "FILE_READ"
	ErrCodeParse        Code = "PARSE_ERROR"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Distortion service errors
	ErrCodeProtocol Code = "PROTOCOL_ERROR"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// The caller went away
	ErrCodeCanceled Code = "CANCELED"

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

// StatusClientClosedRequest is answered when the client cancelled.
const StatusClientClosedRequest = 499

// CodeOf is GetCode, but also reports context.Canceled as CANCELED.
func CodeOf(err error) Code {
	if errors.Is(err, context.Canceled) {
		return ErrCodeCanceled
	}
	return GetCode(err)
}

// HTTPStatus maps an error to the status code the web API answers with.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeCanceled:
		return StatusClientClosedRequest
	case ErrCodeInvalidInput, ErrCodeParse:
		return http.StatusBadRequest
	case ErrCodeFileRead:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeProtocol, ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
