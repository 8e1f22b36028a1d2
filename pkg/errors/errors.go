// Package errors provides the structured error type shared by every neekuro package.
//
// A single [Error] type carries a [Code] discriminant plus a payload that
// depends on the code:
//   - VALIDATION_ERROR: Param names the offending argument or style field
//   - RESOURCE_ERROR: Cause holds the file-system or parse failure
//   - BUILD_ERROR: Setter names the builder method that must be called first
//   - GENERATE_ERROR: Cause holds the decode/draw/encode failure
//   - API_ERROR: API holds endpoint, URL, HTTP status and decoded body
//
// # Usage
//
//	err := errors.Validation("text_color", "value %q is not a valid hex color", s)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Generate(decodeErr, "failed to generate image")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller supplied a missing, wrong-typed or out-of-range value.
	ErrCodeValidation Code = "VALIDATION_ERROR"

	// A referenced external resource (font file, path) could not be loaded.
	ErrCodeResource Code = "RESOURCE_ERROR"

	// Render invoked with incomplete required configuration.
	ErrCodeBuild Code = "BUILD_ERROR"

	// Failure inside the render pipeline (decode, draw, encode).
	ErrCodeGenerate Code = "GENERATE_ERROR"

	// Non-2xx or transport failure from the gif REST API.
	ErrCodeAPI Code = "API_ERROR"

	// Plumbing errors used by the CLI and the HTTP server.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code       // Machine-readable error code
	Message string     // Human-readable message
	Param   string     // Offending parameter (validation errors)
	Setter  string     // Builder method to call (build errors)
	API     *APIDetail // Response details (API errors)
	Cause   error      // Underlying error (optional)
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

// Validation reports a bad argument. The message should name param.
func Validation(param, format string, args ...any) *Error {
	e := New(ErrCodeValidation, format, args...)
	e.Param = param
	return e
}

// Resource reports an external resource that could not be located or loaded.
func Resource(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeResource, cause, format, args...)
}

// Build reports a missing precondition; setter is the method the caller must invoke.
func Build(setter, format string, args ...any) *Error {
	e := New(ErrCodeBuild, format, args...)
	e.Setter = setter
	return e
}

// Generate wraps a render pipeline failure.
func Generate(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeGenerate, cause, format, args...)
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

// IsDomain reports whether err is a validation or build error.
// Domain errors cross the render pipeline unchanged instead of being wrapped.
func IsDomain(err error) bool {
	switch GetCode(err) {
	case ErrCodeValidation, ErrCodeBuild:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil && e.Code == ErrCodeGenerate {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the HTTP server answers with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case ErrCodeValidation, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeBuild:
		return http.StatusUnprocessableEntity
	case ErrCodeResource:
		return http.StatusNotFound
	case ErrCodeAPI:
		if e.API != nil && e.API.StatusCode >= 400 {
			return e.API.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
