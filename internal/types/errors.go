package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Market-Lens errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Dataset error codes
const (
	DATA_OPEN_FAILED   ErrorCode = "DATA_OPEN_FAILED"
	DATA_LOAD_FAILED   ErrorCode = "DATA_LOAD_FAILED"
	DATA_QUERY_FAILED  ErrorCode = "DATA_QUERY_FAILED"
	DATA_SCHEMA_FAILED ErrorCode = "DATA_SCHEMA_FAILED"
)

// Orchestration error codes
const (
	SECTION_UNKNOWN            ErrorCode = "SECTION_UNKNOWN"
	WORKER_UNKNOWN             ErrorCode = "WORKER_UNKNOWN"
	WORKER_CONSTRUCTION_FAILED ErrorCode = "WORKER_CONSTRUCTION_FAILED"
	WORKER_INVOCATION_FAILED   ErrorCode = "WORKER_INVOCATION_FAILED"
	WORKER_TIMEOUT             ErrorCode = "WORKER_TIMEOUT"
	COMPILE_FAILED             ErrorCode = "COMPILE_FAILED"
	AGGREGATE_DUPLICATE_WRITE  ErrorCode = "AGGREGATE_DUPLICATE_WRITE"
	AGGREGATE_SEALED           ErrorCode = "AGGREGATE_SEALED"
)

// LensError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type LensError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *LensError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *LensError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a LensError with the same Code.
func (e *LensError) Is(target error) bool {
	var lensErr *LensError
	if errors.As(target, &lensErr) {
		return e.Code == lensErr.Code
	}
	return false
}

// NewError creates a new non-retryable LensError with the given code and message.
func NewError(code ErrorCode, message string) *LensError {
	return &LensError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable LensError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., rate limiting).
func NewRetryableError(code ErrorCode, message string) *LensError {
	return &LensError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable LensError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *LensError {
	return &LensError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns an empty code if the chain contains no LensError.
func CodeOf(err error) ErrorCode {
	var lensErr *LensError
	if errors.As(err, &lensErr) {
		return lensErr.Code
	}
	return ""
}
