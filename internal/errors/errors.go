// Package errors provides structured error handling for sortbench operations.
// It defines error codes, error types, and provides utilities for creating
// and handling errors with context and structured information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// Sort engine errors.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// File system errors.
	CodeFileCreate ErrorCode = "FILE_CREATE"
	CodeFileWrite  ErrorCode = "FILE_WRITE"

	// Service errors.
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// SortError represents an error raised by the sort engine.
type SortError struct {
	Code    ErrorCode
	Message string
	Variant string
	Cause   error
}

// Error implements the error interface.
func (e *SortError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("[%s] %s (variant: %s)", e.Code, e.Message, e.Variant)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SortError) Unwrap() error {
	return e.Cause
}

// NewSortError creates a new sort error with the specified code and message.
func NewSortError(code ErrorCode, message, variant string) *SortError {
	return &SortError{
		Code:    code,
		Message: message,
		Variant: variant,
	}
}

// ReportError represents a failure while persisting or rendering results.
type ReportError struct {
	Code    ErrorCode
	Message string
	Path    string
	Cause   error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// WrapReportError wraps an existing error as a report error.
func WrapReportError(code ErrorCode, message, path string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Path:    path,
		Cause:   err,
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Utility functions for common error operations

// GetCode extracts the error code from an error chain if it has one.
func GetCode(err error) ErrorCode {
	var sortErr *SortError
	if stderrors.As(err, &sortErr) {
		return sortErr.Code
	}
	var reportErr *ReportError
	if stderrors.As(err, &reportErr) {
		return reportErr.Code
	}
	var configErr *ConfigError
	if stderrors.As(err, &configErr) {
		return configErr.Code
	}
	return CodeUnknown
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return GetCode(err) == code
}

// IsFatal determines if an error should stop the current invocation.
// Report errors are never fatal: the benchmark keeps going without persistence.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodeInvalidArgument, CodeConfiguration, CodeValidation:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrInvalidArgument creates the error returned when a sort receives no array.
func ErrInvalidArgument(variant string) *SortError {
	return NewSortError(CodeInvalidArgument, "Array cannot be nil", variant)
}

// ErrFileCreate creates an error for a report file that could not be opened.
func ErrFileCreate(path string, err error) *ReportError {
	return WrapReportError(CodeFileCreate, "Failed to create report file", path, err)
}

// ErrFileWrite creates an error for a failed report write.
func ErrFileWrite(path string, err error) *ReportError {
	return WrapReportError(CodeFileWrite, "Failed to write report file", path, err)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeValidation, "Invalid configuration value", field, value)
}
