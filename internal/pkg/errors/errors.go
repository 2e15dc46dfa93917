// Package errors provides custom error types and error handling utilities.
package errors

import (
	"fmt"
)

// Error codes.
const (
	// Caller errors.
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeNotFound      = "NOT_FOUND"

	// Data errors recovered per item rather than per batch.
	CodePartialData = "PARTIAL_DATA"

	// Subsystem errors.
	CodeEmbedding   = "EMBEDDING_ERROR"
	CodeVectorIndex = "VECTOR_INDEX_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout     = "TIMEOUT"
	CodeInternal    = "INTERNAL_ERROR"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// ValidationError creates a validation error.
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// ConfigurationError creates a configuration error. Evaluation cannot
// proceed until the caller fixes the configuration; this is not recoverable
// in-process.
func ConfigurationError(message string, err error) *AppError {
	return Wrap(CodeConfiguration, message, err)
}

// PartialDataError creates an error for a single skippable item.
func PartialDataError(message string) *AppError {
	return New(CodePartialData, message)
}

// NotFoundError creates a not found error.
func NotFoundError(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// EmbeddingError creates an embedding subsystem error.
func EmbeddingError(message string, err error) *AppError {
	return Wrap(CodeEmbedding, message, err)
}

// VectorIndexError creates a vector index error.
func VectorIndexError(message string, err error) *AppError {
	return Wrap(CodeVectorIndex, message, err)
}

// CacheError creates an embedding cache error.
func CacheError(message string, err error) *AppError {
	return Wrap(CodeCache, message, err)
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// UnavailableError creates a service unavailable error.
func UnavailableError(service string) *AppError {
	message := "service unavailable"
	if service != "" {
		message = fmt.Sprintf("%s is unavailable", service)
	}
	return New(CodeUnavailable, message)
}

// IsConfiguration checks if error is a configuration error.
func IsConfiguration(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeConfiguration
	}
	return false
}

// IsPartialData checks if error is a partial data error.
func IsPartialData(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodePartialData
	}
	return false
}

// IsNotFound checks if error is a not found error.
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsValidation checks if error is a validation error.
func IsValidation(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeValidation
	}
	return false
}
