package errors

import (
	"fmt"
)

// ErrorType represents the class of a pipeline error. The classes mirror the
// failure taxonomy of the pipeline: cell-level parse failures are never
// errors (they coerce to null), everything below is fatal for the run.
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates an error for undecodable input bytes (not for
// individual cells, which coerce to null instead).
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewSchemaError reports an expected input column that is absent. Schema
// errors abort the run for the affected dataset.
func NewSchemaError(dataset, column string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("dataset %s is missing expected column %q", dataset, column), nil).
		WithContext("dataset", dataset).
		WithContext("column", column)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewAppValidationError creates a validation error
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Type == errType
}
