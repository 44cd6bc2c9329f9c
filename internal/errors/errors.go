package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest   = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrMissingParameter = New(http.StatusBadRequest, "MISSING_PARAMETER", "Required parameter is missing")
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrRateLimited      = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	ErrPipelineFailed   = New(http.StatusInternalServerError, "PIPELINE_FAILED", "Pipeline execution failed")
)

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", map[string]string{
		"field":   field,
		"message": message,
	})
}

// ErrPipelineExecution creates a pipeline execution error carrying the cause
func ErrPipelineExecution(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "PIPELINE_EXECUTION_FAILED", "Pipeline execution failed", err.Error())
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(err)
}
