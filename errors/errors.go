package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// TaskErrorType categorizes the failures surfaced to API clients
type TaskErrorType string

const (
	ValidationError   TaskErrorType = "validation"
	MissingFieldError TaskErrorType = "missing_field"
	NotFoundError     TaskErrorType = "not_found"
	InternalError     TaskErrorType = "internal"
)

// TaskError provides structured error information with HTTP status suggestions
type TaskError struct {
	Type    TaskErrorType  `json:"type"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Constructor functions for common error types
func NewValidationError(message string, details ...map[string]any) *TaskError {
	var d map[string]any
	if len(details) > 0 {
		d = details[0]
	}
	return &TaskError{
		Type:    ValidationError,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: d,
	}
}

// NewMissingFieldError reports a required create field that was absent from the request.
func NewMissingFieldError(field string) *TaskError {
	return &TaskError{
		Type:    MissingFieldError,
		Message: fmt.Sprintf("Missing required field: %s", field),
		Code:    http.StatusBadRequest,
		Details: map[string]any{"field": field},
	}
}

func NewNotFoundError(message string) *TaskError {
	return &TaskError{
		Type:    NotFoundError,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

func NewInternalError(message string) *TaskError {
	return &TaskError{
		Type:    InternalError,
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

// IsTaskError checks if an error is (or wraps) a TaskError and returns it
func IsTaskError(err error) (*TaskError, bool) {
	var taskErr *TaskError
	if stderrors.As(err, &taskErr) {
		return taskErr, true
	}
	return nil, false
}
