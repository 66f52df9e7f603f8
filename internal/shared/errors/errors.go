package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrBadRequest        = errors.New("bad request")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrGeneration        = errors.New("report generation failed")
	ErrStorage           = errors.New("artifact storage unavailable")
	ErrInternal          = errors.New("internal error")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Common error constructors.

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Validation creates a validation error for a malformed report
// definition or data.
func Validation(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// UnsupportedFormat creates an error for an output format outside pdf/xlsx.
func UnsupportedFormat(format string) *AppError {
	return &AppError{
		Code:       "UNSUPPORTED_FORMAT",
		Message:    fmt.Sprintf("unsupported output format: %s", format),
		StatusCode: http.StatusBadRequest,
		Err:        ErrUnsupportedFormat,
	}
}

// Generation creates a rendering failure error. The message must be safe
// to return to the client; wrap the engine error in err.
func Generation(message string, err error) *AppError {
	if message == "" {
		message = "report generation failed"
	}
	return &AppError{
		Code:       "GENERATION_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        errors.Join(ErrGeneration, err),
	}
}

// Storage creates an artifact storage error.
func Storage(err error) *AppError {
	return &AppError{
		Code:       "STORAGE_ERROR",
		Message:    "artifact storage unavailable",
		StatusCode: http.StatusInternalServerError,
		Err:        errors.Join(ErrStorage, err),
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// GetStatusCode returns the appropriate HTTP status code for an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetCode returns the application error code for an error, or INTERNAL_ERROR.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
