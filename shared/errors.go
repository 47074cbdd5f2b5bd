package shared

import (
	"errors"
	"net/http"
	"os"
)

// AppError is the error envelope the HTTP layer knows how to render.
// Message is always safe to show a caller; Err carries internal detail
// that is only attached to responses outside production.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

// NewValidationError flags malformed client input.
func NewValidationError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(http.StatusNotFound, err, message)
}

// NewConflictError is used for duplicate slugs. Kept at 400 rather than
// 409 to match the public API contract.
func NewConflictError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

// NewRateLimitError carries a retry-after estimate in seconds.
func NewRateLimitError(message string, retryAfter int) *AppError {
	return &AppError{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		Data:       map[string]interface{}{"retry_after": retryAfter},
	}
}

// NewUploadError wraps an object-storage failure.
func NewUploadError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

// NewFetchError wraps a failed fetch-by-URL ingestion.
func NewFetchError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

// NewPersistenceError wraps a database write failure.
func NewPersistenceError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

// NewDispatchError wraps an email-delivery failure.
func NewDispatchError(err error, message string) *AppError {
	return NewAppError(http.StatusInternalServerError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}
