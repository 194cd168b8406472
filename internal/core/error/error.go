package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// NotFoundMessage describes an unknown lead or an empty history.
	NotFoundMessage = "not found"
	// GenerationErrorMessage describes a failed model completion.
	GenerationErrorMessage = "error generating response"
	// ConfigMissingMessage describes an operation that needs absent configuration.
	ConfigMissingMessage = "configuration missing"
	// InvalidInputMessage describes a malformed request.
	InvalidInputMessage = "invalid input"
)

// Sentinels matched with errors.Is across package boundaries.
var (
	ErrNotFound      = errors.New("not found")
	ErrGeneration    = errors.New("generation failed")
	ErrConfigMissing = errors.New("configuration missing")
	ErrInvalidInput  = errors.New("invalid input")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// NotFound reports an unknown lead or history key.
func NotFound(message string) *AppError {
	return New(ErrNotFound, http.StatusNotFound, message)
}

// Generation wraps a model provider failure. All provider errors collapse into this kind.
func Generation(err error) *AppError {
	if err == nil {
		err = ErrGeneration
	} else if !errors.Is(err, ErrGeneration) {
		err = fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return New(err, http.StatusInternalServerError, GenerationErrorMessage)
}

// ConfigMissing reports that an operation cannot run without the named setting.
func ConfigMissing(what string) *AppError {
	return New(fmt.Errorf("%w: %s", ErrConfigMissing, what), http.StatusServiceUnavailable, ConfigMissingMessage)
}

// Invalid reports a malformed client request.
func Invalid(message string) *AppError {
	return New(ErrInvalidInput, http.StatusBadRequest, message)
}

// StatusOf resolves the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfigMissing):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
