package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a classified failure that can be rendered to API consumers.
// Status carries the HTTP status the outer layer should respond with.
type Error struct {
	Code    string
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches errors of the same classification regardless of message or cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error carrying the underlying failure.
func (e *Error) WithCause(err error) *Error {
	cpy := *e
	cpy.cause = err
	return &cpy
}

// WithMessage returns a copy of the error with a more specific message.
func (e *Error) WithMessage(message string) *Error {
	cpy := *e
	cpy.Message = message
	return &cpy
}

var (
	ErrValidation = &Error{
		Code:    "validation_error",
		Message: "invalid request parameters",
		Status:  http.StatusBadRequest,
	}

	ErrCityNotFound = &Error{
		Code:    "city_not_found",
		Message: "city not found",
		Status:  http.StatusNotFound,
	}

	ErrConflict = &Error{
		Code:    "conflict",
		Message: "conflicting concurrent write",
		Status:  http.StatusConflict,
	}

	ErrProviderAuth = &Error{
		Code:    "provider_auth",
		Message: "weather provider rejected the configured API key",
		Status:  http.StatusServiceUnavailable,
	}

	ErrRateLimited = &Error{
		Code:    "provider_rate_limited",
		Message: "weather provider request limit exceeded",
		Status:  http.StatusServiceUnavailable,
	}

	ErrProviderUnavailable = &Error{
		Code:    "provider_unavailable",
		Message: "weather provider is temporarily unavailable",
		Status:  http.StatusServiceUnavailable,
	}

	ErrForecastUnavailable = &Error{
		Code:    "forecast_unavailable",
		Message: "no forecast data available for the requested date",
		Status:  http.StatusServiceUnavailable,
	}
)

// NewValidation builds a validation error with a caller-supplied message.
func NewValidation(message string) *Error {
	return ErrValidation.WithMessage(message)
}
