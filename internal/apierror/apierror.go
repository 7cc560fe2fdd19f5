// Package apierror defines the error taxonomy shared by the HTTP layer and
// the extraction pipeline. Every error carries the HTTP status it maps to
// and a short code rendered in the response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"error"`
	Message    string `json:"message"`

	// RetryAfter is set (in seconds) for rate limit errors only.
	RetryAfter int   `json:"-"`
	Err        error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation marks client input that failed a structural or semantic check.
func Validation(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "Validation Error",
		Message:    message,
	}
}

// InvalidJSON marks a request body that could not be decoded at all.
func InvalidJSON() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "Invalid JSON",
		Message:    "Request body must be valid JSON",
	}
}

// RateLimited carries the number of seconds after which the caller may retry.
func RateLimited(retryAfter int) *Error {
	return &Error{
		StatusCode: http.StatusTooManyRequests,
		Code:       "Too Many Requests",
		Message:    fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
		RetryAfter: retryAfter,
	}
}

// Upstream marks a failure reported by an external API.
func Upstream(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadGateway,
		Code:       "Upstream Error",
		Message:    message,
	}
}

// MalformedResponse marks an upstream reply that arrived but could not be
// interpreted.
func MalformedResponse(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadGateway,
		Code:       "Malformed Response",
		Message:    message,
	}
}

// Configuration marks a missing or invalid server-side setting.
func Configuration(message string) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "Configuration Error",
		Message:    message,
	}
}

// Store wraps a persistence failure.
func Store(op string, err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "Store Error",
		Message:    fmt.Sprintf("failed to %s", op),
		Err:        err,
	}
}

func NotFound(resource string) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       "Not Found",
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

func MethodNotAllowed() *Error {
	return &Error{
		StatusCode: http.StatusMethodNotAllowed,
		Code:       "Method Not Allowed",
		Message:    "The request method is not supported for this endpoint",
	}
}

// From normalizes any error into an *Error, mapping unknown errors to a
// generic internal error so handlers never leak raw messages.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "Internal Server Error",
		Message:    "An unexpected error occurred",
		Err:        err,
	}
}
