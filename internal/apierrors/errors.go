// Package apierrors provides the error taxonomy shared by every client strategy.
package apierrors

import (
	"errors"
	"fmt"
)

// Machine-readable codes for failures that did not produce an HTTP response.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeRequestError = "REQUEST_ERROR"
	CodeTimeoutError = "TIMEOUT_ERROR"
)

// Default messages used when nothing better is available.
const (
	DefaultMessage        = "An error occurred"
	NoResponseMessage     = "No response received from server"
	TimeoutMessage        = "Request timeout"
	NetworkFailureMessage = "Network request failed"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNetwork matches failures classified as NETWORK_ERROR.
	ErrNetwork = errors.New("network error")

	// ErrRequest matches failures classified as REQUEST_ERROR.
	ErrRequest = errors.New("request could not be sent")

	// ErrTimeout matches failures classified as TIMEOUT_ERROR.
	ErrTimeout = errors.New("request timeout")

	// ErrBadRequest is matched by 400 responses.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is matched by 401 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is matched by 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is matched by 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrConflict is matched by 409 responses.
	ErrConflict = errors.New("conflict")

	// ErrValidation is matched by 422 responses.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited is matched by 429 responses.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer is matched by any 5xx response.
	ErrServer = errors.New("server error")
)

// Error is the single failure value returned by every client call.
// A zero StatusCode means no HTTP response was received; an empty Code means
// the server did not supply one.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Code       string `json:"code,omitempty"`
	Details    any    `json:"details,omitempty"`

	cause error
}

// New creates an Error without an underlying cause.
func New(message string, statusCode int, code string, details any) *Error {
	return &Error{
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
		Details:    details,
	}
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Code != "":
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the transport error that caused this failure, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case CodeNetworkError:
		if target == ErrNetwork {
			return true
		}
	case CodeRequestError:
		if target == ErrRequest {
			return true
		}
	case CodeTimeoutError:
		if target == ErrTimeout {
			return true
		}
	}

	switch e.StatusCode {
	case 400:
		return target == ErrBadRequest
	case 401:
		return target == ErrUnauthorized
	case 403:
		return target == ErrForbidden
	case 404:
		return target == ErrNotFound
	case 409:
		return target == ErrConflict
	case 422:
		return target == ErrValidation
	case 429:
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 && e.StatusCode <= 599 {
		return target == ErrServer
	}
	return false
}

// HasStatus reports whether the failure carries an HTTP status code.
func (e *Error) HasStatus() bool {
	return e.StatusCode != 0
}

// As returns err as an *Error if it is one (or wraps one).
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
