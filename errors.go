package apiclient

import (
	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

// Error is returned by every failed call. A zero StatusCode means no HTTP
// response was received; Code is then one of the Code constants.
type Error = apierrors.Error

// Codes for failures without an HTTP response.
const (
	CodeNetworkError = apierrors.CodeNetworkError
	CodeRequestError = apierrors.CodeRequestError
	CodeTimeoutError = apierrors.CodeTimeoutError
)

// Sentinel errors for errors.Is() checks
var (
	// ErrNetwork matches requests that got no usable response.
	ErrNetwork = apierrors.ErrNetwork

	// ErrRequest matches requests that could not be built or sent.
	ErrRequest = apierrors.ErrRequest

	// ErrTimeout matches cancelled or timed out mesh requests.
	ErrTimeout = apierrors.ErrTimeout

	// ErrBadRequest matches 400 responses.
	ErrBadRequest = apierrors.ErrBadRequest

	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden matches 403 responses.
	ErrForbidden = apierrors.ErrForbidden

	// ErrNotFound matches 404 responses.
	ErrNotFound = apierrors.ErrNotFound

	// ErrConflict matches 409 responses.
	ErrConflict = apierrors.ErrConflict

	// ErrValidation matches 422 responses.
	ErrValidation = apierrors.ErrValidation

	// ErrRateLimited matches 429 responses.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrServer matches 5xx responses.
	ErrServer = apierrors.ErrServer
)

// AsError returns err as an *Error if it is one or wraps one.
func AsError(err error) (*Error, bool) {
	return apierrors.As(err)
}

// NotificationTitle returns the user-facing title for a failure with the given
// status code. A zero status means no response was received.
func NotificationTitle(statusCode int) string {
	return apierrors.Title(statusCode)
}
