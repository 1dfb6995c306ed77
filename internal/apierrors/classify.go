package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
)

// FromResponse builds the error for a non-2xx response.
//
// The body's message, code and details fields are used when present. A body that
// is empty or not a JSON object is treated as {}. When the body has no message,
// fallback is used, and DefaultMessage when fallback is empty too.
func FromResponse(statusCode int, body []byte, fallback string) *Error {
	fields := decodeErrorBody(body)

	message := stringField(fields["message"])
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = DefaultMessage
	}

	return &Error{
		Message:    message,
		StatusCode: statusCode,
		Code:       stringField(fields["code"]),
		Details:    fields["details"],
	}
}

// StatusFallback is the generic message for a status without a server message.
func StatusFallback(statusCode int, statusText string) string {
	if statusText == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", statusCode, statusText)
}

// NoResponse classifies a request that was sent but never answered.
func NoResponse(cause error) *Error {
	return &Error{
		Message: NoResponseMessage,
		Code:    CodeNetworkError,
		cause:   cause,
	}
}

// RequestFailed classifies a request that could not be built or sent at all.
func RequestFailed(cause error) *Error {
	message := DefaultMessage
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}
	return &Error{
		Message: message,
		Code:    CodeRequestError,
		cause:   cause,
	}
}

// Timeout classifies a request cancelled before a response arrived.
func Timeout(cause error) *Error {
	return &Error{
		Message: TimeoutMessage,
		Code:    CodeTimeoutError,
		cause:   cause,
	}
}

// Network classifies a generic transport failure.
func Network(cause error) *Error {
	message := NetworkFailureMessage
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}
	return &Error{
		Message: message,
		Code:    CodeNetworkError,
		cause:   cause,
	}
}

// FromTransport maps any failure raised while performing a call.
// An *Error passes through unchanged, cancellation and deadline failures become
// TIMEOUT_ERROR and everything else becomes NETWORK_ERROR.
func FromTransport(err error) *Error {
	if err == nil {
		return nil
	}
	if apiErr, ok := As(err); ok {
		return apiErr
	}
	if IsCancellation(err) {
		return Timeout(err)
	}
	return Network(err)
}

// IsCancellation reports whether err comes from a cancelled or expired context
// or a transport-level timeout.
func IsCancellation(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func decodeErrorBody(body []byte) map[string]any {
	fields := map[string]any{}
	if len(body) == 0 {
		return fields
	}
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return map[string]any{}
	}
	return fields
}

func stringField(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
