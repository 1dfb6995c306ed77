package apierrors

// Title returns the short user-facing heading for a failure with the given
// status code. A zero status means no response was received.
func Title(statusCode int) string {
	switch {
	case statusCode == 0:
		return "Network Error"
	case statusCode == 400:
		return "Bad Request"
	case statusCode == 401:
		return "Unauthorized"
	case statusCode == 403:
		return "Forbidden"
	case statusCode == 404:
		return "Not Found"
	case statusCode == 409:
		return "Conflict"
	case statusCode == 422:
		return "Validation Error"
	case statusCode == 429:
		return "Too Many Requests"
	case statusCode >= 500 && statusCode <= 599:
		return "Server Error"
	}
	return "Error"
}
