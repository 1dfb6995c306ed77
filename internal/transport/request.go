package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// RequestConfig holds per-call overrides. It is built fresh for every call.
type RequestConfig struct {
	Headers map[string]string
	Params  map[string]any
}

// RequestOption configures a single call.
type RequestOption func(*RequestConfig)

// WithHeader sets one header for this call.
func WithHeader(name, value string) RequestOption {
	return func(r *RequestConfig) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[name] = value
	}
}

// WithHeaders sets several headers for this call.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *RequestConfig) {
		for name, value := range headers {
			WithHeader(name, value)(r)
		}
	}
}

// WithParam adds a query parameter. A nil value (or nil pointer) is omitted
// from the query string; anything else is formatted with fmt.
func WithParam(key string, value any) RequestOption {
	return func(r *RequestConfig) {
		if r.Params == nil {
			r.Params = make(map[string]any)
		}
		r.Params[key] = value
	}
}

// WithParams adds several query parameters.
func WithParams(params map[string]any) RequestOption {
	return func(r *RequestConfig) {
		for key, value := range params {
			WithParam(key, value)(r)
		}
	}
}

// NewRequestConfig applies opts to an empty RequestConfig.
func NewRequestConfig(opts ...RequestOption) *RequestConfig {
	rc := &RequestConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Query encodes the non-nil params.
func (r *RequestConfig) Query() url.Values {
	query := url.Values{}
	for key, value := range r.Params {
		s, ok := formatParam(value)
		if !ok {
			continue
		}
		query.Set(key, s)
	}
	return query
}

func formatParam(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}
	return fmt.Sprint(v.Interface()), true
}

// appendQuery adds the encoded query to rawURL, keeping any query it already has.
func appendQuery(rawURL string, query url.Values) string {
	if len(query) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + query.Encode()
}

// joinURL combines the base URL and a relative path. Absolute URLs are used as-is.
func joinURL(baseURL, path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if path == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

// decodeBody decodes a successful response body into result.
// A nil result or an empty body leaves result untouched.
func decodeBody(data []byte, result any) error {
	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
