package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

// DirectClient sends requests straight to the configured base URL.
type DirectClient struct {
	*core
	httpClient *http.Client
}

// NewDirectClient creates a direct strategy from cfg. The HTTP client is built
// once here and never changes afterwards. A caller-supplied client without a
// timeout of its own gets the configured one.
func NewDirectClient(cfg Config) *DirectClient {
	c := &DirectClient{core: newCore(ModeDirect, cfg)}

	var hc http.Client
	if c.cfg.HTTPClient != nil {
		hc = *c.cfg.HTTPClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = c.cfg.Timeout
	}
	c.httpClient = &hc

	return c
}

// Get performs a GET request and decodes the response into result.
func (c *DirectClient) Get(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, result, opts...)
}

// Post performs a POST request with a JSON body.
func (c *DirectClient) Post(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, result, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *DirectClient) Put(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, result, opts...)
}

// Patch performs a PATCH request with a JSON body.
func (c *DirectClient) Patch(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, result, opts...)
}

// Delete performs a DELETE request.
func (c *DirectClient) Delete(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, result, opts...)
}

// Do performs a request and decodes a successful JSON response into result.
// Every failure is returned as an *apierrors.Error.
//
// Credentials and request hooks are applied once per call, before the request
// is sent, so redirects follow the http.Client rules for sensitive headers.
func (c *DirectClient) Do(ctx context.Context, method, path string, body, result any, opts ...RequestOption) error {
	start := time.Now()
	rc := NewRequestConfig(opts...)

	req, err := c.newRequest(ctx, method, path, body, rc)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.RequestFailed(err))
	}

	c.applyCredentials(req)
	if err := c.hooks.runRequest(req); err != nil {
		if apiErr, ok := apierrors.As(err); ok {
			return c.fail(ctx, method, start, apiErr)
		}
		return c.fail(ctx, method, start, apierrors.RequestFailed(err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.NoResponse(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.NoResponse(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fallback := fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
		return c.fail(ctx, method, start, apierrors.FromResponse(resp.StatusCode, data, fallback))
	}

	if err := c.hooks.runResponse(&Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}); err != nil {
		return c.fail(ctx, method, start, apierrors.FromTransport(err))
	}

	if err := decodeBody(data, result); err != nil {
		return c.fail(ctx, method, start, apierrors.Network(err))
	}

	c.succeed(ctx, method, req.URL.String(), resp.StatusCode, start)
	return nil
}

func (c *DirectClient) newRequest(ctx context.Context, method, path string, body any, rc *RequestConfig) (*http.Request, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	target := appendQuery(joinURL(c.cfg.BaseURL, path), rc.Query())
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.applyHeaders(req, rc.Headers)
	return req, nil
}
