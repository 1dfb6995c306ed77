package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

// MeshClient routes every call through the local service-mesh sidecar using the
// service invocation URL scheme.
type MeshClient struct {
	*core
	httpClient *http.Client
}

// NewMeshClient creates a mesh strategy from cfg.
//
// Timeouts are enforced per request through the request context, so a client
// created here has no http.Client timeout of its own.
func NewMeshClient(cfg Config) *MeshClient {
	c := &MeshClient{core: newCore(ModeMesh, cfg)}

	if c.cfg.HTTPClient != nil {
		hc := *c.cfg.HTTPClient
		c.httpClient = &hc
	} else {
		c.httpClient = &http.Client{}
	}

	return c
}

// AppID returns the logical service the sidecar forwards to.
func (c *MeshClient) AppID() string {
	return c.cfg.AppID
}

// SidecarPort returns the sidecar HTTP port.
func (c *MeshClient) SidecarPort() int {
	return c.cfg.SidecarPort
}

// InvokeURL returns the sidecar URL for path, without query parameters.
// One leading slash is stripped from path.
func (c *MeshClient) InvokeURL(path string) string {
	path = strings.TrimPrefix(path, "/")
	return fmt.Sprintf("http://%s:%d/v1.0/invoke/%s/method/%s",
		c.cfg.SidecarHost, c.cfg.SidecarPort, c.cfg.AppID, path)
}

// Get performs a GET request and decodes the response into result.
func (c *MeshClient) Get(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, result, opts...)
}

// Post performs a POST request with a JSON body.
func (c *MeshClient) Post(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, result, opts...)
}

// Put performs a PUT request with a JSON body.
func (c *MeshClient) Put(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, result, opts...)
}

// Patch performs a PATCH request with a JSON body.
func (c *MeshClient) Patch(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, result, opts...)
}

// Delete performs a DELETE request.
func (c *MeshClient) Delete(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, result, opts...)
}

// Do performs a request through the sidecar and decodes a successful JSON
// response into result. Every failure is returned as an *apierrors.Error.
//
// Unless ctx already carries a deadline, the call is bounded by the configured
// timeout; the timer is always released before Do returns.
func (c *MeshClient) Do(ctx context.Context, method, path string, body, result any, opts ...RequestOption) error {
	start := time.Now()
	rc := NewRequestConfig(opts...)
	target := appendQuery(c.InvokeURL(path), rc.Query())

	callCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := c.newRequest(callCtx, method, target, body, rc)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.Network(err))
	}

	c.hooks.notifyRequest(req, c.logger)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.FromTransport(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		fallback := apierrors.StatusFallback(resp.StatusCode, statusText(resp))
		return c.fail(ctx, method, start, apierrors.FromResponse(resp.StatusCode, data, fallback))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(ctx, method, start, apierrors.FromTransport(err))
	}
	if err := c.hooks.runResponse(&Response{StatusCode: resp.StatusCode, Body: data}); err != nil {
		return c.fail(ctx, method, start, apierrors.FromTransport(err))
	}

	if err := decodeBody(data, result); err != nil {
		return c.fail(ctx, method, start, apierrors.Network(err))
	}

	c.succeed(ctx, method, target, resp.StatusCode, start)
	return nil
}

func (c *MeshClient) newRequest(ctx context.Context, method, target string, body any, rc *RequestConfig) (*http.Request, error) {
	var bodyReader io.Reader
	if carriesBody(method) {
		data, err := encodeBody(body)
		if err != nil {
			return nil, err
		}
		if data != nil {
			bodyReader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.applyHeaders(req, rc.Headers)
	c.applyCredentials(req)
	return req, nil
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// statusText returns the reason phrase sent by the server, falling back to the
// standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
