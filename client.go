package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/inventra-io/apiclient-go/internal/config"
	"github.com/inventra-io/apiclient-go/internal/logger"
	"github.com/inventra-io/apiclient-go/internal/transport"
)

// Mode identifies which strategy a client uses.
type Mode = transport.Mode

const (
	// ModeDirect sends requests straight to the base URL.
	ModeDirect = transport.ModeDirect
	// ModeMesh sends requests through the local service-mesh sidecar.
	ModeMesh = transport.ModeMesh
)

type (
	// RequestOption configures a single call.
	RequestOption = transport.RequestOption

	// Response is what response hooks observe for a successful call.
	Response = transport.Response

	// RequestHook observes an outgoing request. In direct mode it may modify
	// the request, and an error aborts the call with REQUEST_ERROR. In mesh
	// mode it receives a copy and its error is only logged.
	RequestHook = transport.RequestHook

	// ResponseHook observes a successful response. An error fails the call.
	ResponseHook = transport.ResponseHook

	// ErrorHook observes every failure before it is returned.
	ErrorHook = transport.ErrorHook

	// Observer records per-call measurements.
	Observer = transport.Observer

	// EnvConfig is the configuration read from the environment by FromEnv.
	EnvConfig = config.Config
)

// Client is implemented by both strategies. Paths are relative to the base URL
// (direct) or to the target service (mesh). A successful JSON body is decoded
// into result; a nil result or an empty body is discarded. Every failure is an
// *Error. Calls are never retried.
type Client interface {
	Get(ctx context.Context, path string, result any, opts ...RequestOption) error
	Post(ctx context.Context, path string, body, result any, opts ...RequestOption) error
	Put(ctx context.Context, path string, body, result any, opts ...RequestOption) error
	Patch(ctx context.Context, path string, body, result any, opts ...RequestOption) error
	Delete(ctx context.Context, path string, result any, opts ...RequestOption) error
	Do(ctx context.Context, method, path string, body, result any, opts ...RequestOption) error

	// SetAuthToken sets the bearer token for subsequent requests. An empty
	// token removes the Authorization header.
	SetAuthToken(token string)

	// OnRequest, OnResponse and OnError register hooks, which run in
	// registration order. The returned func unregisters the hook.
	OnRequest(hook RequestHook) func()
	OnResponse(hook ResponseHook) func()
	OnError(hook ErrorHook) func()

	// Mode reports which strategy the client uses.
	Mode() Mode
}

var (
	_ Client = (*transport.DirectClient)(nil)
	_ Client = (*transport.MeshClient)(nil)
)

// New creates a client. Each call returns a fresh instance; use a Provider to
// share one.
func New(opts ...Option) (Client, error) {
	cfg := &clientConfig{mode: ModeDirect}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %v", cfg.timeout)
	}
	if cfg.sidecarPort < 0 || cfg.sidecarPort > 65535 {
		return nil, fmt.Errorf("sidecar port must be between 1 and 65535, got %d", cfg.sidecarPort)
	}

	attrs := []any{slog.String("mode", string(cfg.mode))}
	var client Client
	switch cfg.mode {
	case ModeDirect:
		client = transport.NewDirectClient(cfg.transportConfig())
	case ModeMesh:
		mesh := transport.NewMeshClient(cfg.transportConfig())
		attrs = append(attrs, slog.String("app_id", mesh.AppID()), slog.Int("sidecar_port", mesh.SidecarPort()))
		client = mesh
	default:
		return nil, fmt.Errorf("unknown client mode %q", cfg.mode)
	}

	if cfg.logger != nil {
		cfg.logger.Debug("api client created", attrs...)
	}

	return client, nil
}

// FromEnv creates a client from the environment as it is at call time.
// Options override the environment.
func FromEnv(opts ...Option) (Client, error) {
	cfg, err := config.FromEnviron()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig creates a client from cfg. Options override cfg.
// Logs go to stderr at cfg.LogLevel unless WithLogger is given.
func NewFromConfig(cfg *EnvConfig, opts ...Option) (Client, error) {
	mode := ModeDirect
	if cfg.MeshEnabled() {
		mode = ModeMesh
	}

	base := []Option{
		WithMode(mode),
		WithBaseURL(cfg.APIBaseURL),
		WithTimeout(cfg.Timeout),
		WithAppID(cfg.DaprAppID),
		WithSidecarHost(cfg.DaprHost),
		WithSidecarPort(cfg.DaprPort),
		WithLogger(logger.New(os.Stderr, logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)),
	}
	return New(append(base, opts...)...)
}

// GetAs performs a GET request and decodes the response into a T.
func GetAs[T any](ctx context.Context, c Client, path string, opts ...RequestOption) (T, error) {
	return doAs[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// PostAs performs a POST request and decodes the response into a T.
func PostAs[T any](ctx context.Context, c Client, path string, body any, opts ...RequestOption) (T, error) {
	return doAs[T](ctx, c, http.MethodPost, path, body, opts...)
}

// PutAs performs a PUT request and decodes the response into a T.
func PutAs[T any](ctx context.Context, c Client, path string, body any, opts ...RequestOption) (T, error) {
	return doAs[T](ctx, c, http.MethodPut, path, body, opts...)
}

// PatchAs performs a PATCH request and decodes the response into a T.
func PatchAs[T any](ctx context.Context, c Client, path string, body any, opts ...RequestOption) (T, error) {
	return doAs[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// DeleteAs performs a DELETE request and decodes the response into a T.
func DeleteAs[T any](ctx context.Context, c Client, path string, opts ...RequestOption) (T, error) {
	return doAs[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

func doAs[T any](ctx context.Context, c Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var result T
	if err := c.Do(ctx, method, path, body, &result, opts...); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
