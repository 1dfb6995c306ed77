package transport

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
	"github.com/inventra-io/apiclient-go/internal/logger"
)

// Mode identifies which strategy a client uses.
type Mode string

const (
	// ModeDirect sends requests straight to the backend base URL.
	ModeDirect Mode = "direct"
	// ModeMesh sends requests through the local service-mesh sidecar.
	ModeMesh Mode = "mesh"
)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultTimeout     = 30 * time.Second
	DefaultAppID       = "auth-service"
	DefaultSidecarHost = "localhost"
	DefaultSidecarPort = 3500
)

// RequestIDHeader carries a per-request identifier so calls can be traced
// through the sidecar and the backend logs.
const RequestIDHeader = "X-Request-ID"

// Response is what response hooks observe for a successful call.
// The mesh strategy leaves Header nil.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestHook observes (and for the direct strategy, may modify) an outgoing request.
type RequestHook func(req *http.Request) error

// ResponseHook observes a successful response. Returning an error fails the call.
type ResponseHook func(resp *Response) error

// ErrorHook observes a classified failure before it is returned to the caller.
type ErrorHook func(err *apierrors.Error)

// Notification is a user-facing message about a failed call.
type Notification struct {
	Title      string
	Message    string
	StatusCode int
	Code       string
}

// Notifier receives a notification for every failed call.
// Implementations must not block for long; panics are recovered and discarded.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Observer records per-call measurements.
type Observer interface {
	ObserveRequest(mode Mode, method string, statusCode int, code string, elapsed time.Duration)
}

// Config holds configuration shared by both strategies.
type Config struct {
	// BaseURL is the backend root used by the direct strategy.
	// If empty, defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each call.
	// If zero, defaults to DefaultTimeout.
	Timeout time.Duration

	// Headers are sent with every request, under per-call headers.
	Headers map[string]string

	// AppID is the logical service the sidecar forwards to.
	// If empty, defaults to DefaultAppID.
	AppID string

	// SidecarHost is the sidecar address.
	// If empty, defaults to DefaultSidecarHost.
	SidecarHost string

	// SidecarPort is the sidecar HTTP port.
	// If zero, defaults to DefaultSidecarPort.
	SidecarPort int

	// HTTPClient is copied, never modified. If nil a new client is created.
	HTTPClient *http.Client

	// Logger receives debug request logs. If nil, logs are discarded.
	Logger *slog.Logger

	// Notifier is told about every failed call. Optional.
	Notifier Notifier

	// Observer records call measurements. Optional.
	Observer Observer
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	if c.SidecarHost == "" {
		c.SidecarHost = DefaultSidecarHost
	}
	if c.SidecarPort == 0 {
		c.SidecarPort = DefaultSidecarPort
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
	c.Headers = maps.Clone(c.Headers)
	return c
}

// defaultHeaders returns the JSON defaults with the configured headers on top.
func defaultHeaders(configured map[string]string) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	maps.Copy(headers, configured)
	return headers
}
