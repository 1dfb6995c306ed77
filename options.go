package apiclient

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inventra-io/apiclient-go/internal/transport"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	mode        Mode
	baseURL     string
	timeout     time.Duration
	headers     map[string]string
	httpClient  *http.Client
	appID       string
	sidecarHost string
	sidecarPort int
	logger      *slog.Logger
	notifier    Notifier
	observer    transport.Observer
}

// Option configures the client.
type Option func(*clientConfig)

// WithMode selects the strategy. Default: ModeDirect.
func WithMode(mode Mode) Option {
	return func(c *clientConfig) {
		c.mode = mode
	}
}

// WithMesh selects the mesh strategy and the service the sidecar forwards to.
// An empty appID keeps the configured one.
func WithMesh(appID string) Option {
	return func(c *clientConfig) {
		c.mode = ModeMesh
		if appID != "" {
			c.appID = appID
		}
	}
}

// WithBaseURL sets the API base URL.
// Default: http://localhost:8080
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-request timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHeaders sets headers sent with every request. Per-call headers override them.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for name, value := range headers {
			c.headers[name] = value
		}
	}
}

// WithHTTPClient sets a custom HTTP client. The client is copied, not modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithAppID sets the service the sidecar forwards to.
// Default: auth-service
func WithAppID(appID string) Option {
	return func(c *clientConfig) {
		c.appID = appID
	}
}

// WithSidecarHost sets the sidecar host.
// Default: localhost
func WithSidecarHost(host string) Option {
	return func(c *clientConfig) {
		c.sidecarHost = host
	}
}

// WithSidecarPort sets the sidecar HTTP port.
// Default: 3500
func WithSidecarPort(port int) Option {
	return func(c *clientConfig) {
		c.sidecarPort = port
	}
}

// WithLogger sets the logger for request debug logs. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithNotifier sets the sink told about every failed call.
func WithNotifier(notifier Notifier) Option {
	return func(c *clientConfig) {
		c.notifier = notifier
	}
}

// WithObserver sets the recorder for per-call measurements, such as a
// metrics.Collector.
func WithObserver(observer Observer) Option {
	return func(c *clientConfig) {
		c.observer = observer
	}
}

// Per-call options.

// WithHeader sets one header for a single call.
func WithHeader(name, value string) RequestOption {
	return transport.WithHeader(name, value)
}

// WithRequestHeaders sets several headers for a single call.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return transport.WithHeaders(headers)
}

// WithParam adds a query parameter to a single call. A nil value is omitted.
func WithParam(key string, value any) RequestOption {
	return transport.WithParam(key, value)
}

// WithParams adds several query parameters to a single call.
func WithParams(params map[string]any) RequestOption {
	return transport.WithParams(params)
}

func (c *clientConfig) transportConfig() transport.Config {
	return transport.Config{
		BaseURL:     c.baseURL,
		Timeout:     c.timeout,
		Headers:     c.headers,
		AppID:       c.appID,
		SidecarHost: c.sidecarHost,
		SidecarPort: c.sidecarPort,
		HTTPClient:  c.httpClient,
		Logger:      c.logger,
		Notifier:    c.notifier,
		Observer:    c.observer,
	}
}
