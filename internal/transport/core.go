package transport

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

// core is the state and failure path shared by both strategies.
type core struct {
	mode   Mode
	cfg    Config
	logger *slog.Logger
	hooks  hookRegistry

	mu    sync.RWMutex
	token string
}

func newCore(mode Mode, cfg Config) *core {
	cfg = cfg.withDefaults()
	return &core{
		mode:   mode,
		cfg:    cfg,
		logger: cfg.Logger.With(slog.String("mode", string(mode))),
	}
}

// Mode returns the strategy in use.
func (c *core) Mode() Mode {
	return c.mode
}

// SetAuthToken stores the bearer token used by subsequent requests.
// An empty token clears it.
func (c *core) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if token == "" {
		c.logger.Debug("auth token cleared")
		return
	}
	if exp, ok := tokenExpiry(token); ok && time.Now().After(exp) {
		c.logger.Warn("auth token is already expired", slog.Time("expired_at", exp))
	}
}

// authToken returns the current bearer token, or "" if none is set.
func (c *core) authToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnRequest registers a request hook and returns a func that removes it.
func (c *core) OnRequest(hook RequestHook) func() {
	return c.hooks.request.add(hook)
}

// OnResponse registers a response hook and returns a func that removes it.
func (c *core) OnResponse(hook ResponseHook) func() {
	return c.hooks.response.add(hook)
}

// OnError registers an error hook and returns a func that removes it.
func (c *core) OnError(hook ErrorHook) func() {
	return c.hooks.errors.add(hook)
}

// applyHeaders sets the default headers, then per-call headers on top.
func (c *core) applyHeaders(req *http.Request, perCall map[string]string) {
	for name, value := range defaultHeaders(c.cfg.Headers) {
		req.Header.Set(name, value)
	}
	for name, value := range perCall {
		req.Header.Set(name, value)
	}
}

// applyCredentials sets the bearer token, which wins over any caller-supplied
// Authorization header, and a request ID if none was supplied.
func (c *core) applyCredentials(req *http.Request) {
	if token := c.authToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
}

// fail runs the error hooks and the notifier for err, records it and returns it.
func (c *core) fail(ctx context.Context, method string, start time.Time, err *apierrors.Error) error {
	c.logger.DebugContext(ctx, "api request failed",
		slog.String("method", method),
		slog.Int("status", err.StatusCode),
		slog.String("code", err.Code),
		slog.String("error", err.Message),
	)

	c.hooks.runError(err, c.logger)
	c.notify(ctx, err)
	c.observe(method, err.StatusCode, err.Code, start)
	return err
}

// succeed records a successful call.
func (c *core) succeed(ctx context.Context, method, target string, statusCode int, start time.Time) {
	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", statusCode),
		slog.Duration("duration", time.Since(start)),
	)
	c.observe(method, statusCode, "", start)
}

func (c *core) notify(ctx context.Context, err *apierrors.Error) {
	if c.cfg.Notifier == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			c.logger.Debug("notifier panicked", slog.Any("panic", p))
		}
	}()
	c.cfg.Notifier.Notify(ctx, Notification{
		Title:      apierrors.Title(err.StatusCode),
		Message:    err.Message,
		StatusCode: err.StatusCode,
		Code:       err.Code,
	})
}

func (c *core) observe(method string, statusCode int, code string, start time.Time) {
	if c.cfg.Observer == nil {
		return
	}
	c.cfg.Observer.ObserveRequest(c.mode, method, statusCode, code, time.Since(start))
}

// tokenExpiry returns the exp claim of a JWT without verifying it.
// Opaque tokens report ok=false.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
