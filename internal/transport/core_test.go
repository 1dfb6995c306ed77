package transport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

type recordedObservation struct {
	mode   Mode
	method string
	status int
	code   string
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []recordedObservation
}

func (o *recordingObserver) ObserveRequest(mode Mode, method string, statusCode int, code string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, recordedObservation{mode, method, statusCode, code})
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := tokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatal("tokenExpiry() ok = false, want true")
	}
	if !got.Equal(exp) {
		t.Errorf("tokenExpiry() = %v, want %v", got, exp)
	}

	if _, ok := tokenExpiry("opaque-token"); ok {
		t.Error("opaque token should report no expiry")
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
	s, _ := noExp.SignedString([]byte("k"))
	if _, ok := tokenExpiry(s); ok {
		t.Error("token without exp should report no expiry")
	}
}

func TestSetAuthToken_WarnsOnExpiredToken(t *testing.T) {
	tests := []struct {
		name     string
		token    func(t *testing.T) string
		wantWarn bool
	}{
		{"expired jwt", func(t *testing.T) string { return signedToken(t, time.Now().Add(-time.Minute)) }, true},
		{"valid jwt", func(t *testing.T) string { return signedToken(t, time.Now().Add(time.Hour)) }, false},
		{"opaque", func(*testing.T) string { return "abc123" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := newCore(ModeDirect, Config{Logger: slog.New(slog.NewTextHandler(&buf, nil))})

			token := tt.token(t)
			c.SetAuthToken(token)

			if c.authToken() != token {
				t.Errorf("authToken() = %q, want %q", c.authToken(), token)
			}
			warned := strings.Contains(buf.String(), "auth token is already expired")
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v (log %q)", warned, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestCore_ApplyCredentials(t *testing.T) {
	c := newCore(ModeMesh, Config{})

	req, _ := http.NewRequest(http.MethodGet, "http://example.test", nil)
	c.applyCredentials(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("Authorization set without token")
	}
	if req.Header.Get(RequestIDHeader) == "" {
		t.Error("request ID not set")
	}

	c.SetAuthToken("tok")
	req, _ = http.NewRequest(http.MethodGet, "http://example.test", nil)
	req.Header.Set(RequestIDHeader, "fixed")
	c.applyCredentials(req)
	if req.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q", req.Header.Get("Authorization"))
	}
	if req.Header.Get(RequestIDHeader) != "fixed" {
		t.Errorf("request ID = %q, want caller value kept", req.Header.Get(RequestIDHeader))
	}
}

func TestCore_DefaultLoggerDiscards(t *testing.T) {
	c := newCore(ModeDirect, Config{})
	if c.logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should discard every level")
	}
}

func TestCore_ConfigIsCopied(t *testing.T) {
	headers := map[string]string{"X-Tenant": "north"}
	c := newCore(ModeDirect, Config{Headers: headers})
	headers["X-Tenant"] = "south"

	if c.cfg.Headers["X-Tenant"] != "north" {
		t.Error("core shares the caller's header map")
	}
}

func TestCore_FailAndSucceedObserve(t *testing.T) {
	obs := &recordingObserver{}
	notifier := &recordingNotifier{}
	c := newCore(ModeMesh, Config{Observer: obs, Notifier: notifier})

	start := time.Now()
	c.succeed(context.Background(), http.MethodGet, "http://x", 200, start)
	err := c.fail(context.Background(), http.MethodPost, start, apierrors.Timeout(context.DeadlineExceeded))

	if !errors.Is(err, apierrors.ErrTimeout) {
		t.Fatalf("fail() = %v, want TIMEOUT_ERROR", err)
	}

	want := []recordedObservation{
		{ModeMesh, http.MethodGet, 200, ""},
		{ModeMesh, http.MethodPost, 0, apierrors.CodeTimeoutError},
	}
	if len(obs.obs) != len(want) {
		t.Fatalf("observations = %v, want %v", obs.obs, want)
	}
	for i := range want {
		if obs.obs[i] != want[i] {
			t.Errorf("observation %d = %+v, want %+v", i, obs.obs[i], want[i])
		}
	}

	notes := notifier.all()
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}
	if notes[0].Title != "Network Error" || notes[0].Message != "Request timeout" {
		t.Errorf("notification = %+v", notes[0])
	}
}
