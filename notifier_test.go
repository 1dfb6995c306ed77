package apiclient

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func TestNotificationTitle(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{0, "Network Error"},
		{400, "Bad Request"},
		{401, "Unauthorized"},
		{403, "Forbidden"},
		{404, "Not Found"},
		{409, "Conflict"},
		{422, "Validation Error"},
		{429, "Too Many Requests"},
		{500, "Server Error"},
		{503, "Server Error"},
		{418, "Error"},
	}

	for _, tt := range tests {
		if got := NotificationTitle(tt.status); got != tt.want {
			t.Errorf("NotificationTitle(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestNotifierFunc(t *testing.T) {
	var got Notification
	var n Notifier = NotifierFunc(func(_ context.Context, note Notification) { got = note })

	n.Notify(context.Background(), Notification{Title: "Conflict", Message: "dup"})
	if got.Title != "Conflict" || got.Message != "dup" {
		t.Errorf("got = %+v", got)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	n.Notify(context.Background(), Notification{
		Title:      "Unauthorized",
		Message:    "token expired",
		StatusCode: 401,
	})

	out := buf.String()
	for _, want := range []string{"level=WARN", `msg="token expired"`, "title=Unauthorized", "status=401"} {
		if !strings.Contains(out, want) {
			t.Errorf("log = %q, want %q", out, want)
		}
	}
	if strings.Contains(out, "code=") {
		t.Errorf("log = %q, empty code should be omitted", out)
	}
}

func TestClient_NotifiesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"quantity must be positive","code":"INVALID_QTY","details":{"field":"qty"}}`))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client, _ := New(WithBaseURL(server.URL), WithNotifier(notifier))

	err := client.Post(context.Background(), "/stock/adjust", map[string]int{"qty": -1}, nil)
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("error = %T, want *Error", err)
	}
	details, _ := apiErr.Details.(map[string]any)
	if details["field"] != "qty" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	if len(notifier.notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.notes))
	}
	note := notifier.notes[0]
	if note.Title != "Validation Error" || note.Message != "quantity must be positive" || note.Code != "INVALID_QTY" {
		t.Errorf("notification = %+v", note)
	}
}
