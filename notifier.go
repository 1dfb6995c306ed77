package apiclient

import (
	"context"
	"log/slog"

	"github.com/inventra-io/apiclient-go/internal/transport"
)

type (
	// Notification is a user-facing message about a failed call.
	Notification = transport.Notification

	// Notifier receives a Notification for every failed call. It must not
	// block for long. A panicking Notifier is recovered and ignored.
	Notifier = transport.Notifier
)

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// LogNotifier writes notifications to a logger at warn level.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, notification Notification) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{slog.String("title", notification.Title)}
	if notification.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status", notification.StatusCode))
	}
	if notification.Code != "" {
		attrs = append(attrs, slog.String("code", notification.Code))
	}
	logger.LogAttrs(ctx, slog.LevelWarn, notification.Message, attrs...)
}
