package notification

import (
	"context"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// SystemNotifier is the narrow port for the OS-level notification echo.
// Implementations must never block or fail the dispatcher's internal
// update; delivery problems are their own to swallow.
type SystemNotifier interface {
	IsPermitted() bool
	Notify(title, body string)
}

// NoopNotifier is the notifier used when no push capability is granted.
type NoopNotifier struct{}

func (NoopNotifier) IsPermitted() bool         { return false }
func (NoopNotifier) Notify(title, body string) {}

// FCMNotifier echoes notifications to a participant's device through
// Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
	token  string
	log    *zap.Logger
}

// NewFCMNotifier wraps an FCM client and a device registration token.
func NewFCMNotifier(client *messaging.Client, token string, log *zap.Logger) *FCMNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &FCMNotifier{client: client, token: token, log: log}
}

// IsPermitted reports whether push delivery is actually possible.
func (n *FCMNotifier) IsPermitted() bool {
	return n.client != nil && n.token != ""
}

// Notify sends the push. Errors are logged and dropped.
func (n *FCMNotifier) Notify(title, body string) {
	if !n.IsPermitted() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := &messaging.Message{
		Token: n.token,
		Notification: &messaging.Notification{
			Title: "ServiceSync - " + title,
			Body:  body,
		},
	}
	if _, err := n.client.Send(ctx, msg); err != nil {
		n.log.Warn("notifier: push send failed", zap.Error(err))
	}
}
