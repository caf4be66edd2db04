// Package notify delivers user notifications. Delivery is best-effort
// by contract: a failed or dropped notification is logged and never
// surfaces as a booking failure.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string) error
}

// SlogNotifier writes notifications to the structured log. It stands in
// for a real delivery channel (email, push) behind the same interface.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(_ context.Context, userID uuid.UUID, title, message string) error {
	n.logger.Info("notification",
		"user_id", userID,
		"title", title,
		"message", message,
	)
	return nil
}
