package bootstrap

import (
	"context"
	"log/slog"

	"delivery-market/internal/infra/notify"
	"delivery-market/internal/pkg/config"
	"delivery-market/internal/usecase/sweep"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier wires the async dispatcher in front of the log-backed
// sink. Close drains the queue so in-flight notifications are not lost
// on shutdown.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) sweep.Notifier {
	sink := notify.NewSlogNotifier(logger)
	dispatcher := notify.NewAsyncDispatcher(sink, logger, cfg.Notify.QueueSize, cfg.Notify.Workers)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			dispatcher.Close()
			return nil
		},
	})

	return dispatcher
}
