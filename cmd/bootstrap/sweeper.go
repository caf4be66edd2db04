package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"delivery-market/internal/pkg/clock"
	"delivery-market/internal/pkg/config"
	"delivery-market/internal/usecase/sweep"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		NewSweeper,
	),
)

func NewSweeper(
	requests sweep.RequestStore,
	offers sweep.OfferStore,
	shipments sweep.ShipmentStore,
	notifier sweep.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *sweep.Sweeper {
	return sweep.NewSweeper(requests, offers, shipments, notifier, clk, logger, cfg.Sweep.GroupParallelism)
}

// RunSweeper drives reconciliation on a fixed interval for the
// lifetime of the app. One pass runs immediately on start so a restart
// does not wait a full interval to repair interrupted bookings.
func RunSweeper(lc fx.Lifecycle, sweeper *sweep.Sweeper, cfg config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				logger.Info("sweeper started", "interval", cfg.Sweep.Interval.String())

				sweeper.Sweep(ctx)

				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						sweeper.Sweep(ctx)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
