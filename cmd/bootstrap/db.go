package bootstrap

import (
	"context"

	"delivery-market/internal/infra/db"
	"delivery-market/internal/infra/pgstore"
	"delivery-market/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return pgstore.Migrate(ctx, pool)
		},
		OnStop: func(ctx context.Context) error {
			cleanup()
			return nil
		},
	})

	return pool, nil
}
