package bootstrap

import (
	"delivery-market/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	NotifyModule,
	components.RepositoryModule,
	components.UseCaseModule,
	SweeperModule,
)
