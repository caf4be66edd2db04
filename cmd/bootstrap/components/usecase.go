package components

import (
	"delivery-market/internal/pkg/clock"
	"delivery-market/internal/usecase/commands"
	"delivery-market/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewShipperCommands,
		commands.NewCarrierCommands,
		queries.NewRequestQueries,
	),
)
