package components

import (
	"delivery-market/internal/infra/pgstore"
	"delivery-market/internal/usecase/commands"
	"delivery-market/internal/usecase/queries"
	"delivery-market/internal/usecase/sweep"

	"go.uber.org/fx"
)

// RepositoryModule binds the postgres store to the interfaces each
// use case layer consumes. Command, query, and sweep ports are all
// backed by the same store, so they observe a single source of truth.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		pgstore.NewStore,

		func(s *pgstore.Store) commands.RequestRepository { return s.Requests() },
		func(s *pgstore.Store) commands.OfferRepository { return s.Offers() },
		func(s *pgstore.Store) commands.ShipmentRepository { return s.Shipments() },

		func(s *pgstore.Store) queries.RequestReader { return s.Requests() },

		func(s *pgstore.Store) sweep.RequestStore { return s.Requests() },
		func(s *pgstore.Store) sweep.OfferStore { return s.Offers() },
		func(s *pgstore.Store) sweep.ShipmentStore { return s.Shipments() },
	),
)
