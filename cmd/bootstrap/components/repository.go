package components

import (
	"tourbook/internal/infra/readstore"
	repo_impl "tourbook/internal/infra/repository"
	"tourbook/internal/infra/uow"
	"tourbook/internal/usecase/commands"
	"tourbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Write-side lookups outside transactions
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserAuthRepo)),
		),
		// Read-side stores for queries; they run through the UnitOfWork so
		// multi-query views share one snapshot
		fx.Annotate(
			readstore.NewTourReadStore,
			fx.As(new(queries.TourViewRepo)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
	),
)
