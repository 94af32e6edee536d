package di

import (
	"go.uber.org/fx"

	"github.com/kupfer451/poke-api/internal/adapter/postgrest"
	"github.com/kupfer451/poke-api/internal/app"
	"github.com/kupfer451/poke-api/internal/config"
	"github.com/kupfer451/poke-api/internal/domain/repository"
	"github.com/kupfer451/poke-api/internal/logger"
	"github.com/kupfer451/poke-api/internal/pkg/auth"
	"github.com/kupfer451/poke-api/internal/server/http/handlers"
	"github.com/kupfer451/poke-api/internal/server/http/router"
	"github.com/kupfer451/poke-api/internal/storage/postgres"
	"github.com/kupfer451/poke-api/internal/storage/records"
	"github.com/kupfer451/poke-api/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgrest.Module,
		records.Module,
		postgres.Module,
		fx.Provide(
			reconciliationLedger,
			healthChecker,
			func(f *app.StoreFacade) handlers.StoreFacade { return f },
		),
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// reconciliationLedger prefers the PostgreSQL ledger when a database is configured.
func reconciliationLedger(pg *postgres.Storage, rec *records.Storage) repository.ReconciliationRepository {
	if pg != nil {
		return pg.Reconciliations()
	}
	return rec.Reconciliations()
}

func healthChecker(pg *postgres.Storage) app.HealthChecker {
	if pg == nil {
		return nil
	}
	return pg
}
