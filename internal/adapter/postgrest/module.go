package postgrest

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/kupfer451/poke-api/internal/config"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// Module exposes the PostgREST record store to fx graphs.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (repository.RecordStore, error) {
	return NewClient(p.Config.StoreURL, p.Config.StoreAPIKey, p.Config.StoreTimeout, p.Logger)
}
