package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/kupfer451/poke-api/internal/config"
)

// Module wires the optional PostgreSQL ledger. Without DATABASE_URI it
// provides a nil *Storage.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Info("no database configured, reconciliation ledger kept in record store")
		return nil, nil
	}
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	if storage == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
