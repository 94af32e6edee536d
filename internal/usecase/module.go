package usecase

import (
	"go.uber.org/fx"

	"github.com/kupfer451/poke-api/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderPolicy,
	NewPricingResolver,
	NewAuthUseCase,
	NewOrderUseCase,
	NewCatalogUseCase,
	NewUserUseCase,
	NewReconcileUseCase,
)

func newOrderPolicy(cfg *config.Config) OrderPolicy {
	return OrderPolicy{
		StrictPricing:     cfg.StrictPricing,
		StrictTransitions: cfg.StrictTransitions,
	}
}
