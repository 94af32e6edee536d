package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// PricingResolver looks up current unit prices for order lines.
type PricingResolver struct {
	products repository.ProductRepository
}

// NewPricingResolver constructs PricingResolver.
func NewPricingResolver(products repository.ProductRepository) *PricingResolver {
	return &PricingResolver{products: products}
}

// Resolve fetches prices for the distinct products referenced by lines in a
// single call. Unknown products are absent from the result.
func (r *PricingResolver) Resolve(ctx context.Context, lines []model.LineRequest) (map[uuid.UUID]decimal.Decimal, error) {
	ids := distinctProductIDs(lines)
	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	products, err := r.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices, nil
}

func distinctProductIDs(lines []model.LineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}
