package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kupfer451/poke-api/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// ListByIDs returns the products among ids that exist, in one call.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	SearchByName(ctx context.Context, name string) ([]model.Product, error)
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
