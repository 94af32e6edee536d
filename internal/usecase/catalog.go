package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// CatalogUseCase exposes the product catalog.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

func (u *CatalogUseCase) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// Search matches products whose name contains name, ignoring case.
func (u *CatalogUseCase) Search(ctx context.Context, name string) ([]model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: search term is required", domainErrors.ErrInvalidInput)
	}
	return u.products.SearchByName(ctx, name)
}

func (u *CatalogUseCase) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", domainErrors.ErrInvalidInput)
	}
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domainErrors.ErrInvalidInput)
	}
	if product.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domainErrors.ErrInvalidInput)
	}
	return u.products.Create(ctx, product)
}

// Update applies a partial change to the product.
func (u *CatalogUseCase) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domainErrors.ErrInvalidInput)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: product name must not be blank", domainErrors.ErrInvalidInput)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domainErrors.ErrInvalidInput)
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domainErrors.ErrInvalidInput)
	}
	return u.products.Update(ctx, id, patch)
}

func (u *CatalogUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.products.Delete(ctx, id)
}
