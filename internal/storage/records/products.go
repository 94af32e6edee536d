package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	if err := r.storage.store.FetchAll(ctx, repository.TableProducts, &rows); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var rows []productRow
	if err := r.storage.store.FetchByID(ctx, repository.TableProducts, id.String(), &rows); err != nil {
		return nil, err
	}
	return firstProduct(rows)
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	var rows []productRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableProducts, &rows, repository.In("id", values...)); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *productRepository) SearchByName(ctx context.Context, name string) ([]model.Product, error) {
	var rows []productRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableProducts, &rows, repository.ILike("product_name", name)); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	record := productInsert{
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Description: product.Description,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
	}
	var rows []productRow
	if err := r.storage.store.Insert(ctx, repository.TableProducts, record, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: product insert returned no record", domainErrors.ErrPersistence)
	}
	created := rows[0].toModel()
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	var rows []productRow
	if err := r.storage.store.Update(ctx, repository.TableProducts, id.String(), productChanges(patch), &rows); err != nil {
		return nil, err
	}
	return firstProduct(rows)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.storage.store.Delete(ctx, repository.TableProducts, repository.ByID(id.String()))
}

func productChanges(patch model.ProductPatch) map[string]any {
	changes := map[string]any{}
	if patch.Name != nil {
		changes["product_name"] = *patch.Name
	}
	if patch.Price != nil {
		changes["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		changes["quantity"] = *patch.Quantity
	}
	if patch.Description != nil {
		changes["description"] = *patch.Description
	}
	if patch.Category != nil {
		changes["category"] = *patch.Category
	}
	if patch.ImageURL != nil {
		changes["image_url"] = *patch.ImageURL
	}
	return changes
}

func toProducts(rows []productRow) []model.Product {
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products
}

func firstProduct(rows []productRow) (*model.Product, error) {
	if len(rows) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	p := rows[0].toModel()
	return &p, nil
}
