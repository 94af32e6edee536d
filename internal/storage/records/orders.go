package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, header repository.OrderHeader) (*model.Order, error) {
	record := orderInsert{
		UserID:          header.UserID,
		Status:          string(header.Status),
		TotalAmount:     header.TotalAmount,
		ShippingAddress: header.ShippingAddress,
		Notes:           header.Notes,
	}
	var rows []orderRow
	if err := r.storage.store.Insert(ctx, repository.TableOrders, record, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: order insert returned no record", domainErrors.ErrPersistence)
	}
	created := rows[0].toModel()
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var rows []orderRow
	if err := r.storage.store.FetchByID(ctx, repository.TableOrders, id.String(), &rows); err != nil {
		return nil, err
	}
	return firstOrder(rows)
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	var rows []orderRow
	if err := r.storage.store.FetchAll(ctx, repository.TableOrders, &rows); err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var rows []orderRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableOrders, &rows, repository.Eq("user_id", userID.String())); err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	patch := statusPatch{Status: string(status), UpdatedAt: timestamp{Time: time.Now()}}
	var rows []orderRow
	if err := r.storage.store.Update(ctx, repository.TableOrders, id.String(), patch, &rows); err != nil {
		return nil, err
	}
	return firstOrder(rows)
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.storage.store.Delete(ctx, repository.TableOrders, repository.ByID(id.String()))
}

func toOrders(rows []orderRow) []model.Order {
	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders
}

func firstOrder(rows []orderRow) (*model.Order, error) {
	if len(rows) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	o := rows[0].toModel()
	return &o, nil
}

// --- OrderItemRepository implementation ---

func (r *orderItemRepository) Create(ctx context.Context, item model.OrderItem) (*model.OrderItem, error) {
	record := orderItemInsert{
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
	var rows []orderItemRow
	if err := r.storage.store.Insert(ctx, repository.TableOrderItems, record, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: order item insert returned no record", domainErrors.ErrPersistence)
	}
	created := rows[0].toModel()
	return &created, nil
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	var rows []orderItemRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableOrderItems, &rows, repository.Eq("order_id", orderID.String())); err != nil {
		return nil, err
	}
	items := make([]model.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

func (r *orderItemRepository) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.storage.store.Delete(ctx, repository.TableOrderItems, repository.Eq("order_id", orderID.String()))
}
