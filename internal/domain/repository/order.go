package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kupfer451/poke-api/internal/domain/model"
)

// OrderHeader is the data written when an order is created.
type OrderHeader struct {
	UserID          uuid.UUID
	Status          model.OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Notes           string
}

// OrderRepository describes persistence operations with order headers.
// Returned orders carry no items.
type OrderRepository interface {
	Create(ctx context.Context, header OrderHeader) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderItemRepository describes persistence operations with order lines.
type OrderItemRepository interface {
	Create(ctx context.Context, item model.OrderItem) (*model.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}

// ReconciliationRepository is the ledger of partially persisted orders.
type ReconciliationRepository interface {
	Record(ctx context.Context, orderID uuid.UUID, reason string) (*model.Reconciliation, error)
	Pending(ctx context.Context, limit int) ([]model.Reconciliation, error)
	Resolve(ctx context.Context, id uuid.UUID) error
}
