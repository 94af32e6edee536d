package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a purchase header with its line items.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is one line of an order. UnitPrice is captured when the order
// is created and never follows later catalog changes.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineRequest is a requested order line before pricing.
type LineRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// NewOrder carries the caller supplied part of an order.
type NewOrder struct {
	UserID          uuid.UUID
	ShippingAddress string
	Notes           string
	Items           []LineRequest
}
