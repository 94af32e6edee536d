package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry.
type Product struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Description string
	Category    string
	ImageURL    string
	CreatedAt   time.Time
}

// ProductPatch holds the fields to change on a product. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	Category    *string
	ImageURL    *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil &&
		p.Description == nil && p.Category == nil && p.ImageURL == nil
}
