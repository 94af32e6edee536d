package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kupfer451/poke-api/internal/domain/model"
)

// timestamp accepts the layouts PostgREST emits for timestamp and
// timestamptz columns.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

func (t timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

type userRow struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	HashPass  string    `json:"hash_pass"`
	Email     string    `json:"email"`
	Rut       string    `json:"rut"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt timestamp `json:"created_at"`
}

type userInsert struct {
	Username string `json:"username"`
	HashPass string `json:"hash_pass"`
	Email    string `json:"email"`
	Rut      string `json:"rut"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (r userRow) toModel() model.User {
	return model.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		Rut:          r.Rut,
		PasswordHash: r.HashPass,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    r.CreatedAt.Time,
	}
}

type productRow struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   timestamp       `json:"created_at"`
}

type productInsert struct {
	Name        string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt.Time,
	}
}

type orderRow struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes"`
	CreatedAt       timestamp       `json:"created_at"`
	UpdatedAt       timestamp       `json:"updated_at"`
}

type orderInsert struct {
	UserID          uuid.UUID       `json:"user_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty"`
}

type statusPatch struct {
	Status    string    `json:"status"`
	UpdatedAt timestamp `json:"updated_at"`
}

func (r orderRow) toModel() model.Order {
	return model.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Status:          model.OrderStatus(r.Status),
		TotalAmount:     r.TotalAmount,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}
}

type orderItemRow struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   timestamp       `json:"created_at"`
}

type orderItemInsert struct {
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (r orderItemRow) toModel() model.OrderItem {
	return model.OrderItem{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		CreatedAt:   r.CreatedAt.Time,
	}
}

type reconciliationRow struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	Reason     string     `json:"reason"`
	CreatedAt  timestamp  `json:"created_at"`
	ResolvedAt *timestamp `json:"resolved_at"`
}

type reconciliationInsert struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

type resolvePatch struct {
	ResolvedAt timestamp `json:"resolved_at"`
}

func (r reconciliationRow) toModel() model.Reconciliation {
	entry := model.Reconciliation{
		ID:        r.ID,
		OrderID:   r.OrderID,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt.Time,
	}
	if r.ResolvedAt != nil && !r.ResolvedAt.IsZero() {
		resolved := r.ResolvedAt.Time
		entry.ResolvedAt = &resolved
	}
	return entry
}
