package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "pending"},
		{"paid", OrderStatusPaid, "paid"},
		{"processing", OrderStatusProcessing, "processing"},
		{"shipped", OrderStatusShipped, "shipped"},
		{"delivered", OrderStatusDelivered, "delivered"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			parsed, err := ParseOrderStatus(tc.value)
			if err != nil {
				t.Fatalf("parse returned error: %v", err)
			}
			if parsed != tc.got {
				t.Fatalf("expected %s, got %s", tc.got, parsed)
			}
		})
	}
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "refunded", "PENDING", "canceled"} {
		_, err := ParseOrderStatus(raw)
		if !errors.Is(err, domainErrors.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus for %q, got %v", raw, err)
		}
		if !errors.Is(err, domainErrors.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", raw, err)
		}
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusDelivered},
	}

	for _, from := range OrderStatuses() {
		for _, to := range OrderStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalAndCancellable(t *testing.T) {
	for _, s := range OrderStatuses() {
		terminal := s == OrderStatusDelivered || s == OrderStatusCancelled
		if s.Terminal() != terminal {
			t.Errorf("%s: terminal = %v, want %v", s, s.Terminal(), terminal)
		}
		cancellable := s == OrderStatusPending || s == OrderStatusPaid
		if s.CancellableByOwner() != cancellable {
			t.Errorf("%s: cancellable = %v, want %v", s, s.CancellableByOwner(), cancellable)
		}
	}
	if OrderStatus("bogus").Terminal() {
		t.Error("unknown status must not be terminal")
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{UnitPrice: decimal.RequireFromString("10.50"), Quantity: 3}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("31.50")) {
		t.Fatalf("expected 31.50, got %s", got)
	}
}

func TestRequesterOwns(t *testing.T) {
	owner := uuid.New()
	order := &Order{UserID: owner}
	if !(Requester{UserID: owner}).Owns(order) {
		t.Fatal("expected owner to own order")
	}
	if (Requester{UserID: uuid.New()}).Owns(order) {
		t.Fatal("did not expect stranger to own order")
	}
	if (Requester{UserID: owner}).Owns(nil) {
		t.Fatal("nil order has no owner")
	}
}

func TestProductPatchEmpty(t *testing.T) {
	if !(ProductPatch{}).Empty() {
		t.Fatal("expected zero patch to be empty")
	}
	name := "Pikachu plush"
	if (ProductPatch{Name: &name}).Empty() {
		t.Fatal("expected patch with name to be non-empty")
	}
}
