package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
	testhelpers "github.com/kupfer451/poke-api/internal/test"
)

func TestReconcileCompensatesFailedOrder(t *testing.T) {
	f := newOrderFixture(t, OrderPolicy{})
	pika := f.product(t, "Pikachu plush", "10.00")
	ball := f.product(t, "Poke Ball", "1.00")
	failed := false
	f.store.InsertFn = func(table string, record map[string]any) error {
		if table == repository.TableOrderItems && record["product_id"] == ball.ID.String() {
			failed = true
			return errors.New("insert rejected")
		}
		return nil
	}

	_, err := f.uc.CreateOrder(context.Background(), model.NewOrder{
		UserID:          uuid.New(),
		ShippingAddress: "Pewter City",
		Items: []model.LineRequest{
			{ProductID: pika.ID, Quantity: 1},
			{ProductID: ball.ID, Quantity: 1},
		},
	})
	if err == nil || !failed {
		t.Fatalf("expected creation to fail, got %v", err)
	}
	f.store.InsertFn = nil

	rc := NewReconcileUseCase(f.storage.Orders(), f.storage.OrderItems(), f.storage.Reconciliations(), discardLogger())
	pending, err := rc.Pending(context.Background(), 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %v err=%v", pending, err)
	}

	if err := rc.Compensate(context.Background(), pending[0]); err != nil {
		t.Fatalf("compensate: %v", err)
	}
	if n := len(f.store.Rows(repository.TableOrders)); n != 0 {
		t.Fatalf("expected header removed, %d left", n)
	}
	if n := len(f.store.Rows(repository.TableOrderItems)); n != 0 {
		t.Fatalf("expected items removed, %d left", n)
	}
	pending, err = rc.Pending(context.Background(), 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected ledger to be drained: %v err=%v", pending, err)
	}
}

func TestReconcileStopsOnDeleteFailure(t *testing.T) {
	f := newOrderFixture(t, OrderPolicy{})
	ledger := &testhelpers.ReconciliationRepositoryStub{}
	entry, err := ledger.Record(context.Background(), uuid.New(), "boom")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	boom := errors.New("delete failed")
	f.store.DeleteFn = func(table string) error {
		if table == repository.TableOrders {
			return boom
		}
		return nil
	}

	rc := NewReconcileUseCase(f.storage.Orders(), f.storage.OrderItems(), ledger, discardLogger())
	if err := rc.Compensate(context.Background(), *entry); !errors.Is(err, boom) {
		t.Fatalf("expected delete error, got %v", err)
	}
	if entries := ledger.Entries(); entries[0].ResolvedAt != nil {
		t.Fatal("entry must stay pending when the order was not removed")
	}
}

func TestReconcileKeepsAdvancedOrder(t *testing.T) {
	f := newOrderFixture(t, OrderPolicy{})
	pika := f.product(t, "Pikachu plush", "10.00")
	ball := f.product(t, "Poke Ball", "1.00")
	f.store.InsertFn = func(table string, record map[string]any) error {
		if table == repository.TableOrderItems && record["product_id"] == ball.ID.String() {
			return errors.New("insert rejected")
		}
		return nil
	}
	_, err := f.uc.CreateOrder(context.Background(), model.NewOrder{
		UserID:          uuid.New(),
		ShippingAddress: "Saffron City",
		Items: []model.LineRequest{
			{ProductID: pika.ID, Quantity: 1},
			{ProductID: ball.ID, Quantity: 1},
		},
	})
	if err == nil {
		t.Fatal("expected creation to fail")
	}
	f.store.InsertFn = nil

	rc := NewReconcileUseCase(f.storage.Orders(), f.storage.OrderItems(), f.storage.Reconciliations(), discardLogger())
	pending, err := rc.Pending(context.Background(), 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending: %v err=%v", pending, err)
	}
	if _, err := f.storage.Orders().UpdateStatus(context.Background(), pending[0].OrderID, model.OrderStatusPaid); err != nil {
		t.Fatalf("advance order: %v", err)
	}

	if err := rc.Compensate(context.Background(), pending[0]); err != nil {
		t.Fatalf("compensate: %v", err)
	}
	if n := len(f.store.Rows(repository.TableOrders)); n != 1 {
		t.Fatalf("expected paid order to be kept, %d headers left", n)
	}
	if n := len(f.store.Rows(repository.TableOrderItems)); n != 1 {
		t.Fatalf("expected persisted item to be kept, %d left", n)
	}
	if n := f.store.CountCalls("DELETE " + repository.TableOrders); n != 0 {
		t.Fatalf("expected no header delete, got %d", n)
	}
	pending, err = rc.Pending(context.Background(), 10)
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected entry to be resolved: %v err=%v", pending, err)
	}
}
