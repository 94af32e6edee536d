package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// ReconcileUseCase undoes orders whose items were not fully persisted.
type ReconcileUseCase struct {
	orders repository.OrderRepository
	items  repository.OrderItemRepository
	ledger repository.ReconciliationRepository
	logger *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(
	orders repository.OrderRepository,
	items repository.OrderItemRepository,
	ledger repository.ReconciliationRepository,
	logger *slog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{orders: orders, items: items, ledger: ledger, logger: logger}
}

// Pending returns up to limit unresolved ledger entries, oldest first.
func (u *ReconcileUseCase) Pending(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	return u.ledger.Pending(ctx, limit)
}

// Compensate removes the partially written order referenced by entry and
// resolves the entry. Removal is idempotent so a retried entry is safe. An
// order that has already left pending is kept and the entry is resolved.
func (u *ReconcileUseCase) Compensate(ctx context.Context, entry model.Reconciliation) error {
	header, err := u.orders.GetByID(ctx, entry.OrderID)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
	case err != nil:
		return err
	case header.Status != model.OrderStatusPending:
		if err := u.ledger.Resolve(ctx, entry.ID); err != nil {
			return err
		}
		u.logger.Warn("order advanced before compensation, kept",
			slog.String("order_id", entry.OrderID.String()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("status", string(header.Status)),
			slog.String("reason", entry.Reason),
		)
		return nil
	}

	if err := u.items.DeleteByOrder(ctx, entry.OrderID); err != nil {
		return err
	}
	if err := u.orders.Delete(ctx, entry.OrderID); err != nil {
		return err
	}
	if err := u.ledger.Resolve(ctx, entry.ID); err != nil {
		return err
	}

	u.logger.Info("order compensated",
		slog.String("order_id", entry.OrderID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.String("reason", entry.Reason),
	)
	return nil
}
