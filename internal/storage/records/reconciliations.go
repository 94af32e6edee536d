package records

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

func (r *reconciliationRepository) Record(ctx context.Context, orderID uuid.UUID, reason string) (*model.Reconciliation, error) {
	var rows []reconciliationRow
	record := reconciliationInsert{OrderID: orderID, Reason: reason}
	if err := r.storage.store.Insert(ctx, repository.TableReconciliations, record, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: reconciliation insert returned no record", domainErrors.ErrPersistence)
	}
	entry := rows[0].toModel()
	return &entry, nil
}

// Pending returns unresolved entries, oldest first, at most limit of them.
func (r *reconciliationRepository) Pending(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	var rows []reconciliationRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableReconciliations, &rows, repository.IsNull("resolved_at")); err != nil {
		return nil, err
	}
	entries := make([]model.Reconciliation, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	sortByCreated(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *reconciliationRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	var rows []reconciliationRow
	patch := resolvePatch{ResolvedAt: timestamp{Time: time.Now()}}
	if err := r.storage.store.Update(ctx, repository.TableReconciliations, id.String(), patch, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func sortByCreated(entries []model.Reconciliation) {
	slices.SortStableFunc(entries, func(a, b model.Reconciliation) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
