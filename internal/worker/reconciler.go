package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kupfer451/poke-api/internal/domain/model"
)

// ReconcileFacade exposes the subset of application functionality required by the worker.
type ReconcileFacade interface {
	PendingReconciliations(ctx context.Context, limit int) ([]model.Reconciliation, error)
	Compensate(ctx context.Context, entry model.Reconciliation) error
}

// Reconciler polls the reconciliation ledger and compensates partially
// written orders concurrently.
type Reconciler struct {
	facade       ReconcileFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs     chan model.Reconciliation
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
	flightMu sync.Mutex
}

// NewReconciler constructs reconciler worker pool.
func NewReconciler(facade ReconcileFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Reconciliation, batchSize*workers),
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

// Start launches background processing.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	entries, err := r.facade.PendingReconciliations(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending reconciliations failed", slog.String("error", err.Error()))
		return
	}
	for _, entry := range entries {
		if !r.claim(entry.ID) {
			continue
		}
		select {
		case <-ctx.Done():
			r.release(entry.ID)
			return
		case r.jobs <- entry:
		}
	}
}

// claim marks an entry as queued so a slow compensation is not dispatched twice.
func (r *Reconciler) claim(id uuid.UUID) bool {
	r.flightMu.Lock()
	defer r.flightMu.Unlock()
	if _, busy := r.inflight[id]; busy {
		return false
	}
	r.inflight[id] = struct{}{}
	return true
}

func (r *Reconciler) release(id uuid.UUID) {
	r.flightMu.Lock()
	delete(r.inflight, id)
	r.flightMu.Unlock()
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handle(ctx, entry)
		}
	}
}

func (r *Reconciler) handle(ctx context.Context, entry model.Reconciliation) {
	defer r.release(entry.ID)
	if err := r.facade.Compensate(ctx, entry); err != nil {
		r.logger.Error("order compensation failed",
			slog.String("order_id", entry.OrderID.String()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
