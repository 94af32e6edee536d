package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage keeps the order reconciliation ledger in PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type reconciliationRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Reconciliations() repository.ReconciliationRepository {
	return &reconciliationRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS order_reconciliations (
            id UUID PRIMARY KEY,
            order_id UUID NOT NULL,
            reason TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            resolved_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_reconciliations_pending ON order_reconciliations(created_at) WHERE resolved_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func (r *reconciliationRepository) Record(ctx context.Context, orderID uuid.UUID, reason string) (*model.Reconciliation, error) {
	const query = `INSERT INTO order_reconciliations (id, order_id, reason) VALUES ($1, $2, $3) RETURNING created_at`
	entry := model.Reconciliation{ID: uuid.New(), OrderID: orderID, Reason: reason}
	err := r.storage.pool.QueryRow(ctx, query, entry.ID, orderID, reason).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: record reconciliation: %w", domainErrors.ErrPersistence, err)
	}
	return &entry, nil
}

// Pending claims up to limit unresolved entries, oldest first. Rows locked by
// another instance are skipped.
func (r *reconciliationRepository) Pending(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	const query = `SELECT id, order_id, reason, created_at
                   FROM order_reconciliations
                   WHERE resolved_at IS NULL
                   ORDER BY created_at
                   LIMIT $1
                   FOR UPDATE SKIP LOCKED`

	var entries []model.Reconciliation
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e model.Reconciliation
			if err := rows.Scan(&e.ID, &e.OrderID, &e.Reason, &e.CreatedAt); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pending reconciliations: %w", domainErrors.ErrPersistence, err)
	}
	return entries, nil
}

func (r *reconciliationRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE order_reconciliations SET resolved_at=NOW() WHERE id=$1 AND resolved_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: resolve reconciliation: %w", domainErrors.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return errors.Join(domainErrors.ErrPersistence, err)
	}
	return nil
}
