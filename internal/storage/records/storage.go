package records

import (
	"log/slog"

	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// Storage adapts a generic record store into typed domain repositories.
type Storage struct {
	store  repository.RecordStore
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type orderItemRepository struct {
	storage *Storage
}

type reconciliationRepository struct {
	storage *Storage
}

var _ repository.Factory = (*Storage)(nil)

// New creates record backed storage.
func New(store repository.RecordStore, logger *slog.Logger) *Storage {
	return &Storage{store: store, logger: logger}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) OrderItems() repository.OrderItemRepository {
	return &orderItemRepository{storage: s}
}

// Reconciliations returns a ledger kept in the record store itself. It is
// used when no dedicated PostgreSQL database is configured.
func (s *Storage) Reconciliations() repository.ReconciliationRepository {
	return &reconciliationRepository{storage: s}
}
