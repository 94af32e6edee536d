package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[uuid.UUID]*model.User
	Err   error
}

var _ repository.UserRepository = (*UserRepositoryStub)(nil)

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[uuid.UUID]*model.User)}
}

// Create registers user unless email or rut is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[uuid.UUID]*model.User)
	}
	for _, existing := range s.Users {
		if existing.Email == user.Email || existing.Rut == user.Rut {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	user.ID = uuid.New()
	stored := user
	s.Users[user.ID] = &stored
	return &user, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Email == email })
}

// GetByRut fetches user by rut or returns not found.
func (s *UserRepositoryStub) GetByRut(ctx context.Context, rut string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Rut == rut })
}

func (s *UserRepositoryStub) find(match func(*model.User) bool) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, user := range s.Users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns every stored user.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.User, 0, len(s.Users))
	for _, user := range s.Users {
		out = append(out, *user)
	}
	return out, nil
}

// Update applies non-nil patch fields.
func (s *UserRepositoryStub) Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.Users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Rut != nil {
		user.Rut = *patch.Rut
	}
	copied := *user
	return &copied, nil
}

// Delete removes the user if present.
func (s *UserRepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	delete(s.Users, id)
	return nil
}

// ReconciliationRepositoryStub is a concurrency safe in-memory ledger.
type ReconciliationRepositoryStub struct {
	RecordErr  error
	PendingErr error
	ResolveErr error

	mu      sync.Mutex
	entries []model.Reconciliation
}

var _ repository.ReconciliationRepository = (*ReconciliationRepositoryStub)(nil)

// Record appends an unresolved entry.
func (s *ReconciliationRepositoryStub) Record(ctx context.Context, orderID uuid.UUID, reason string) (*model.Reconciliation, error) {
	if s.RecordErr != nil {
		return nil, s.RecordErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := model.Reconciliation{ID: uuid.New(), OrderID: orderID, Reason: reason}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

// Pending returns up to limit unresolved entries in insertion order.
func (s *ReconciliationRepositoryStub) Pending(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	if s.PendingErr != nil {
		return nil, s.PendingErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reconciliation
	for _, entry := range s.entries {
		if entry.ResolvedAt != nil {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entry)
	}
	return out, nil
}

// Resolve marks the entry as resolved.
func (s *ReconciliationRepositoryStub) Resolve(ctx context.Context, id uuid.UUID) error {
	if s.ResolveErr != nil {
		return s.ResolveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id && s.entries[i].ResolvedAt == nil {
			now := time.Now()
			s.entries[i].ResolvedAt = &now
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// Entries returns a copy of every entry.
func (s *ReconciliationRepositoryStub) Entries() []model.Reconciliation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Reconciliation(nil), s.entries...)
}
