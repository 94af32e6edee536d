package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

// UserUseCase serves account administration.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

func (u *UserUseCase) List(ctx context.Context) ([]model.User, error) {
	return u.users.List(ctx)
}

func (u *UserUseCase) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *UserUseCase) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.users.GetByEmail(ctx, strings.TrimSpace(email))
}

// Update changes profile fields. A new email or rut must not belong to
// another account.
func (u *UserUseCase) Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	if patch.Username == nil && patch.Email == nil && patch.Rut == nil {
		return nil, fmt.Errorf("%w: nothing to update", domainErrors.ErrInvalidInput)
	}
	var err error
	if patch.Username, err = trimmedField(patch.Username); err != nil {
		return nil, err
	}
	if patch.Email, err = trimmedField(patch.Email); err != nil {
		return nil, err
	}
	if patch.Rut, err = trimmedField(patch.Rut); err != nil {
		return nil, err
	}

	if patch.Email != nil {
		owner, err := u.users.GetByEmail(ctx, *patch.Email)
		if err := ensureUnused(id, "email", owner, err); err != nil {
			return nil, err
		}
	}
	if patch.Rut != nil {
		owner, err := u.users.GetByRut(ctx, *patch.Rut)
		if err := ensureUnused(id, "rut", owner, err); err != nil {
			return nil, err
		}
	}
	return u.users.Update(ctx, id, patch)
}

func ensureUnused(id uuid.UUID, field string, owner *model.User, lookupErr error) error {
	taken, err := exists(owner, lookupErr)
	if err != nil {
		return err
	}
	if taken && owner.ID != id {
		return fmt.Errorf("%w: %s already registered", domainErrors.ErrAlreadyExists, field)
	}
	return nil
}

func trimmedField(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: profile fields must not be blank", domainErrors.ErrInvalidInput)
	}
	return &trimmed, nil
}

func (u *UserUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.users.Delete(ctx, id)
}
