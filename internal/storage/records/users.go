package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	record := userInsert{
		Username: user.Username,
		HashPass: user.PasswordHash,
		Email:    user.Email,
		Rut:      user.Rut,
		IsAdmin:  user.IsAdmin,
	}
	var rows []userRow
	if err := r.storage.store.Insert(ctx, repository.TableUsers, record, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: user insert returned no record", domainErrors.ErrPersistence)
	}
	created := rows[0].toModel()
	return &created, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var rows []userRow
	if err := r.storage.store.FetchByID(ctx, repository.TableUsers, id.String(), &rows); err != nil {
		return nil, err
	}
	return firstUser(rows)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) GetByRut(ctx context.Context, rut string) (*model.User, error) {
	return r.getBy(ctx, "rut", rut)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*model.User, error) {
	var rows []userRow
	if err := r.storage.store.FetchFiltered(ctx, repository.TableUsers, &rows, repository.Eq(column, value)); err != nil {
		return nil, err
	}
	return firstUser(rows)
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := r.storage.store.FetchAll(ctx, repository.TableUsers, &rows); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	changes := map[string]any{}
	if patch.Username != nil {
		changes["username"] = *patch.Username
	}
	if patch.Email != nil {
		changes["email"] = *patch.Email
	}
	if patch.Rut != nil {
		changes["rut"] = *patch.Rut
	}
	var rows []userRow
	if err := r.storage.store.Update(ctx, repository.TableUsers, id.String(), changes, &rows); err != nil {
		return nil, err
	}
	return firstUser(rows)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.storage.store.Delete(ctx, repository.TableUsers, repository.ByID(id.String()))
}

func firstUser(rows []userRow) (*model.User, error) {
	if len(rows) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	u := rows[0].toModel()
	return &u, nil
}
