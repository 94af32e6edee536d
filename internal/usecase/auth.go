package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
)

// AuthUseCase handles user registration, login and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new account and returns it with an auth token. Email
// and rut must both be unused.
func (u *AuthUseCase) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Rut = strings.TrimSpace(reg.Rut)
	if reg.Username == "" || reg.Email == "" || reg.Rut == "" || reg.Password == "" {
		return nil, "", fmt.Errorf("%w: username, email, rut and password are required", domainErrors.ErrInvalidInput)
	}

	exists, err := u.EmailExists(ctx, reg.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("%w: email already registered", domainErrors.ErrAlreadyExists)
	}
	exists, err = u.RutExists(ctx, reg.Rut)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("%w: rut already registered", domainErrors.ErrAlreadyExists)
	}

	hash, err := u.hasher.Hash(reg.Password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, model.User{
		Username:     reg.Username,
		Email:        reg.Email,
		Rut:          reg.Rut,
		PasswordHash: hash,
		IsAdmin:      reg.IsAdmin,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Authenticate validates credentials and returns the user with an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(pkgAuth.Claims{UserID: usr.ID, Email: usr.Email, IsAdmin: usr.IsAdmin})
}

// ParseToken extracts the identity carried by token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Claims, error) {
	if token == "" {
		return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// VerifyEmail returns the account registered with email.
func (u *AuthUseCase) VerifyEmail(ctx context.Context, email string) (*model.User, error) {
	return u.users.GetByEmail(ctx, strings.TrimSpace(email))
}

// EmailExists reports whether an account uses email.
func (u *AuthUseCase) EmailExists(ctx context.Context, email string) (bool, error) {
	return exists(u.users.GetByEmail(ctx, strings.TrimSpace(email)))
}

// RutExists reports whether an account uses rut.
func (u *AuthUseCase) RutExists(ctx context.Context, rut string) (bool, error) {
	return exists(u.users.GetByRut(ctx, strings.TrimSpace(rut)))
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func exists(_ *model.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domainErrors.ErrNotFound) {
		return false, nil
	}
	return false, err
}
