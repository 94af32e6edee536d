package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
	testhelpers "github.com/kupfer451/poke-api/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(claims pkgAuth.Claims) (string, error) {
			return fmt.Sprintf("token-%s-%t", claims.UserID, claims.IsAdmin), nil
		},
		ParseFn: func(token string) (pkgAuth.Claims, error) {
			raw, ok := strings.CutPrefix(token, "token-")
			if !ok || len(raw) < 36 {
				return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
			}
			id, err := uuid.Parse(raw[:36])
			if err != nil {
				return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
			}
			return pkgAuth.Claims{UserID: id, IsAdmin: strings.HasSuffix(raw, "-true")}, nil
		},
	}
}

func ashRegistration() model.Registration {
	return model.Registration{Username: "ash", Password: "pikachu", Email: "ash@pallet.town", Rut: "11.111.111-1"}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, ashRegistration())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != fmt.Sprintf("token-%s-false", user.ID) {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "ash@pallet.town")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:pikachu" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()
	if _, _, err := uc.Register(ctx, ashRegistration()); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}

	sameEmail := ashRegistration()
	sameEmail.Rut = "22.222.222-2"
	if _, _, err := uc.Register(ctx, sameEmail); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for email, got %v", err)
	}

	sameRut := ashRegistration()
	sameRut.Email = "gary@pallet.town"
	if _, _, err := uc.Register(ctx, sameRut); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for rut, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	cases := map[string]func(*model.Registration){
		"username": func(r *model.Registration) { r.Username = " " },
		"password": func(r *model.Registration) { r.Password = "" },
		"email":    func(r *model.Registration) { r.Email = "" },
		"rut":      func(r *model.Registration) { r.Rut = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			reg := ashRegistration()
			mutate(&reg)
			if _, _, err := uc.Register(context.Background(), reg); !errors.Is(err, domainErrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), ashRegistration()); err == nil {
		t.Fatal("expected hashing error")
	}
}

func TestAuthUseCaseRegisterRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	repo.Err = fmt.Errorf("db down")
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), ashRegistration()); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestAuthUseCaseRegisterIssueTokenError(t *testing.T) {
	strategy := testhelpers.StrategyStub{IssueFn: func(pkgAuth.Claims) (string, error) {
		return "", fmt.Errorf("cannot issue token")
	}}
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, strategy)
	if _, _, err := uc.Register(context.Background(), ashRegistration()); err == nil {
		t.Fatal("expected token issuing error")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()

	reg := ashRegistration()
	reg.IsAdmin = true
	user, _, err := uc.Register(ctx, reg)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "ash@pallet.town", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "  ash@pallet.town ", "pikachu")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	claims, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || !claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthUseCaseAuthenticateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Authenticate(ctx, "absent@pallet.town", "pass"); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
	})

	t.Run("blank credentials", func(t *testing.T) {
		uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Authenticate(ctx, "", "pass"); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
		if _, _, err := uc.Authenticate(ctx, "ash@pallet.town", ""); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error, got %v", err)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		repo := testhelpers.NewUserRepositoryStub()
		uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Register(ctx, ashRegistration()); err != nil {
			t.Fatalf("register returned error: %v", err)
		}
		repo.Err = fmt.Errorf("storage unavailable")
		if _, _, err := uc.Authenticate(ctx, "ash@pallet.town", "pikachu"); err == nil || err.Error() != "storage unavailable" {
			t.Fatalf("expected repository error, got %v", err)
		}
	})

	t.Run("issue error", func(t *testing.T) {
		calls := 0
		strategy := testhelpers.StrategyStub{IssueFn: func(pkgAuth.Claims) (string, error) {
			calls++
			if calls > 1 {
				return "", fmt.Errorf("issue error")
			}
			return "token", nil
		}}
		uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, strategy)
		if _, _, err := uc.Register(ctx, ashRegistration()); err != nil {
			t.Fatalf("register returned error: %v", err)
		}
		if _, _, err := uc.Authenticate(ctx, "ash@pallet.town", "pikachu"); err == nil {
			t.Fatal("expected issue error on authenticate")
		}
	})
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id := uuid.New()
	claims, err := uc.ParseToken(fmt.Sprintf("token-%s-false", id))
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != id || claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseLookups(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	ctx := context.Background()
	user, _, err := uc.Register(ctx, ashRegistration())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	fetched, err := uc.GetByID(ctx, user.ID)
	if err != nil || fetched.Username != "ash" {
		t.Fatalf("get by id: %+v err=%v", fetched, err)
	}
	verified, err := uc.VerifyEmail(ctx, "ash@pallet.town")
	if err != nil || verified.ID != user.ID {
		t.Fatalf("verify email: %+v err=%v", verified, err)
	}
	if _, err := uc.VerifyEmail(ctx, "misty@cerulean.city"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if ok, err := uc.EmailExists(ctx, "ash@pallet.town"); err != nil || !ok {
		t.Fatalf("expected email to exist: %v %v", ok, err)
	}
	if ok, err := uc.RutExists(ctx, "99.999.999-9"); err != nil || ok {
		t.Fatalf("expected rut to be free: %v %v", ok, err)
	}

	repo.Err = fmt.Errorf("read error")
	if _, err := uc.EmailExists(ctx, "ash@pallet.town"); err == nil {
		t.Fatal("expected repository error")
	}
}
