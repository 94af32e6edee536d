package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/kupfer451/poke-api/internal/domain/model"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, reg model.Registration) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (pkgAuth.Claims, error)
	VerifyEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	RutExists(ctx context.Context, rut string) (bool, error)
}

// CatalogFacade exposes the product catalog.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id uuid.UUID) (*model.Product, error)
	SearchProducts(ctx context.Context, name string) ([]model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// UserFacade exposes account administration.
type UserFacade interface {
	Users(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, id uuid.UUID) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, reg model.Registration) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, req model.NewOrder) (*model.Order, error)
	Order(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error)
	OrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	AllOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, requester model.Requester, id uuid.UUID, status string) (*model.Order, error)
	CancelOrder(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// HealthFacade reports service health.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	UserFacade
	OrderFacade
	HealthFacade
}
