package test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
)

// AuthFacadeStub implements handlers.AuthFacade with overridable behaviour.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, model.Registration) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (pkgAuth.Claims, error)
	VerifyFn       func(context.Context, string) (*model.User, error)
	EmailExistsFn  func(context.Context, string) (bool, error)
	RutExistsFn    func(context.Context, string) (bool, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, reg)
	}
	return &model.User{ID: uuid.New(), Username: reg.Username, Email: reg.Email, Rut: reg.Rut, IsAdmin: reg.IsAdmin}, "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: uuid.New(), Email: email}, "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
}

func (s AuthFacadeStub) VerifyEmail(ctx context.Context, email string) (*model.User, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, email)
	}
	return &model.User{ID: uuid.New(), Email: email}, nil
}

func (s AuthFacadeStub) EmailExists(ctx context.Context, email string) (bool, error) {
	if s.EmailExistsFn != nil {
		return s.EmailExistsFn(ctx, email)
	}
	return false, nil
}

func (s AuthFacadeStub) RutExists(ctx context.Context, rut string) (bool, error) {
	if s.RutExistsFn != nil {
		return s.RutExistsFn(ctx, rut)
	}
	return false, nil
}

// CatalogFacadeStub implements handlers.CatalogFacade.
type CatalogFacadeStub struct {
	ListFn   func(context.Context) ([]model.Product, error)
	GetFn    func(context.Context, uuid.UUID) (*model.Product, error)
	SearchFn func(context.Context, string) ([]model.Product, error)
	CreateFn func(context.Context, model.Product) (*model.Product, error)
	UpdateFn func(context.Context, uuid.UUID, model.ProductPatch) (*model.Product, error)
	DeleteFn func(context.Context, uuid.UUID) error
}

func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.Product{{ID: uuid.New(), Name: "Poke Ball", Price: decimal.RequireFromString("2.50")}}, nil
}

func (s CatalogFacadeStub) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "Poke Ball", Price: decimal.RequireFromString("2.50")}, nil
}

func (s CatalogFacadeStub) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, name)
	}
	return nil, nil
}

func (s CatalogFacadeStub) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, product)
	}
	product.ID = uuid.New()
	return &product, nil
}

func (s CatalogFacadeStub) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return &model.Product{ID: id}, nil
}

func (s CatalogFacadeStub) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// UserFacadeStub implements handlers.UserFacade.
type UserFacadeStub struct {
	ListFn       func(context.Context) ([]model.User, error)
	GetFn        func(context.Context, uuid.UUID) (*model.User, error)
	GetByEmailFn func(context.Context, string) (*model.User, error)
	CreateFn     func(context.Context, model.Registration) (*model.User, error)
	UpdateFn     func(context.Context, uuid.UUID, model.UserPatch) (*model.User, error)
	DeleteFn     func(context.Context, uuid.UUID) error
}

func (s UserFacadeStub) Users(ctx context.Context) ([]model.User, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

func (s UserFacadeStub) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (s UserFacadeStub) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	return nil, domainErrors.ErrNotFound
}

func (s UserFacadeStub) CreateUser(ctx context.Context, reg model.Registration) (*model.User, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, reg)
	}
	return &model.User{ID: uuid.New(), Username: reg.Username, Email: reg.Email, Rut: reg.Rut, IsAdmin: reg.IsAdmin}, nil
}

func (s UserFacadeStub) UpdateUser(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, patch)
	}
	return &model.User{ID: id}, nil
}

func (s UserFacadeStub) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// OrderFacadeStub implements handlers.OrderFacade.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, model.NewOrder) (*model.Order, error)
	GetFn          func(context.Context, model.Requester, uuid.UUID) (*model.Order, error)
	ByUserFn       func(context.Context, uuid.UUID) ([]model.Order, error)
	AllFn          func(context.Context) ([]model.Order, error)
	UpdateStatusFn func(context.Context, model.Requester, uuid.UUID, string) (*model.Order, error)
	CancelFn       func(context.Context, model.Requester, uuid.UUID) (*model.Order, error)
	DeleteFn       func(context.Context, uuid.UUID) error
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, req model.NewOrder) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.Order{ID: uuid.New(), UserID: req.UserID, Status: model.OrderStatusPending, ShippingAddress: req.ShippingAddress}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, requester, id)
	}
	return &model.Order{ID: id, UserID: requester.UserID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) OrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	if s.ByUserFn != nil {
		return s.ByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s OrderFacadeStub) AllOrders(ctx context.Context) ([]model.Order, error) {
	if s.AllFn != nil {
		return s.AllFn(ctx)
	}
	return nil, nil
}

func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, requester model.Requester, id uuid.UUID, status string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, requester, id, status)
	}
	return &model.Order{ID: id, Status: model.OrderStatus(status)}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, requester, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusCancelled}, nil
}

func (s OrderFacadeStub) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// HealthFacadeStub reports the configured error.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) Health(context.Context) error {
	return s.Err
}

// StoreFacadeStub aggregates facade stubs for router tests.
type StoreFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	UserFacadeStub
	OrderFacadeStub
	HealthFacadeStub
}

// ReconcileFacadeStub mimics worker interactions with the store facade.
type ReconcileFacadeStub struct {
	Batches      [][]model.Reconciliation
	PendingFn    func(context.Context, int) ([]model.Reconciliation, error)
	CompensateFn func(context.Context, model.Reconciliation) error
	Compensated  []model.Reconciliation
	mu           sync.Mutex
	pendingCalls int
}

// Lock exposes internal mutex for external synchronization.
func (s *ReconcileFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *ReconcileFacadeStub) Unlock() { s.mu.Unlock() }

// PendingReconciliations returns batches from configured queue, then nothing.
func (s *ReconcileFacadeStub) PendingReconciliations(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingCalls++
	if s.pendingCalls <= len(s.Batches) {
		return s.Batches[s.pendingCalls-1], nil
	}
	return nil, nil
}

// Compensate records compensated entries.
func (s *ReconcileFacadeStub) Compensate(ctx context.Context, entry model.Reconciliation) error {
	if s.CompensateFn != nil {
		return s.CompensateFn(ctx, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Compensated = append(s.Compensated, entry)
	return nil
}
