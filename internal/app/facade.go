package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/kupfer451/poke-api/internal/domain/model"
	pkgAuth "github.com/kupfer451/poke-api/internal/pkg/auth"
	"github.com/kupfer451/poke-api/internal/usecase"
)

// HealthChecker reports whether an optional backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type StoreFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	catalog   *usecase.CatalogUseCase
	users     *usecase.UserUseCase
	reconcile *usecase.ReconcileUseCase
	health    HealthChecker
}

// NewStoreFacade groups the use cases behind one value for the HTTP layer
// and the reconciler. health may be nil.
func NewStoreFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	catalog *usecase.CatalogUseCase,
	users *usecase.UserUseCase,
	reconcile *usecase.ReconcileUseCase,
	health HealthChecker,
) *StoreFacade {
	return &StoreFacade{
		auth:      auth,
		orders:    orders,
		catalog:   catalog,
		users:     users,
		reconcile: reconcile,
		health:    health,
	}
}

func (f *StoreFacade) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	return f.auth.Register(ctx, reg)
}

func (f *StoreFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StoreFacade) ParseToken(token string) (pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) VerifyEmail(ctx context.Context, email string) (*model.User, error) {
	return f.auth.VerifyEmail(ctx, email)
}

func (f *StoreFacade) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.auth.EmailExists(ctx, email)
}

func (f *StoreFacade) RutExists(ctx context.Context, rut string) (bool, error) {
	return f.auth.RutExists(ctx, rut)
}

func (f *StoreFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.users.List(ctx)
}

func (f *StoreFacade) User(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *StoreFacade) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.users.GetByEmail(ctx, email)
}

// CreateUser registers an account on behalf of an administrator. No token is issued to the caller.
func (f *StoreFacade) CreateUser(ctx context.Context, reg model.Registration) (*model.User, error) {
	usr, _, err := f.auth.Register(ctx, reg)
	return usr, err
}

func (f *StoreFacade) UpdateUser(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	return f.users.Update(ctx, id, patch)
}

func (f *StoreFacade) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return f.users.Delete(ctx, id)
}

func (f *StoreFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *StoreFacade) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *StoreFacade) SearchProducts(ctx context.Context, name string) ([]model.Product, error) {
	return f.catalog.Search(ctx, name)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	return f.catalog.Create(ctx, product)
}

func (f *StoreFacade) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	return f.catalog.Update(ctx, id, patch)
}

func (f *StoreFacade) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return f.catalog.Delete(ctx, id)
}

func (f *StoreFacade) CreateOrder(ctx context.Context, req model.NewOrder) (*model.Order, error) {
	return f.orders.CreateOrder(ctx, req)
}

func (f *StoreFacade) Order(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	return f.orders.ViewOrder(ctx, requester, id)
}

func (f *StoreFacade) OrdersByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return f.orders.GetOrdersByUserID(ctx, userID)
}

func (f *StoreFacade) AllOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.GetAllOrders(ctx)
}

func (f *StoreFacade) UpdateOrderStatus(ctx context.Context, requester model.Requester, id uuid.UUID, status string) (*model.Order, error) {
	return f.orders.UpdateOrderStatus(ctx, requester, id, status)
}

func (f *StoreFacade) CancelOrder(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	return f.orders.CancelOrder(ctx, requester, id)
}

func (f *StoreFacade) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return f.orders.DeleteOrder(ctx, id)
}

func (f *StoreFacade) PendingReconciliations(ctx context.Context, limit int) ([]model.Reconciliation, error) {
	return f.reconcile.Pending(ctx, limit)
}

func (f *StoreFacade) Compensate(ctx context.Context, entry model.Reconciliation) error {
	return f.reconcile.Compensate(ctx, entry)
}

// Health reports the state of the optional ledger database.
func (f *StoreFacade) Health(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
