package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

const maxConcurrentStoreCalls = 8

// OrderPolicy switches the order workflow between permissive and strict rules.
type OrderPolicy struct {
	// StrictPricing fails creation when any line references an unknown product.
	StrictPricing bool
	// StrictTransitions applies the status transition table to administrators too.
	StrictTransitions bool
}

// OrderUseCase encapsulates order lifecycle logic: creation, status
// changes, queries and deletion.
type OrderUseCase struct {
	orders  repository.OrderRepository
	items   repository.OrderItemRepository
	pricing *PricingResolver
	ledger  repository.ReconciliationRepository
	policy  OrderPolicy
	logger  *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	items repository.OrderItemRepository,
	pricing *PricingResolver,
	ledger repository.ReconciliationRepository,
	policy OrderPolicy,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:  orders,
		items:   items,
		pricing: pricing,
		ledger:  ledger,
		policy:  policy,
		logger:  logger,
	}
}

// CreateOrder prices the requested lines, stores the header as pending and
// then stores every priced line concurrently. If a line fails to persist the
// header is recorded for reconciliation and ErrPersistence is returned.
func (u *OrderUseCase) CreateOrder(ctx context.Context, req model.NewOrder) (*model.Order, error) {
	if err := validateNewOrder(req); err != nil {
		return nil, err
	}

	prices, err := u.pricing.Resolve(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	lines, total, missing := priceLines(req.Items, prices)
	if len(missing) > 0 {
		if u.policy.StrictPricing {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrUnresolvableProduct, joinIDs(missing))
		}
		u.logger.Warn("dropping unpriced order lines",
			slog.String("user_id", req.UserID.String()),
			slog.String("products", joinIDs(missing)),
		)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no line references a known product", domainErrors.ErrUnresolvableProduct)
	}

	order, err := u.orders.Create(ctx, repository.OrderHeader{
		UserID:          req.UserID,
		Status:          model.OrderStatusPending,
		TotalAmount:     total,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := u.insertItems(ctx, order.ID, lines); err != nil {
		return nil, u.compensate(ctx, order.ID, err)
	}

	u.logger.Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.String("user_id", order.UserID.String()),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Int("items", len(lines)),
	)

	if err := u.enrich(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func validateNewOrder(req model.NewOrder) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", domainErrors.ErrInvalidInput)
	}
	if req.UserID == uuid.Nil {
		return fmt.Errorf("%w: user is required", domainErrors.ErrInvalidInput)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", domainErrors.ErrInvalidInput)
	}
	for i, line := range req.Items {
		if line.ProductID == uuid.Nil {
			return fmt.Errorf("%w: item %d has no product", domainErrors.ErrInvalidInput, i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", domainErrors.ErrInvalidInput, i)
		}
	}
	return nil
}

// priceLines snapshots unit prices onto the lines that have one and sums
// their subtotals. Lines without a price are reported in missing.
func priceLines(requested []model.LineRequest, prices map[uuid.UUID]decimal.Decimal) ([]model.OrderItem, decimal.Decimal, []uuid.UUID) {
	total := decimal.Zero
	lines := make([]model.OrderItem, 0, len(requested))
	var missing []uuid.UUID
	for _, line := range requested {
		price, ok := prices[line.ProductID]
		if !ok {
			missing = append(missing, line.ProductID)
			continue
		}
		item := model.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: price}
		total = total.Add(item.Subtotal())
		lines = append(lines, item)
	}
	return lines, total, missing
}

func (u *OrderUseCase) insertItems(ctx context.Context, orderID uuid.UUID, lines []model.OrderItem) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStoreCalls)
	for _, line := range lines {
		line.OrderID = orderID
		g.Go(func() error {
			_, err := u.items.Create(gctx, line)
			return err
		})
	}
	return g.Wait()
}

// compensate records the order for reconciliation after a failed item insert.
func (u *OrderUseCase) compensate(ctx context.Context, orderID uuid.UUID, cause error) error {
	reason := cause.Error()
	u.logger.Error("order items not fully persisted",
		slog.String("order_id", orderID.String()),
		slog.String("error", reason),
	)

	// The request context may already be cancelled; the ledger write must still happen.
	recordCtx := context.WithoutCancel(ctx)
	if _, err := u.ledger.Record(recordCtx, orderID, reason); err != nil {
		u.logger.Error("reconciliation entry not recorded",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()),
		)
		return errors.Join(persistenceError(cause), err)
	}
	return persistenceError(cause)
}

func persistenceError(err error) error {
	if errors.Is(err, domainErrors.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
}

// GetOrderByID returns the order with its items.
func (u *OrderUseCase) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.enrich(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ViewOrder returns the order if the requester owns it or is an administrator.
func (u *OrderUseCase) ViewOrder(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	order, err := u.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && !requester.Owns(order) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// GetOrdersByUserID returns every order placed by the user, with items.
func (u *OrderUseCase) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.enrichAll(ctx, orders)
}

// GetAllOrders returns every order, with items.
func (u *OrderUseCase) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return u.enrichAll(ctx, orders)
}

func (u *OrderUseCase) enrich(ctx context.Context, order *model.Order) error {
	items, err := u.items.ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (u *OrderUseCase) enrichAll(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStoreCalls)
	for i := range orders {
		g.Go(func() error {
			return u.enrich(gctx, &orders[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves the order to the named status. The transition
// table applies unless an administrator forces the change and strict
// transitions are off.
func (u *OrderUseCase) UpdateOrderStatus(ctx context.Context, requester model.Requester, id uuid.UUID, rawStatus string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(current.Status, next) {
		if !requester.IsAdmin || u.policy.StrictTransitions {
			return nil, fmt.Errorf("%w: %s -> %s", domainErrors.ErrIllegalTransition, current.Status, next)
		}
		u.logger.Warn("forcing order status transition",
			slog.String("order_id", id.String()),
			slog.String("from", string(current.Status)),
			slog.String("to", string(next)),
			slog.String("admin_id", requester.UserID.String()),
		)
	}

	return u.applyStatus(ctx, id, next)
}

// CancelOrder cancels the order on behalf of the requester. Owners may
// cancel pending or paid orders; administrators may cancel from any status.
func (u *OrderUseCase) CancelOrder(ctx context.Context, requester model.Requester, id uuid.UUID) (*model.Order, error) {
	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin {
		if !requester.Owns(current) {
			return nil, domainErrors.ErrForbidden
		}
		if !current.Status.CancellableByOwner() {
			return nil, fmt.Errorf("%w: only pending or paid orders may be cancelled by their owner, order is %s",
				domainErrors.ErrInvalidState, current.Status)
		}
	}

	return u.applyStatus(ctx, id, model.OrderStatusCancelled)
}

func (u *OrderUseCase) applyStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	order, err := u.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if err := u.enrich(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes the order items and then the order header.
func (u *OrderUseCase) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := u.items.DeleteByOrder(ctx, id); err != nil {
		return err
	}
	return u.orders.Delete(ctx, id)
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}
