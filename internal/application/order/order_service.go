package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds order workflow switches
type Config struct {
	// CheckShopOnConfirm rejects confirmation when any line's shop stopped accepting orders
	CheckShopOnConfirm bool
}

// DefaultConfig returns the default order configuration
func DefaultConfig() Config {
	return Config{CheckShopOnConfirm: true}
}

// OrderService handles confirmation, status changes and order reads
type OrderService struct {
	txScope        TransactionScope
	orderRepo      order.OrderRepository
	catalogRepo    catalog.CatalogRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.OrderMetrics
	cfg            Config
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo order.OrderRepository,
	catalogRepo catalog.CatalogRepository,
	cfg Config,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txScope:     txScope,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher that receives events after commit
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetOrderMetrics sets the order metrics collector
func (s *OrderService) SetOrderMetrics(m *telemetry.OrderMetrics) {
	s.metrics = m
}

// Confirm turns the caller's basket into a confirmed order. The total is
// frozen from current prices, the contact is attached and one
// OrderConfirmed event is published once the transaction has committed.
func (s *OrderService) Confirm(ctx context.Context, caller shared.Caller, req ConfirmOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "confirm")
	defer span.End()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if req.BasketID == uuid.Nil {
		return nil, shared.NewValidationError("basket_id is required")
	}
	if req.ContactID == uuid.Nil {
		return nil, shared.NewValidationError("contact_id is required")
	}
	span.SetAttributes(
		telemetry.AttrOrderID.String(req.BasketID.String()),
		telemetry.AttrUserID.String(caller.UserID.String()),
		telemetry.AttrContactID.String(req.ContactID.String()),
	)

	var (
		confirmed *order.Order
		details   map[uuid.UUID]catalog.ProductInfoDetail
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindForUpdate(ctx, req.BasketID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(caller.UserID) {
			return shared.NewNotFoundError("order")
		}
		if !o.IsBasket() {
			return shared.NewInvalidStateError("order is already %s", o.Status)
		}

		c, err := repos.ContactRepo().GetContact(ctx, req.ContactID, caller.UserID)
		if err != nil {
			return err
		}

		details, err = repos.CatalogRepo().GetProductInfoDetails(ctx, o.ProductInfoIDs())
		if err != nil {
			return err
		}
		if s.cfg.CheckShopOnConfirm {
			if err := s.ensureShopsOpen(ctx, repos.CatalogRepo(), o.ShopIDs()); err != nil {
				return err
			}
		}

		address := order.DeliveryAddress{City: c.City, Street: c.Street}
		if err := o.Confirm(c.ID, address, caller.Email, PriceBookFrom(details)); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveTransition(ctx, o, order.StatusBasket); err != nil {
			return err
		}
		confirmed = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(telemetry.AttrAmount.String(confirmed.TotalPrice.String()))
	s.publishEvents(ctx, confirmed)
	if s.metrics != nil {
		s.metrics.RecordOrderConfirmed(ctx, confirmed.TotalPrice)
	}
	s.logger.Info("order confirmed",
		zap.String("order_id", confirmed.ID.String()),
		zap.String("user_id", caller.UserID.String()),
		zap.String("total_price", confirmed.TotalPrice.String()),
	)

	resp := ToOrderResponse(confirmed, details)
	return &resp, nil
}

// SetStatus changes an order's status on behalf of caller. processing,
// completed and canceled are reserved for staff. Reopening an order as a
// basket fails while the owner already has another basket.
func (s *OrderService) SetStatus(ctx context.Context, caller shared.Caller, orderID uuid.UUID, req SetStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "set_status")
	defer span.End()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	target, ok := order.ParseStatus(req.Status)
	if !ok || !target.IsSettable() {
		return nil, shared.NewValidationError("status must be one of basket, processing, completed, canceled")
	}
	if target.RequiresStaff() && !caller.IsStaff {
		return nil, shared.NewForbiddenError("only staff may set status " + target.String())
	}
	span.SetAttributes(
		telemetry.AttrOrderID.String(orderID.String()),
		telemetry.AttrOrderStatus.String(target.String()),
	)

	var (
		updated *order.Order
		from    order.OrderStatus
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !caller.CanAccess(o.OwnerID) {
			return shared.NewNotFoundError("order")
		}
		if target == order.StatusBasket && !o.IsBasket() {
			if _, err := repos.OrderRepo().FindBasket(ctx, o.OwnerID); err == nil {
				return shared.NewInvalidStateError("user already has an open basket")
			} else if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
		}

		from = o.Status
		if err := o.SetStatus(target, caller); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveTransition(ctx, o, from); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, updated)
	if s.metrics != nil {
		s.metrics.RecordStatusChanged(ctx, from.String(), target.String())
	}
	s.logger.Info("order status changed",
		zap.String("order_id", updated.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
		zap.String("changed_by", caller.UserID.String()),
	)

	details, err := s.catalogRepo.GetProductInfoDetails(ctx, updated.ProductInfoIDs())
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(updated, details)
	return &resp, nil
}

// GetByID returns one order visible to caller
func (s *OrderService) GetByID(ctx context.Context, caller shared.Caller, orderID uuid.UUID) (*OrderResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	var (
		o   *order.Order
		err error
	)
	if caller.IsStaff {
		o, err = s.orderRepo.FindByID(ctx, orderID)
	} else {
		o, err = s.orderRepo.FindByIDForUser(ctx, caller.UserID, orderID)
	}
	if err != nil {
		return nil, err
	}

	details, err := s.catalogRepo.GetProductInfoDetails(ctx, o.ProductInfoIDs())
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o, details)
	return &resp, nil
}

// List returns a page of orders. Staff see every order, everyone else
// only their own.
func (s *OrderService) List(ctx context.Context, caller shared.Caller, filter OrderListFilter) (*OrderListResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	lf := order.ListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		}.Normalize(),
	}
	if !caller.IsStaff {
		uid := caller.UserID
		lf.UserID = &uid
	}
	if filter.Status != "" {
		status, ok := order.ParseStatus(filter.Status)
		if !ok {
			return nil, shared.NewValidationError("unknown status %q", filter.Status)
		}
		lf.Status = &status
	}

	orders, total, err := s.orderRepo.FindAll(ctx, lf)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0)
	for i := range orders {
		ids = append(ids, orders[i].ProductInfoIDs()...)
	}
	details, err := s.catalogRepo.GetProductInfoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &OrderListResponse{
		Items:      make([]OrderResponse, len(orders)),
		Total:      total,
		Page:       lf.Page,
		PageSize:   lf.PageSize,
		TotalPages: shared.PageCount(total, lf.PageSize),
	}
	for i := range orders {
		resp.Items[i] = ToOrderResponse(&orders[i], details)
	}
	return resp, nil
}

func (s *OrderService) ensureShopsOpen(ctx context.Context, repo catalog.CatalogRepository, shopIDs []uuid.UUID) error {
	for _, shopID := range shopIDs {
		open, err := repo.ShopAcceptsOrders(ctx, shopID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewInvalidStateError("shop %s no longer exists", shopID)
			}
			return err
		}
		if !open {
			return shared.NewInvalidStateError("shop %s is not accepting orders", shopID)
		}
	}
	return nil
}

// publishEvents hands the order's events to the publisher. The state change
// has already committed, so a publish failure is logged and swallowed.
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
