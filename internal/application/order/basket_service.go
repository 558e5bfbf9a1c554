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

// BasketService handles the caller's open basket
type BasketService struct {
	txScope     TransactionScope
	orderRepo   order.OrderRepository
	catalogRepo catalog.CatalogRepository
	metrics     *telemetry.OrderMetrics
	logger      *zap.Logger
}

// NewBasketService creates a new BasketService
func NewBasketService(
	txScope TransactionScope,
	orderRepo order.OrderRepository,
	catalogRepo catalog.CatalogRepository,
	logger *zap.Logger,
) *BasketService {
	return &BasketService{
		txScope:     txScope,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// SetOrderMetrics sets the order metrics collector
func (s *BasketService) SetOrderMetrics(m *telemetry.OrderMetrics) {
	s.metrics = m
}

// Get returns the caller's basket with a live total. The result is empty
// when the caller has no basket yet.
func (s *BasketService) Get(ctx context.Context, caller shared.Caller) ([]OrderResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}

	basket, err := s.orderRepo.FindBasket(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []OrderResponse{}, nil
		}
		return nil, err
	}

	details, err := s.catalogRepo.GetProductInfoDetails(ctx, basket.ProductInfoIDs())
	if err != nil {
		return nil, err
	}
	return []OrderResponse{ToOrderResponse(basket, details)}, nil
}

// AddItem adds quantity of a listing to the caller's basket, creating the
// basket when absent. Repeated additions of the same listing merge into one
// line whose quantity is the sum.
func (s *BasketService) AddItem(ctx context.Context, caller shared.Caller, req AddItemRequest) (*OrderItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "basket", "add_item")
	defer span.End()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity == nil {
		return nil, shared.NewValidationError("quantity is required")
	}
	if err := order.ValidateQuantity(*req.Quantity); err != nil {
		return nil, err
	}
	span.SetAttributes(
		telemetry.AttrUserID.String(caller.UserID.String()),
		telemetry.AttrProductInfoID.String(req.ProductInfoID.String()),
		telemetry.AttrQuantity.Int(*req.Quantity),
	)

	info, err := s.catalogRepo.GetProductInfo(ctx, req.ProductInfoID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	open, err := s.catalogRepo.ShopAcceptsOrders(ctx, info.ShopID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !open {
		err := shared.NewInvalidStateError("shop %s is not accepting orders", info.ShopID)
		telemetry.RecordError(span, err)
		return nil, err
	}

	var stored *order.OrderedItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		basket, err := lockOpenBasket(ctx, repos.OrderRepo(), caller.UserID)
		if err != nil {
			return err
		}
		if _, err := basket.AddItem(info.ID, info.ShopID, *req.Quantity); err != nil {
			return err
		}
		// The upsert merges into an existing line itself, so only the added
		// quantity is written.
		item, err := order.NewOrderedItem(basket.ID, info.ID, info.ShopID, *req.Quantity)
		if err != nil {
			return err
		}
		stored, err = repos.OrderRepo().UpsertItem(ctx, item)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordBasketItemAdded(ctx, *req.Quantity)
	}
	s.logger.Debug("basket item added",
		zap.String("user_id", caller.UserID.String()),
		zap.String("order_id", stored.OrderID.String()),
		zap.String("product_info_id", info.ID.String()),
		zap.Int("quantity", stored.Quantity),
	)

	resp := itemResponse(stored, info)
	return &resp, nil
}

// UpdateItem sets the quantity of a line in the caller's basket
func (s *BasketService) UpdateItem(ctx context.Context, caller shared.Caller, itemID uuid.UUID, req UpdateItemRequest) (*OrderItemResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity == nil {
		return nil, shared.NewValidationError("quantity is required")
	}
	if err := order.ValidateQuantity(*req.Quantity); err != nil {
		return nil, err
	}

	var updated order.OrderedItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		basket, err := lockBasketOf(ctx, repos.OrderRepo(), caller.UserID, itemID)
		if err != nil {
			return err
		}
		if err := basket.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return err
		}
		if err := repos.OrderRepo().UpdateItemQuantity(ctx, itemID, *req.Quantity); err != nil {
			return err
		}
		updated = *basket.GetItem(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	info, err := s.catalogRepo.GetProductInfo(ctx, updated.ProductInfoID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp := itemResponse(&updated, info)
	return &resp, nil
}

// RemoveItem deletes one line from the caller's basket
func (s *BasketService) RemoveItem(ctx context.Context, caller shared.Caller, itemID uuid.UUID) error {
	if err := caller.Validate(); err != nil {
		return err
	}
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		basket, err := lockBasketOf(ctx, repos.OrderRepo(), caller.UserID, itemID)
		if err != nil {
			return err
		}
		if err := basket.RemoveItem(itemID); err != nil {
			return err
		}
		return repos.OrderRepo().DeleteItem(ctx, itemID)
	})
}

// Clear deletes the caller's basket with all of its lines. Clearing when
// there is no basket succeeds.
func (s *BasketService) Clear(ctx context.Context, caller shared.Caller) error {
	if err := caller.Validate(); err != nil {
		return err
	}
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		basket, err := repos.OrderRepo().FindBasket(ctx, caller.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		locked, err := repos.OrderRepo().FindForUpdate(ctx, basket.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if !locked.IsBasket() {
			return nil
		}
		return repos.OrderRepo().DeleteWithItems(ctx, locked.ID)
	})
}

// basketLockAttempts bounds how often AddItem chases a basket that was
// confirmed or cleared between lookup and lock.
const basketLockAttempts = 3

// lockOpenBasket returns userID's basket, created when absent, locked for the
// rest of the transaction. A basket that stopped being one before the lock
// was taken is skipped and a fresh one is opened.
func lockOpenBasket(ctx context.Context, repo order.OrderRepository, userID uuid.UUID) (*order.Order, error) {
	for attempt := 0; attempt < basketLockAttempts; attempt++ {
		basket, err := repo.GetOrCreateBasket(ctx, userID)
		if err != nil {
			return nil, err
		}
		locked, err := repo.FindForUpdate(ctx, basket.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if locked.IsBasket() {
			return locked, nil
		}
	}
	return nil, shared.NewInvalidStateError("basket keeps changing, retry the request")
}

// lockBasketOf locks the basket holding itemID in userID's basket.
// An item whose order left basket status in the meantime is reported as not found.
func lockBasketOf(ctx context.Context, repo order.OrderRepository, userID, itemID uuid.UUID) (*order.Order, error) {
	item, err := repo.FindBasketItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	o, err := repo.FindForUpdate(ctx, item.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsBasket() || o.OwnerID != userID {
		return nil, shared.NewNotFoundError("ordered item")
	}
	return o, nil
}

func itemResponse(item *order.OrderedItem, info *catalog.ProductInfo) OrderItemResponse {
	resp := OrderItemResponse{
		ID:            item.ID,
		ProductInfoID: item.ProductInfoID,
		ShopID:        item.ShopID,
		Quantity:      item.Quantity,
	}
	if info != nil {
		price := info.Price
		lineTotal := order.LineTotal(price, item.Quantity)
		resp.Model = info.Model
		resp.Price = &price
		resp.LineTotal = &lineTotal
		resp.Available = true
	}
	return resp
}
