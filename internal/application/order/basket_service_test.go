package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type basketFixture struct {
	orders   *MockOrderRepository
	catalog  *MockCatalogRepository
	contacts *MockContactRepository
	service  *BasketService
}

func newBasketFixture() *basketFixture {
	f := &basketFixture{
		orders:   new(MockOrderRepository),
		catalog:  new(MockCatalogRepository),
		contacts: new(MockContactRepository),
	}
	scope := NewNoOpTransactionScope(f.orders, f.catalog, f.contacts)
	f.service = NewBasketService(scope, f.orders, f.catalog, zap.NewNop())
	return f
}

func intPtr(v int) *int { return &v }

func testProductInfo(shopID uuid.UUID, price string) *catalog.ProductInfo {
	return &catalog.ProductInfo{
		BaseEntity: shared.BaseEntity{ID: uuid.New()},
		ProductID:  uuid.New(),
		ShopID:     shopID,
		Model:      "model-x",
		Quantity:   10,
		Price:      decimal.RequireFromString(price),
	}
}

func TestBasketService_AddItem(t *testing.T) {
	ctx := context.Background()
	caller := shared.NewCaller(uuid.New(), "buyer@example.com", false)

	t.Run("creates basket and upserts line", func(t *testing.T) {
		f := newBasketFixture()
		info := testProductInfo(uuid.New(), "100")
		basket, _ := order.NewBasket(caller.UserID)

		f.catalog.On("GetProductInfo", mock.Anything, info.ID).Return(info, nil)
		f.catalog.On("ShopAcceptsOrders", mock.Anything, info.ShopID).Return(true, nil)
		f.orders.On("GetOrCreateBasket", mock.Anything, caller.UserID).Return(basket, nil)
		f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(basket, nil)
		f.orders.On("UpsertItem", mock.Anything, mock.MatchedBy(func(item *order.OrderedItem) bool {
			return item.OrderID == basket.ID && item.ProductInfoID == info.ID &&
				item.ShopID == info.ShopID && item.Quantity == 2
		})).Return(&order.OrderedItem{
			ID: uuid.New(), OrderID: basket.ID, ProductInfoID: info.ID, ShopID: info.ShopID, Quantity: 5,
		}, nil)

		resp, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: info.ID, Quantity: intPtr(2)})

		require.NoError(t, err)
		assert.Equal(t, 5, resp.Quantity)
		assert.True(t, resp.Available)
		assert.Equal(t, "500", resp.LineTotal.String())
		f.orders.AssertExpectations(t)
	})

	t.Run("basket confirmed before the lock is skipped", func(t *testing.T) {
		f := newBasketFixture()
		info := testProductInfo(uuid.New(), "50")
		stale, _ := order.NewBasket(caller.UserID)
		confirmed := *stale
		confirmed.Status = order.StatusConfirmed
		fresh, _ := order.NewBasket(caller.UserID)

		f.catalog.On("GetProductInfo", mock.Anything, info.ID).Return(info, nil)
		f.catalog.On("ShopAcceptsOrders", mock.Anything, info.ShopID).Return(true, nil)
		f.orders.On("GetOrCreateBasket", mock.Anything, caller.UserID).Return(stale, nil).Once()
		f.orders.On("GetOrCreateBasket", mock.Anything, caller.UserID).Return(fresh, nil).Once()
		f.orders.On("FindForUpdate", mock.Anything, stale.ID).Return(&confirmed, nil)
		f.orders.On("FindForUpdate", mock.Anything, fresh.ID).Return(fresh, nil)
		f.orders.On("UpsertItem", mock.Anything, mock.MatchedBy(func(item *order.OrderedItem) bool {
			return item.OrderID == fresh.ID
		})).Return(&order.OrderedItem{
			ID: uuid.New(), OrderID: fresh.ID, ProductInfoID: info.ID, ShopID: info.ShopID, Quantity: 1,
		}, nil)

		resp, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: info.ID, Quantity: intPtr(1)})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Quantity)
		f.orders.AssertExpectations(t)
	})

	t.Run("basket that keeps disappearing is an invalid state", func(t *testing.T) {
		f := newBasketFixture()
		info := testProductInfo(uuid.New(), "50")
		basket, _ := order.NewBasket(caller.UserID)

		f.catalog.On("GetProductInfo", mock.Anything, info.ID).Return(info, nil)
		f.catalog.On("ShopAcceptsOrders", mock.Anything, info.ShopID).Return(true, nil)
		f.orders.On("GetOrCreateBasket", mock.Anything, caller.UserID).Return(basket, nil)
		f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(nil, shared.NewNotFoundError("order"))

		_, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: info.ID, Quantity: intPtr(1)})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.orders.AssertNumberOfCalls(t, "GetOrCreateBasket", basketLockAttempts)
		f.orders.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything)
	})

	t.Run("missing quantity is a validation error", func(t *testing.T) {
		f := newBasketFixture()
		_, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.catalog.AssertNotCalled(t, "GetProductInfo", mock.Anything, mock.Anything)
	})

	t.Run("zero quantity is a validation error", func(t *testing.T) {
		f := newBasketFixture()
		_, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: uuid.New(), Quantity: intPtr(0)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown listing is not found", func(t *testing.T) {
		f := newBasketFixture()
		id := uuid.New()
		f.catalog.On("GetProductInfo", mock.Anything, id).Return(nil, shared.NewNotFoundError("product info"))

		_, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: id, Quantity: intPtr(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orders.AssertNotCalled(t, "GetOrCreateBasket", mock.Anything, mock.Anything)
	})

	t.Run("closed shop is rejected before any write", func(t *testing.T) {
		f := newBasketFixture()
		info := testProductInfo(uuid.New(), "10")
		f.catalog.On("GetProductInfo", mock.Anything, info.ID).Return(info, nil)
		f.catalog.On("ShopAcceptsOrders", mock.Anything, info.ShopID).Return(false, nil)

		_, err := f.service.AddItem(ctx, caller, AddItemRequest{ProductInfoID: info.ID, Quantity: intPtr(1)})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.orders.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything)
	})

	t.Run("anonymous caller is unauthorized", func(t *testing.T) {
		f := newBasketFixture()
		_, err := f.service.AddItem(ctx, shared.Caller{}, AddItemRequest{ProductInfoID: uuid.New(), Quantity: intPtr(1)})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestBasketService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	caller := shared.NewCaller(uuid.New(), "", false)

	t.Run("sets quantity absolutely", func(t *testing.T) {
		f := newBasketFixture()
		basket, _ := order.NewBasket(caller.UserID)
		info := testProductInfo(uuid.New(), "3.50")
		item, _ := basket.AddItem(info.ID, info.ShopID, 4)

		f.orders.On("FindBasketItem", mock.Anything, caller.UserID, item.ID).Return(item, nil)
		f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(basket, nil)
		f.orders.On("UpdateItemQuantity", mock.Anything, item.ID, 7).Return(nil)
		f.catalog.On("GetProductInfo", mock.Anything, info.ID).Return(info, nil)

		resp, err := f.service.UpdateItem(ctx, caller, item.ID, UpdateItemRequest{Quantity: intPtr(7)})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
		assert.Equal(t, "24.5", resp.LineTotal.String())
	})

	t.Run("item of another user is not found", func(t *testing.T) {
		f := newBasketFixture()
		itemID := uuid.New()
		f.orders.On("FindBasketItem", mock.Anything, caller.UserID, itemID).Return(nil, shared.NewNotFoundError("ordered item"))

		_, err := f.service.UpdateItem(ctx, caller, itemID, UpdateItemRequest{Quantity: intPtr(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orders.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("item of a confirmed order is not found", func(t *testing.T) {
		f := newBasketFixture()
		o, _ := order.NewBasket(caller.UserID)
		item, _ := o.AddItem(uuid.New(), uuid.New(), 1)
		o.Status = order.StatusConfirmed

		f.orders.On("FindBasketItem", mock.Anything, caller.UserID, item.ID).Return(item, nil)
		f.orders.On("FindForUpdate", mock.Anything, o.ID).Return(o, nil)

		_, err := f.service.UpdateItem(ctx, caller, item.ID, UpdateItemRequest{Quantity: intPtr(3)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("line removed before the lock is not found", func(t *testing.T) {
		f := newBasketFixture()
		basket, _ := order.NewBasket(caller.UserID)
		item, _ := order.NewOrderedItem(basket.ID, uuid.New(), uuid.New(), 1)

		f.orders.On("FindBasketItem", mock.Anything, caller.UserID, item.ID).Return(item, nil)
		f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(basket, nil)

		_, err := f.service.UpdateItem(ctx, caller, item.ID, UpdateItemRequest{Quantity: intPtr(2)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.orders.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing quantity is a validation error", func(t *testing.T) {
		f := newBasketFixture()
		_, err := f.service.UpdateItem(ctx, caller, uuid.New(), UpdateItemRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestBasketService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	caller := shared.NewCaller(uuid.New(), "", false)
	f := newBasketFixture()
	basket, _ := order.NewBasket(caller.UserID)
	item, _ := basket.AddItem(uuid.New(), uuid.New(), 2)

	f.orders.On("FindBasketItem", mock.Anything, caller.UserID, item.ID).Return(item, nil)
	f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(basket, nil)
	f.orders.On("DeleteItem", mock.Anything, item.ID).Return(nil)

	itemID := item.ID
	require.NoError(t, f.service.RemoveItem(ctx, caller, itemID))
	f.orders.AssertExpectations(t)
	assert.Empty(t, basket.Items)
}

func TestBasketService_Clear(t *testing.T) {
	ctx := context.Background()
	caller := shared.NewCaller(uuid.New(), "", false)

	t.Run("deletes basket with items", func(t *testing.T) {
		f := newBasketFixture()
		basket, _ := order.NewBasket(caller.UserID)
		f.orders.On("FindBasket", mock.Anything, caller.UserID).Return(basket, nil)
		f.orders.On("FindForUpdate", mock.Anything, basket.ID).Return(basket, nil)
		f.orders.On("DeleteWithItems", mock.Anything, basket.ID).Return(nil)

		require.NoError(t, f.service.Clear(ctx, caller))
		f.orders.AssertExpectations(t)
	})

	t.Run("no basket is a no-op", func(t *testing.T) {
		f := newBasketFixture()
		f.orders.On("FindBasket", mock.Anything, caller.UserID).Return(nil, shared.NewNotFoundError("order"))

		require.NoError(t, f.service.Clear(ctx, caller))
		f.orders.AssertNotCalled(t, "DeleteWithItems", mock.Anything, mock.Anything)
	})
}

func TestBasketService_Get(t *testing.T) {
	ctx := context.Background()
	caller := shared.NewCaller(uuid.New(), "", false)

	t.Run("live total skips unavailable lines", func(t *testing.T) {
		f := newBasketFixture()
		basket, _ := order.NewBasket(caller.UserID)
		shopID := uuid.New()
		a := testProductInfo(shopID, "100")
		gone := uuid.New()
		_, _ = basket.AddItem(a.ID, shopID, 2)
		_, _ = basket.AddItem(gone, shopID, 1)

		f.orders.On("FindBasket", mock.Anything, caller.UserID).Return(basket, nil)
		f.catalog.On("GetProductInfoDetails", mock.Anything, mock.Anything).Return(map[uuid.UUID]catalog.ProductInfoDetail{
			a.ID: {ProductInfo: *a, ProductName: "Phone", ShopName: "Svyaznoy"},
		}, nil)

		resp, err := f.service.Get(ctx, caller)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "200", resp[0].TotalPrice.String())
		assert.True(t, resp[0].Items[0].Available)
		assert.Equal(t, "Phone", resp[0].Items[0].ProductName)
		assert.False(t, resp[0].Items[1].Available)
	})

	t.Run("no basket returns empty list", func(t *testing.T) {
		f := newBasketFixture()
		f.orders.On("FindBasket", mock.Anything, caller.UserID).Return(nil, shared.NewNotFoundError("order"))

		resp, err := f.service.Get(ctx, caller)
		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}
