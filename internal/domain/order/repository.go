package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// ListFilter narrows order listings. A nil UserID lists every user's orders.
type ListFilter struct {
	shared.Filter
	UserID *uuid.UUID
	Status *OrderStatus
}

// OrderRepository defines persistence for the Order aggregate.
// Every lookup that takes a userID returns shared.ErrNotFound for orders
// that exist but belong to someone else.
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUser loads an order only if userID owns it
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Order, error)
	// FindForUpdate loads an order with its items and locks the row until the transaction ends
	FindForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindBasket returns the user's basket order, or shared.ErrNotFound
	FindBasket(ctx context.Context, userID uuid.UUID) (*Order, error)
	// GetOrCreateBasket returns the user's basket, creating it race-free when absent
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*Order, error)
	// FindAll lists orders with their items
	FindAll(ctx context.Context, filter ListFilter) ([]Order, int64, error)

	// UpsertItem atomically inserts the line or adds quantity to the existing
	// (order, product info, shop) line and returns the resulting row
	UpsertItem(ctx context.Context, item *OrderedItem) (*OrderedItem, error)
	// FindBasketItem returns an item only if it sits in userID's basket
	FindBasketItem(ctx context.Context, userID, itemID uuid.UUID) (*OrderedItem, error)
	// UpdateItemQuantity sets the quantity of one line
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	// DeleteItem removes one line
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	// DeleteWithItems removes the order and all of its items as one unit
	DeleteWithItems(ctx context.Context, orderID uuid.UUID) error

	// SaveTransition persists status, contact, total and confirmation time,
	// but only if the stored status still equals from. Otherwise it
	// returns an INVALID_STATE error.
	SaveTransition(ctx context.Context, o *Order, from OrderStatus) error
}
