package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderedItem is one basket line. The (order, product info, shop) triple is unique.
// UnitPrice is nil while the line sits in a basket and holds the price the
// line was confirmed at afterwards.
type OrderedItem struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ProductInfoID uuid.UUID
	ShopID        uuid.UUID
	Quantity      int
	UnitPrice     *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrderedItem creates a new ordered item
func NewOrderedItem(orderID, productInfoID, shopID uuid.UUID, quantity int) (*OrderedItem, error) {
	if productInfoID == uuid.Nil {
		return nil, shared.NewValidationError("product_info_id is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	return &OrderedItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		ProductInfoID: productInfoID,
		ShopID:        shopID,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ValidateQuantity rejects quantities below one
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewValidationError("quantity must be at least 1")
	}
	return nil
}

// DeliveryAddress is the part of a contact that travels with a confirmation
type DeliveryAddress struct {
	City   string
	Street string
}

// Order is the aggregate root for a user's basket and its confirmed successors
type Order struct {
	shared.OwnedAggregateRoot
	Status      OrderStatus
	ContactID   *uuid.UUID
	TotalPrice  decimal.Decimal
	Items       []OrderedItem
	ConfirmedAt *time.Time
}

// NewBasket creates an empty basket order for a user
func NewBasket(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user id is required")
	}
	return &Order{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Status:             StatusBasket,
		TotalPrice:         decimal.Zero,
		Items:              make([]OrderedItem, 0),
	}, nil
}

// IsBasket reports whether the order is still an editable basket
func (o *Order) IsBasket() bool {
	return o.Status == StatusBasket
}

// AddItem merges quantity into the line for (productInfoID, shopID), creating it if absent
func (o *Order) AddItem(productInfoID, shopID uuid.UUID, quantity int) (*OrderedItem, error) {
	if !o.IsBasket() {
		return nil, shared.NewInvalidStateError("cannot modify order in %s status", o.Status)
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	for i := range o.Items {
		if o.Items[i].ProductInfoID == productInfoID && o.Items[i].ShopID == shopID {
			o.Items[i].Quantity += quantity
			o.Items[i].UpdatedAt = time.Now()
			o.Touch()
			return &o.Items[i], nil
		}
	}
	item, err := NewOrderedItem(o.ID, productInfoID, shopID, quantity)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.Touch()
	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity sets a line's quantity absolutely
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if !o.IsBasket() {
		return shared.NewInvalidStateError("cannot modify order in %s status", o.Status)
	}
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewNotFoundError("ordered item")
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	o.Touch()
	return nil
}

// RemoveItem deletes one line from the basket
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if !o.IsBasket() {
		return shared.NewInvalidStateError("cannot modify order in %s status", o.Status)
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.Touch()
			return nil
		}
	}
	return shared.NewNotFoundError("ordered item")
}

// GetItem returns the line with the given ID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *OrderedItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// LinePrice returns the unit price item is charged at: the current catalog
// price while o is a basket, the confirmed price afterwards. Lines confirmed
// before prices were kept per line fall back to the catalog.
func (o *Order) LinePrice(item OrderedItem, prices PriceBook) (decimal.Decimal, bool) {
	if !o.IsBasket() && item.UnitPrice != nil {
		return *item.UnitPrice, true
	}
	return prices.Price(item.ProductInfoID)
}

// Total returns the frozen total once confirmed. A basket's total is live
// and leaves out lines that no longer have a price; Confirm refuses those.
func (o *Order) Total(prices PriceBook) decimal.Decimal {
	if !o.IsBasket() {
		return o.TotalPrice
	}
	total := decimal.Zero
	for _, item := range o.Items {
		if price, ok := prices.Price(item.ProductInfoID); ok {
			total = total.Add(LineTotal(price, item.Quantity))
		}
	}
	return total.Round(2)
}

// Confirm freezes the total and each line's unit price from current prices,
// attaches the contact and moves the basket to confirmed. It raises exactly one OrderConfirmedEvent.
func (o *Order) Confirm(contactID uuid.UUID, address DeliveryAddress, email string, prices PriceBook) error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewInvalidStateError("cannot confirm order in %s status", o.Status)
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("cannot confirm an empty basket")
	}
	if contactID == uuid.Nil {
		return shared.NewValidationError("contact_id is required")
	}
	total, err := ComputeTotal(o.Items, prices)
	if err != nil {
		return err
	}

	for i := range o.Items {
		price, _ := prices.Price(o.Items[i].ProductInfoID)
		o.Items[i].UnitPrice = &price
	}

	now := time.Now()
	o.Status = StatusConfirmed
	o.ContactID = &contactID
	o.TotalPrice = total
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderConfirmedEvent(o, email, address))
	return nil
}

// SetStatus applies a role-checked transition requested by caller.
// Reopening to basket drops the frozen prices so they are computed live again.
func (o *Order) SetStatus(target OrderStatus, caller shared.Caller) error {
	if !target.IsSettable() {
		return shared.NewValidationError("status must be one of basket, processing, completed, canceled")
	}
	if target.RequiresStaff() && !caller.IsStaff {
		return shared.NewForbiddenError("only staff may set status " + target.String())
	}
	if !caller.CanAccess(o.OwnerID) {
		return shared.NewNotFoundError("order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("cannot change status from %s to %s", o.Status, target)
	}

	from := o.Status
	o.Status = target
	if target == StatusBasket {
		o.TotalPrice = decimal.Zero
		o.ConfirmedAt = nil
		for i := range o.Items {
			o.Items[i].UnitPrice = nil
		}
	}
	o.Touch()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, caller.UserID))
	return nil
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// ProductInfoIDs returns the distinct product info IDs referenced by the order
func (o *Order) ProductInfoIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductInfoID]; ok {
			continue
		}
		seen[item.ProductInfoID] = struct{}{}
		ids = append(ids, item.ProductInfoID)
	}
	return ids
}

// ShopIDs returns the distinct shops the order buys from
func (o *Order) ShopIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ShopID]; ok {
			continue
		}
		seen[item.ShopID] = struct{}{}
		ids = append(ids, item.ShopID)
	}
	return ids
}
