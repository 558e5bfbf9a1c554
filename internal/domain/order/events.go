package order

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name for orders
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderConfirmed     = "OrderConfirmed"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// OrderConfirmedEvent is raised when a basket is confirmed.
// It carries everything the confirmation notification needs so delivery
// never has to read the order back.
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Email      string          `json:"email"`
	TotalPrice decimal.Decimal `json:"total_price"`
	ContactID  uuid.UUID       `json:"contact_id"`
	City       string          `json:"city"`
	Street     string          `json:"street"`
	ItemCount  int             `json:"item_count"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order, email string, address DeliveryAddress) *OrderConfirmedEvent {
	contactID := uuid.Nil
	if o.ContactID != nil {
		contactID = *o.ContactID
	}
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, o.ID, o.OwnerID),
		OrderID:         o.ID,
		Email:           email,
		TotalPrice:      o.TotalPrice,
		ContactID:       contactID,
		City:            address.City,
		Street:          address.Street,
		ItemCount:       len(o.Items),
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderStatusChangedEvent is raised on every SetStatus transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID   `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedBy uuid.UUID   `json:"changed_by"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus, changedBy uuid.UUID) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.OwnerID),
		OrderID:         o.ID,
		From:            from,
		To:              o.Status,
		ChangedBy:       changedBy,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}
