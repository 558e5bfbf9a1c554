package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// A partial unique index on (user_id) WHERE status = 'basket' keeps one basket per user.
type OrderModel struct {
	OwnedAggregateModel
	Status      order.OrderStatus  `gorm:"type:varchar(20);not null;default:'basket';index"`
	ContactID   *uuid.UUID         `gorm:"type:uuid"`
	TotalPrice  decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	ConfirmedAt *time.Time         `gorm:"index"`
	Items       []OrderedItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Status:             m.Status,
		ContactID:          m.ContactID,
		TotalPrice:         m.TotalPrice,
		ConfirmedAt:        m.ConfirmedAt,
		Items:              make([]order.OrderedItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = *m.Items[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order.
// Items are not copied; they are written through the item upsert.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainOwnedAggregateRoot(o.OwnedAggregateRoot)
	m.Status = o.Status
	m.ContactID = o.ContactID
	m.TotalPrice = o.TotalPrice
	m.ConfirmedAt = o.ConfirmedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderedItemModel is the persistence model for a basket line.
// UnitPrice stays NULL until the order is confirmed.
type OrderedItemModel struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_ordered_items_line,priority:1"`
	ProductInfoID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_ordered_items_line,priority:2"`
	ShopID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_ordered_items_line,priority:3"`
	Quantity      int              `gorm:"not null"`
	UnitPrice     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderedItemModel) TableName() string {
	return "ordered_items"
}

// ToDomain converts the persistence model to a domain OrderedItem
func (m *OrderedItemModel) ToDomain() *order.OrderedItem {
	return &order.OrderedItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ProductInfoID: m.ProductInfoID,
		ShopID:        m.ShopID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// OrderedItemModelFromDomain creates a persistence model from a domain OrderedItem
func OrderedItemModelFromDomain(i *order.OrderedItem) *OrderedItemModel {
	return &OrderedItemModel{
		ID:            i.ID,
		OrderID:       i.OrderID,
		ProductInfoID: i.ProductInfoID,
		ShopID:        i.ShopID,
		Quantity:      i.Quantity,
		UnitPrice:     i.UnitPrice,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
