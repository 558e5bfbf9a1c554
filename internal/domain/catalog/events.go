package catalog

import (
	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Aggregate type constants
const AggregateTypeShop = "Shop"

// Event type constants
const (
	EventTypeShopStateChanged = "ShopStateChanged"
	EventTypeGoodsImported    = "GoodsImported"
)

// ShopStateChangedEvent is raised when a shop opens or closes for orders
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopID uuid.UUID `json:"shop_id"`
	State  bool      `json:"state"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(s *Shop) *ShopStateChangedEvent {
	owner := uuid.Nil
	if s.UserID != nil {
		owner = *s.UserID
	}
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, s.ID, owner),
		ShopID:          s.ID,
		State:           s.State,
	}
}

// EventType returns the event type name
func (e *ShopStateChangedEvent) EventType() string {
	return EventTypeShopStateChanged
}

// GoodsImportedEvent is raised after a shop's price list has been replaced
type GoodsImportedEvent struct {
	shared.BaseDomainEvent
	ShopID       uuid.UUID `json:"shop_id"`
	ShopName     string    `json:"shop_name"`
	ProductInfos int       `json:"product_infos"`
	Categories   int       `json:"categories"`
}

// NewGoodsImportedEvent creates a new GoodsImportedEvent
func NewGoodsImportedEvent(s *Shop, importedBy uuid.UUID, productInfos, categories int) *GoodsImportedEvent {
	return &GoodsImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsImported, AggregateTypeShop, s.ID, importedBy),
		ShopID:          s.ID,
		ShopName:        s.Name,
		ProductInfos:    productInfos,
		Categories:      categories,
	}
}

// EventType returns the event type name
func (e *GoodsImportedEvent) EventType() string {
	return EventTypeGoodsImported
}
