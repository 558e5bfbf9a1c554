package event

import (
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/order"
)

// RegisterAllEvents registers every event the services publish to the outbox
func RegisterAllEvents(serializer *EventSerializer) {
	RegisterEvent[order.OrderConfirmedEvent](serializer, order.EventTypeOrderConfirmed)
	RegisterEvent[order.OrderStatusChangedEvent](serializer, order.EventTypeOrderStatusChanged)

	RegisterEvent[catalog.ShopStateChangedEvent](serializer, catalog.EventTypeShopStateChanged)
	RegisterEvent[catalog.GoodsImportedEvent](serializer, catalog.EventTypeGoodsImported)
}
