package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmedEvent(t *testing.T) *order.OrderConfirmedEvent {
	t.Helper()
	o, err := order.NewBasket(uuid.New())
	require.NoError(t, err)
	contactID := uuid.New()
	o.ContactID = &contactID
	o.TotalPrice = decimal.RequireFromString("1234.50")
	return order.NewOrderConfirmedEvent(o, "buyer@example.com", order.DeliveryAddress{City: "Kazan", Street: "Baumana"})
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	assert.Equal(t, []string{"GoodsImported", "OrderConfirmed", "OrderStatusChanged", "ShopStateChanged"},
		serializer.RegisteredTypes())
	assert.True(t, serializer.IsRegistered(order.EventTypeOrderConfirmed))
	assert.False(t, serializer.IsRegistered("OrderShipped"))
}

func TestEventSerializer_RoundTrip_OrderConfirmed(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	original := newConfirmedEvent(t)

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(order.EventTypeOrderConfirmed, data)
	require.NoError(t, err)

	event, ok := restored.(*order.OrderConfirmedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), event.EventID())
	assert.Equal(t, original.UserID(), event.UserID())
	assert.Equal(t, original.AggregateID(), event.AggregateID())
	assert.Equal(t, original.OrderID, event.OrderID)
	assert.Equal(t, "buyer@example.com", event.Email)
	assert.True(t, original.TotalPrice.Equal(event.TotalPrice))
	assert.Equal(t, "Kazan", event.City)
	assert.Equal(t, "Baumana", event.Street)
}

func TestEventSerializer_Deserialize_Errors(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	_, err := serializer.Deserialize("Unknown", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")

	_, err = serializer.Deserialize(order.EventTypeOrderConfirmed, []byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")

	data, err := serializer.Serialize(newConfirmedEvent(t))
	require.NoError(t, err)
	_, err = serializer.Deserialize(order.EventTypeOrderStatusChanged, data)
	assert.ErrorContains(t, err, "carries event type OrderConfirmed")
}
