package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func confirmedEvent(t *testing.T, email string) *order.OrderConfirmedEvent {
	t.Helper()
	o, err := order.NewBasket(uuid.New())
	require.NoError(t, err)
	o.TotalPrice = decimal.RequireFromString("250.00")
	return order.NewOrderConfirmedEvent(o, email, order.DeliveryAddress{City: "Moscow", Street: "Arbat"})
}

func TestOrderConfirmationHandler_EventTypes(t *testing.T) {
	h := NewOrderConfirmationHandler(nil, zap.NewNop())
	assert.Equal(t, []string{order.EventTypeOrderConfirmed}, h.EventTypes())
}

func TestOrderConfirmationHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueues notification with captured address", func(t *testing.T) {
		notifier := new(MockConfirmationNotifier)
		h := NewOrderConfirmationHandler(notifier, zap.NewNop())
		e := confirmedEvent(t, "buyer@example.com")

		notifier.On("EnqueueOrderConfirmation", ctx, e.OrderID, "buyer@example.com",
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(250)) }),
			"Moscow", "Arbat").Return(nil)

		require.NoError(t, h.Handle(ctx, e))
		notifier.AssertExpectations(t)
	})

	t.Run("enqueue failure is returned for retry and logged", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		notifier := new(MockConfirmationNotifier)
		h := NewOrderConfirmationHandler(notifier, zap.New(core))
		e := confirmedEvent(t, "buyer@example.com")
		notifier.On("EnqueueOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("broker down"))

		err := h.Handle(ctx, e)

		assert.Error(t, err)
		assert.Equal(t, 1, logs.FilterMessage("failed to enqueue order confirmation").Len())
	})

	t.Run("missing email skips notification", func(t *testing.T) {
		notifier := new(MockConfirmationNotifier)
		h := NewOrderConfirmationHandler(notifier, zap.NewNop())

		require.NoError(t, h.Handle(ctx, confirmedEvent(t, "")))
		notifier.AssertNotCalled(t, "EnqueueOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong event type is an error", func(t *testing.T) {
		h := NewOrderConfirmationHandler(new(MockConfirmationNotifier), zap.NewNop())
		o, _ := order.NewBasket(uuid.New())
		wrong := order.NewOrderStatusChangedEvent(o, order.StatusConfirmed, uuid.New())

		var _ shared.DomainEvent = wrong
		assert.Error(t, h.Handle(ctx, wrong))
	})
}
