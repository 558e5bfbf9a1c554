package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfirmationNotifier queues the customer notification for a confirmed order
type ConfirmationNotifier interface {
	EnqueueOrderConfirmation(ctx context.Context, orderID uuid.UUID, email string, total decimal.Decimal, city, street string) error
}

// OrderConfirmationHandler forwards OrderConfirmedEvent to the notification queue.
// A returned error leaves the outbox entry for retry.
type OrderConfirmationHandler struct {
	notifier ConfirmationNotifier
	logger   *zap.Logger
}

// NewOrderConfirmationHandler creates a new OrderConfirmationHandler
func NewOrderConfirmationHandler(notifier ConfirmationNotifier, logger *zap.Logger) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmationHandler) EventTypes() []string {
	return []string{order.EventTypeOrderConfirmed}
}

// Handle enqueues the confirmation job for the event's order
func (h *OrderConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*order.OrderConfirmedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", order.EventTypeOrderConfirmed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			order.EventTypeOrderConfirmed, event.EventType())
	}

	if confirmed.Email == "" {
		h.logger.Warn("order confirmed without an email address, skipping notification",
			zap.String("order_id", confirmed.OrderID.String()),
		)
		return nil
	}

	err := h.notifier.EnqueueOrderConfirmation(ctx,
		confirmed.OrderID,
		confirmed.Email,
		confirmed.TotalPrice,
		confirmed.City,
		confirmed.Street,
	)
	if err != nil {
		h.logger.Error("failed to enqueue order confirmation",
			zap.String("order_id", confirmed.OrderID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("order confirmation enqueued",
		zap.String("order_id", confirmed.OrderID.String()),
		zap.String("event_id", confirmed.EventID().String()),
	)
	return nil
}

var _ shared.EventHandler = (*OrderConfirmationHandler)(nil)
