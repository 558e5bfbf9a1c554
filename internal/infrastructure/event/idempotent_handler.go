package event

import (
	"context"
	"strings"

	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Outcomes reported to an IdempotencyObserver
const (
	IdempotentHandled   = "handled"
	IdempotentDuplicate = "duplicate"
	IdempotentFailed    = "failed"
)

// IdempotencyObserver counts what an IdempotentHandler did with each event
type IdempotencyObserver interface {
	ObserveIdempotentEvent(handler, outcome string)
}

// IdempotentHandler runs the wrapped handler at most once per event ID once
// it has succeeded. Outbox delivery is at-least-once, so the confirmation
// mail relies on this to go out a single time.
//
// A failed run releases the key so the outbox retry can try again. When the
// store itself is unreachable the event is handled anyway.
type IdempotentHandler struct {
	inner    shared.EventHandler
	store    shared.IdempotencyStore
	config   shared.IdempotencyConfig
	logger   *zap.Logger
	observer IdempotencyObserver
}

type IdempotentHandlerOption func(*IdempotentHandler)

func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.config = config }
}

func WithIdempotencyObserver(observer IdempotencyObserver) IdempotentHandlerOption {
	return func(h *IdempotentHandler) { h.observer = observer }
}

func NewIdempotentHandler(
	inner shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		inner:  inner,
		store:  store,
		config: shared.DefaultIdempotencyConfig(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// name labels observations; it is the key prefix without its separator
func (h *IdempotentHandler) name() string {
	if n := strings.TrimRight(h.config.KeyPrefix, ":"); n != "" {
		return n
	}
	return "default"
}

func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.inner.Handle(ctx, event)
	}

	key := h.config.KeyPrefix + event.EventID().String()
	log := h.logger.With(
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
	)

	fresh, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	if err != nil {
		log.Warn("idempotency store unavailable, handling event anyway", zap.Error(err))
	} else if !fresh {
		log.Debug("duplicate event skipped")
		h.observe(IdempotentDuplicate)
		return nil
	}

	if err := h.inner.Handle(ctx, event); err != nil {
		h.observe(IdempotentFailed)
		if fresh {
			if relErr := h.store.Release(ctx, key); relErr != nil {
				log.Warn("failed to release idempotency key", zap.Error(relErr))
			}
		}
		return err
	}
	h.observe(IdempotentHandled)
	return nil
}

func (h *IdempotentHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveIdempotentEvent(h.name(), outcome)
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
