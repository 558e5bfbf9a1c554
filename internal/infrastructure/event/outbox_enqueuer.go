package event

import (
	"context"
	"errors"

	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxPublisher is the EventPublisher services use. Events are written to
// the outbox and handed to the bus later by the OutboxProcessor.
type OutboxPublisher struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
	logger     *zap.Logger
	maxRetries int
}

// NewOutboxPublisher creates a new outbox-backed publisher
func NewOutboxPublisher(repo shared.OutboxRepository, serializer *EventSerializer, logger *zap.Logger) *OutboxPublisher {
	return &OutboxPublisher{
		repo:       repo,
		serializer: serializer,
		logger:     logger,
		maxRetries: shared.DefaultMaxRetries,
	}
}

// SetMaxRetries sets the delivery attempts granted to new entries
func (p *OutboxPublisher) SetMaxRetries(n int) {
	if n > 0 {
		p.maxRetries = n
	}
}

// Publish serializes the events and stores them as pending outbox entries
func (p *OutboxPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	var errs []error
	for _, e := range events {
		payload, err := p.serializer.Serialize(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entry := shared.NewOutboxEntry(e, payload)
		entry.MaxRetries = p.maxRetries
		entries = append(entries, entry)
	}

	if err := p.repo.Save(ctx, entries...); err != nil {
		errs = append(errs, err)
	} else {
		for _, entry := range entries {
			p.logger.Debug("event stored in outbox",
				zap.String("event_id", entry.EventID.String()),
				zap.String("event_type", entry.EventType),
			)
		}
	}
	return errors.Join(errs...)
}

var _ shared.EventPublisher = (*OutboxPublisher)(nil)
