package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DeadLetters inspects and requeues outbox entries that exhausted their
// retries, e.g. confirmation mails that failed while the broker was down.
type DeadLetters struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewDeadLetters creates a DeadLetters over repo
func NewDeadLetters(repo shared.OutboxRepository, logger *zap.Logger) *DeadLetters {
	return &DeadLetters{repo: repo, logger: logger}
}

// List returns one page of dead entries
func (d *DeadLetters) List(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return d.repo.FindDead(ctx, page, pageSize)
}

// Requeue makes one dead entry pending again
func (d *DeadLetters) Requeue(ctx context.Context, id uuid.UUID) error {
	entry, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := entry.Requeue(); err != nil {
		return err
	}
	if err := d.repo.Update(ctx, entry); err != nil {
		return fmt.Errorf("requeue outbox entry %s: %w", id, err)
	}
	d.logger.Info("dead outbox entry requeued",
		zap.String("entry_id", id.String()),
		zap.String("event_type", entry.EventType),
	)
	return nil
}

// RequeueAll requeues every dead entry and returns how many were requeued
func (d *DeadLetters) RequeueAll(ctx context.Context) (int, error) {
	requeued := 0
	for {
		// requeued rows leave the dead set, so the first page is always fresh
		entries, _, err := d.repo.FindDead(ctx, 1, 100)
		if err != nil {
			return requeued, err
		}
		if len(entries) == 0 {
			return requeued, nil
		}
		for _, entry := range entries {
			if err := entry.Requeue(); err != nil {
				return requeued, err
			}
			if err := d.repo.Update(ctx, entry); err != nil {
				return requeued, fmt.Errorf("requeue outbox entry %s: %w", entry.ID, err)
			}
			requeued++
		}
	}
}
