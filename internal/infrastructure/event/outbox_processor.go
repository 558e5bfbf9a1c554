package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Outcome labels reported to the OutboxObserver
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
	OutcomeDead   = "dead"
)

// OutboxProcessorConfig tunes polling and retention of the outbox
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// OutboxObserver receives one call per delivery attempt
type OutboxObserver interface {
	ObserveOutboxDelivery(eventType, outcome string)
}

// OutboxProcessor hands committed outbox entries to the event bus.
// Delivery is at-least-once: an entry is claimed, published, then marked
// sent, and a crash between the last two steps replays it.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	bus        shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger
	observer   OutboxObserver

	cancel context.CancelFunc
	done   chan struct{}
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	bus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:       repo,
		bus:        bus,
		serializer: serializer,
		config:     config,
		logger:     logger.Named("outbox"),
	}
}

func (p *OutboxProcessor) SetObserver(observer OutboxObserver) {
	p.observer = observer
}

// Start polls in a background goroutine until Stop is called or ctx ends
func (p *OutboxProcessor) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Bool("cleanup", p.config.CleanupEnabled),
	)
}

// Stop cancels polling and waits for the current pass to finish
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	select {
	case <-p.done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) run(ctx context.Context) {
	defer close(p.done)

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()

	// a nil channel never fires, so cleanup stays off unless enabled
	var sweep <-chan time.Time
	if p.config.CleanupEnabled {
		t := time.NewTicker(p.config.CleanupInterval)
		defer t.Stop()
		sweep = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			p.ProcessOnce(ctx)
		case <-sweep:
			p.cleanup(ctx)
		}
	}
}

// ProcessOnce delivers one batch of pending entries followed by one batch
// of failed entries whose backoff has elapsed. It returns how many were sent.
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	sent := 0

	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to load pending entries", zap.Error(err))
		return sent
	}
	sent += p.deliverBatch(ctx, pending)

	due, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to load due retries", zap.Error(err))
		return sent
	}
	return sent + p.deliverBatch(ctx, due)
}

func (p *OutboxProcessor) deliverBatch(ctx context.Context, batch []*shared.OutboxEntry) int {
	if len(batch) == 0 {
		return 0
	}
	ids := make([]uuid.UUID, 0, len(batch))
	for _, e := range batch {
		ids = append(ids, e.ID)
	}

	// entries another worker claimed first are simply absent here
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to claim entries", zap.Int("count", len(ids)), zap.Error(err))
		return 0
	}

	sent := 0
	for _, entry := range claimed {
		if p.deliver(ctx, entry) {
			sent++
		}
	}
	return sent
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	log := p.logger.With(
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_id", entry.AggregateID.String()),
	)

	evt, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.bus.Publish(ctx, evt)
	}
	if err != nil {
		p.recordFailure(ctx, log, entry, err)
		return false
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		// the entry stays PROCESSING and will not be picked up again
		log.Error("delivered but could not mark sent", zap.Error(err))
		return false
	}
	p.observe(entry.EventType, OutcomeSent)
	log.Debug("outbox entry delivered")
	return true
}

func (p *OutboxProcessor) recordFailure(ctx context.Context, log *zap.Logger, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())

	outcome := OutcomeFailed
	if entry.IsDead() {
		outcome = OutcomeDead
		log.Warn("outbox entry exhausted its retries",
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(cause),
		)
	} else {
		log.Error("outbox delivery failed",
			zap.Int("retry_count", entry.RetryCount),
			zap.Timep("next_retry_at", entry.NextRetryAt),
			zap.Error(cause),
		)
	}

	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("failed to record delivery failure", zap.Error(err))
	}
	p.observe(entry.EventType, outcome)
}

func (p *OutboxProcessor) observe(eventType, outcome string) {
	if p.observer != nil {
		p.observer.ObserveOutboxDelivery(eventType, outcome)
	}
}

// cleanup drops SENT entries older than the retention window
func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("outbox cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("outbox cleanup", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}
