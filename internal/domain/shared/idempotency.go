package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event ids a handler has consumed
type IdempotencyStore interface {
	// MarkProcessed claims eventID for ttl. It returns false when the id was
	// already claimed, which the caller treats as a duplicate delivery.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Release forgets a mark so a failed delivery can be retried
	Release(ctx context.Context, eventID string) error

	Close() error
}

// IdempotencyConfig configures one idempotent handler
type IdempotencyConfig struct {
	// TTL should outlast the outbox retry window
	TTL     time.Duration
	Enabled bool

	// KeyPrefix namespaces the stored keys, usually per handler
	KeyPrefix string
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
