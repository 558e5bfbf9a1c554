package notification

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker rejects dispatches
var ErrCircuitOpen = errors.New("notification circuit open")

// BreakerDispatcher stops calling a failing queue for a while after
// maxFailures consecutive errors. One probe is let through once the open
// timeout has passed.
type BreakerDispatcher struct {
	next Dispatcher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerDispatcher wraps next with a circuit breaker
func NewBreakerDispatcher(next Dispatcher, name string, maxFailures uint32, openTimeout time.Duration, logger *zap.Logger) *BreakerDispatcher {
	if maxFailures == 0 {
		maxFailures = 5
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notification breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerDispatcher{next: next, cb: cb}
}

func (d *BreakerDispatcher) Dispatch(ctx context.Context, job Job) error {
	_, err := d.cb.Execute(func() (struct{}, error) {
		return struct{}{}, d.next.Dispatch(ctx, job)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open"
func (d *BreakerDispatcher) State() string {
	return d.cb.State().String()
}

func (d *BreakerDispatcher) Close() error {
	return d.next.Close()
}
