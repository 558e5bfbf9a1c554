package notification

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedDispatcher caps the dispatch rate to protect the queue
type RateLimitedDispatcher struct {
	next    Dispatcher
	limiter *rate.Limiter
}

// NewRateLimitedDispatcher allows perSecond dispatches with a burst of the same size
func NewRateLimitedDispatcher(next Dispatcher, perSecond float64) *RateLimitedDispatcher {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedDispatcher{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Dispatch waits for a token, or fails when ctx ends first
func (d *RateLimitedDispatcher) Dispatch(ctx context.Context, job Job) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	return d.next.Dispatch(ctx, job)
}

func (d *RateLimitedDispatcher) Close() error {
	return d.next.Close()
}
