package testutil

import (
	"context"
	"sync"

	"github.com/shopfront/backend/internal/infrastructure/notification"
)

// RecordingDispatcher is a notification.Dispatcher that keeps every job.
// Fail makes the next n dispatches return err.
type RecordingDispatcher struct {
	mu       sync.Mutex
	jobs     []notification.Job
	failures int
	err      error
}

// NewRecordingDispatcher creates an empty RecordingDispatcher
func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

// Dispatch records job
func (d *RecordingDispatcher) Dispatch(_ context.Context, job notification.Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failures > 0 {
		d.failures--
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

// Close implements notification.Dispatcher
func (d *RecordingDispatcher) Close() error { return nil }

// Fail makes the next n dispatches fail with err
func (d *RecordingDispatcher) Fail(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = n
	d.err = err
}

// Jobs returns a copy of the recorded jobs
func (d *RecordingDispatcher) Jobs() []notification.Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notification.Job, len(d.jobs))
	copy(out, d.jobs)
	return out
}

var _ notification.Dispatcher = (*RecordingDispatcher)(nil)
