package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogDispatcher writes jobs to the log instead of a queue
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, job Job) error {
	d.logger.Info("notification job",
		zap.String("job_id", job.ID.String()),
		zap.String("kind", job.Kind),
		zap.String("order_id", job.OrderID.String()),
		zap.String("to", job.To),
		zap.String("subject", job.Subject),
		zap.String("body", job.Body),
	)
	return nil
}

func (d *LogDispatcher) Close() error { return nil }
