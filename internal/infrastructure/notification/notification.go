// Package notification delivers customer notifications to the queue consumed
// by the mailer. Jobs are serialized as JSON and sent through a Dispatcher
// chosen by configuration: a log sink for development, a RabbitMQ topic
// exchange, or a Kafka topic.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// KindOrderConfirmation is the job kind of an order confirmation email
const KindOrderConfirmation = "order_confirmation"

// Job is one notification handed to the queue
type Job struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	OrderID   uuid.UUID `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewConfirmationJob renders the confirmation email for a confirmed order
func NewConfirmationJob(from string, orderID uuid.UUID, email string, total decimal.Decimal, city, street string) Job {
	return Job{
		ID:        uuid.New(),
		Kind:      KindOrderConfirmation,
		OrderID:   orderID,
		From:      from,
		To:        email,
		Subject:   "Order confirmation",
		Body:      fmt.Sprintf("Order #%s confirmed! Total: %s. Delivery address: %s, %s", orderID, total.StringFixed(2), city, street),
		CreatedAt: time.Now().UTC(),
	}
}

// Dispatcher sends jobs to a queue
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
	Close() error
}

// Observer receives the outcome of each dispatch
type Observer interface {
	ObserveNotification(driver, result string)
}

// Notifier turns application requests into jobs and dispatches them
type Notifier struct {
	dispatcher Dispatcher
	driver     string
	from       string
	observer   Observer
	logger     *zap.Logger
}

// NewNotifier creates a Notifier sending through dispatcher. driver labels
// metrics and logs.
func NewNotifier(dispatcher Dispatcher, driver, from string, logger *zap.Logger) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		driver:     driver,
		from:       from,
		logger:     logger,
	}
}

// SetObserver sets the dispatch metrics observer
func (n *Notifier) SetObserver(o Observer) {
	n.observer = o
}

// EnqueueOrderConfirmation queues the confirmation email of an order
func (n *Notifier) EnqueueOrderConfirmation(ctx context.Context, orderID uuid.UUID, email string, total decimal.Decimal, city, street string) error {
	job := NewConfirmationJob(n.from, orderID, email, total, city, street)
	err := n.dispatcher.Dispatch(ctx, job)
	n.observe(err)
	if err != nil {
		return fmt.Errorf("dispatch %s job for order %s: %w", job.Kind, orderID, err)
	}
	n.logger.Debug("notification dispatched",
		zap.String("driver", n.driver),
		zap.String("job_id", job.ID.String()),
		zap.String("order_id", orderID.String()),
	)
	return nil
}

// Close releases the dispatcher's connections
func (n *Notifier) Close() error {
	return n.dispatcher.Close()
}

func (n *Notifier) observe(err error) {
	if n.observer == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrCircuitOpen):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	n.observer.ObserveNotification(n.driver, result)
}
