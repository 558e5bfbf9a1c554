package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordingDispatcher stores dispatched jobs and returns err
type recordingDispatcher struct {
	mu     sync.Mutex
	jobs   []Job
	err    error
	closed bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return d.err
}

func (d *recordingDispatcher) Close() error {
	d.closed = true
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

type countingObserver struct {
	results map[string]int
}

func (o *countingObserver) ObserveNotification(driver, result string) {
	o.results[driver+"/"+result]++
}

func TestNewConfirmationJob(t *testing.T) {
	orderID := uuid.MustParse("7b1c2a8e-5c4d-4e1f-9a3b-2d6e8f0a1b2c")
	job := NewConfirmationJob("noreply@shopfront.local", orderID, "buyer@mail.local",
		decimal.NewFromInt(250), "Moscow", "Arbat")

	assert.Equal(t, KindOrderConfirmation, job.Kind)
	assert.Equal(t, "Order confirmation", job.Subject)
	assert.Equal(t, "Order #7b1c2a8e-5c4d-4e1f-9a3b-2d6e8f0a1b2c confirmed! Total: 250.00. Delivery address: Moscow, Arbat", job.Body)
	assert.Equal(t, "buyer@mail.local", job.To)
	assert.Equal(t, "noreply@shopfront.local", job.From)
	assert.NotEqual(t, uuid.Nil, job.ID)
}

func TestNotifier_EnqueueOrderConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches and observes success", func(t *testing.T) {
		d := &recordingDispatcher{}
		obs := &countingObserver{results: map[string]int{}}
		n := NewNotifier(d, DriverKafka, "noreply@shopfront.local", zap.NewNop())
		n.SetObserver(obs)

		orderID := uuid.New()
		require.NoError(t, n.EnqueueOrderConfirmation(ctx, orderID, "a@b.c", decimal.RequireFromString("99.5"), "Kazan", "Bauman"))
		require.Len(t, d.jobs, 1)
		assert.Equal(t, orderID, d.jobs[0].OrderID)
		assert.Contains(t, d.jobs[0].Body, "Total: 99.50.")
		assert.Equal(t, 1, obs.results["kafka/ok"])
	})

	t.Run("wraps dispatch errors", func(t *testing.T) {
		d := &recordingDispatcher{err: errors.New("broker unavailable")}
		obs := &countingObserver{results: map[string]int{}}
		n := NewNotifier(d, DriverAMQP, "", zap.NewNop())
		n.SetObserver(obs)

		err := n.EnqueueOrderConfirmation(ctx, uuid.New(), "a@b.c", decimal.Zero, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker unavailable")
		assert.Equal(t, 1, obs.results["amqp/error"])
	})

	t.Run("open breaker is reported as rejected", func(t *testing.T) {
		d := &recordingDispatcher{err: ErrCircuitOpen}
		obs := &countingObserver{results: map[string]int{}}
		n := NewNotifier(d, DriverLog, "", zap.NewNop())
		n.SetObserver(obs)

		err := n.EnqueueOrderConfirmation(ctx, uuid.New(), "a@b.c", decimal.Zero, "", "")
		assert.ErrorIs(t, err, ErrCircuitOpen)
		assert.Equal(t, 1, obs.results["log/rejected"])
	})

	t.Run("close reaches the dispatcher", func(t *testing.T) {
		d := &recordingDispatcher{}
		require.NoError(t, NewNotifier(d, DriverLog, "", zap.NewNop()).Close())
		assert.True(t, d.closed)
	})
}

func TestLogDispatcher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewLogDispatcher(zap.New(core))
	job := NewConfirmationJob("", uuid.New(), "buyer@mail.local", decimal.NewFromInt(10), "Moscow", "Arbat")

	require.NoError(t, d.Dispatch(context.Background(), job))
	entries := logs.FilterMessage("notification job").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, job.Body, fields["body"])
	assert.Equal(t, "buyer@mail.local", fields["to"])
}

func TestNewFromConfig(t *testing.T) {
	t.Run("log driver by default", func(t *testing.T) {
		n, err := NewFromConfig(config.NotificationConfig{From: "x@y.z"}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, DriverLog, n.driver)
		require.NoError(t, n.EnqueueOrderConfirmation(context.Background(), uuid.New(), "a@b.c", decimal.Zero, "c", "s"))
	})

	t.Run("kafka driver does not connect eagerly", func(t *testing.T) {
		n, err := NewFromConfig(config.NotificationConfig{
			Driver:       DriverKafka,
			KafkaBrokers: []string{"127.0.0.1:1"},
			KafkaTopic:   "order-confirmations",
			RateLimit:    10,
		}, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, n.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewFromConfig(config.NotificationConfig{Driver: "smtp"}, zap.NewNop())
		assert.Error(t, err)
	})
}
