package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel is the part of *amqp.Channel the dispatcher publishes through
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpDialer func() (amqpChannel, io.Closer, error)

// AMQPDispatcher publishes jobs as persistent JSON messages to a topic
// exchange. A closed channel is reopened on the next dispatch.
type AMQPDispatcher struct {
	dial       amqpDialer
	exchange   string
	routingKey string
	logger     *zap.Logger

	mu   sync.Mutex
	ch   amqpChannel
	conn io.Closer
}

// NewAMQPDispatcher connects to url and declares a durable topic exchange
func NewAMQPDispatcher(url, exchange, routingKey string, logger *zap.Logger) (*AMQPDispatcher, error) {
	dial := func() (amqpChannel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial amqp: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open amqp channel: %w", err)
		}
		if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
		}
		return ch, conn, nil
	}
	d := newAMQPDispatcher(dial, exchange, routingKey, logger)
	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

func newAMQPDispatcher(dial amqpDialer, exchange, routingKey string, logger *zap.Logger) *AMQPDispatcher {
	return &AMQPDispatcher{
		dial:       dial,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}
}

// connect must be called with mu held or before the dispatcher is shared
func (d *AMQPDispatcher) connect() error {
	ch, conn, err := d.dial()
	if err != nil {
		return err
	}
	d.ch, d.conn = ch, conn
	return nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ch == nil || d.ch.IsClosed() {
		d.logger.Warn("amqp channel closed, reconnecting", zap.String("exchange", d.exchange))
		d.closeLocked()
		if err := d.connect(); err != nil {
			return err
		}
	}

	return d.ch.PublishWithContext(ctx, d.exchange, d.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID.String(),
		Timestamp:    job.CreatedAt,
		Type:         job.Kind,
		Body:         body,
	})
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeLocked()
}

func (d *AMQPDispatcher) closeLocked() error {
	var err error
	if d.ch != nil {
		err = d.ch.Close()
		d.ch = nil
	}
	if d.conn != nil {
		if cerr := d.conn.Close(); err == nil {
			err = cerr
		}
		d.conn = nil
	}
	return err
}
