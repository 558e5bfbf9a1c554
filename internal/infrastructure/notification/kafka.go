package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the dispatcher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher writes jobs to a topic keyed by order ID, so the jobs of
// one order stay in one partition
type KafkaDispatcher struct {
	writer messageWriter
}

// NewKafkaDispatcher creates a dispatcher writing to topic on brokers
func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, job Job) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.OrderID.String()),
		Value: value,
		Time:  job.CreatedAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(job.Kind)},
			{Key: "job_id", Value: []byte(job.ID.String())},
		},
	})
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
