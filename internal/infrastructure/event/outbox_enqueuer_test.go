package event

import (
	"context"
	"testing"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	repo := newMockOutboxRepository()
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)
	publisher := NewOutboxPublisher(repo, serializer, zap.NewNop())
	publisher.SetMaxRetries(8)

	event := newConfirmedEvent(t)
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, repo.entries, 1)
	for _, entry := range repo.entries {
		assert.Equal(t, event.EventID(), entry.EventID)
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Equal(t, 8, entry.MaxRetries)
		assert.NotEmpty(t, entry.Payload)
	}
}

func TestOutboxPublisher_DefaultRetries(t *testing.T) {
	repo := newMockOutboxRepository()
	publisher := NewOutboxPublisher(repo, NewEventSerializer(), zap.NewNop())
	publisher.SetMaxRetries(0)

	require.NoError(t, publisher.Publish(context.Background(), newConfirmedEvent(t)))
	require.Len(t, repo.entries, 1)
	for _, entry := range repo.entries {
		assert.Equal(t, shared.DefaultMaxRetries, entry.MaxRetries)
	}
}

func TestOutboxPublisher_NoEvents(t *testing.T) {
	repo := newMockOutboxRepository()
	publisher := NewOutboxPublisher(repo, NewEventSerializer(), zap.NewNop())

	assert.NoError(t, publisher.Publish(context.Background()))
	assert.Empty(t, repo.entries)
}
