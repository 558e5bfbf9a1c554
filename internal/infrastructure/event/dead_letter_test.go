package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func deadEntry(t *testing.T, repo *mockOutboxRepository) *shared.OutboxEntry {
	t.Helper()
	entry := shared.NewOutboxEntry(newTestEvent("TestEvent", uuid.New()), []byte(`{}`))
	entry.MaxRetries = 1
	entry.MarkFailed("broker down")
	require.True(t, entry.IsDead())
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestDeadLetters_Requeue(t *testing.T) {
	ctx := context.Background()
	repo := newMockOutboxRepository()
	dl := NewDeadLetters(repo, zap.NewNop())
	entry := deadEntry(t, repo)

	dead, total, err := dl.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entry.ID, dead[0].ID)

	require.NoError(t, dl.Requeue(ctx, entry.ID))
	assert.Equal(t, shared.OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)

	assert.ErrorIs(t, dl.Requeue(ctx, entry.ID), shared.ErrInvalidState)
	assert.ErrorIs(t, dl.Requeue(ctx, uuid.New()), shared.ErrNotFound)
}

func TestDeadLetters_RequeueAll(t *testing.T) {
	ctx := context.Background()
	repo := newMockOutboxRepository()
	for i := 0; i < 3; i++ {
		deadEntry(t, repo)
	}

	n, err := NewDeadLetters(repo, zap.NewNop()).RequeueAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[shared.OutboxStatusPending])
	assert.Zero(t, counts[shared.OutboxStatusDead])
}

func TestDeadLetters_RequeueAllStopsOnUpdateError(t *testing.T) {
	repo := newMockOutboxRepository()
	deadEntry(t, repo)
	repo.updateFn = func(context.Context, *shared.OutboxEntry) error { return errors.New("db gone") }

	n, err := NewDeadLetters(repo, zap.NewNop()).RequeueAll(context.Background())
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "db gone")
}
