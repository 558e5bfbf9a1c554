package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func exerciseBlacklist(t *testing.T, blacklist auth.TokenBlacklist) {
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))
	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	issued := time.Now().Add(-time.Hour)
	invalidated, err := blacklist.UserRevokedAt(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", time.Hour))
	invalidated, err = blacklist.UserRevokedAt(ctx, "user-1", issued)
	require.NoError(t, err)
	assert.True(t, invalidated)

	invalidated, err = blacklist.UserRevokedAt(ctx, "user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, invalidated)

	invalidated, err = blacklist.UserRevokedAt(ctx, "user-2", issued)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	exerciseBlacklist(t, auth.NewInMemoryTokenBlacklist())
}

func TestInMemoryTokenBlacklist_Expiry(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := blacklist.IsRevoked(ctx, "short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenBlacklist(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	exerciseBlacklist(t, auth.NewRedisTokenBlacklist(client))
}

func TestRedisTokenBlacklist_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	blacklist := auth.NewRedisTokenBlacklist(client)

	_, err := blacklist.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
