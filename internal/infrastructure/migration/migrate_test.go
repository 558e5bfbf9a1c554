package migration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopfront/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("shopfront_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrator_UpDown(t *testing.T) {
	db := setupPostgres(t)
	m, err := New(db, migrations.FS, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "second run is a no-op")

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(4), version)

	t.Run("one basket per user", func(t *testing.T) {
		user := uuid.New()
		insert := `INSERT INTO orders (id, user_id, status, created_at, updated_at) VALUES ($1, $2, $3, now(), now())`
		_, err := db.Exec(insert, uuid.New(), user, "basket")
		require.NoError(t, err)
		_, err = db.Exec(insert, uuid.New(), user, "new")
		require.NoError(t, err)
		_, err = db.Exec(insert, uuid.New(), user, "basket")
		assert.Error(t, err)
	})

	t.Run("lines carry a nullable unit price", func(t *testing.T) {
		var nullable string
		err := db.QueryRow(`SELECT is_nullable FROM information_schema.columns
			WHERE table_name = 'ordered_items' AND column_name = 'unit_price'`).Scan(&nullable)
		require.NoError(t, err)
		assert.Equal(t, "YES", nullable)
	})

	require.NoError(t, m.Steps(-1))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
}
