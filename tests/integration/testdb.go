// Package integration runs the shop services against a real PostgreSQL
// started with testcontainers and migrated with the embedded schema.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/migration"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestDB is a migrated shop database in a throwaway container, opened
// through the same persistence.Database the server uses.
type TestDB struct {
	*persistence.Database
	container *tcpostgres.PostgresContainer
}

// NewTestDB starts PostgreSQL, applies every migration and registers
// cleanup with t. Set TEST_DB_DEBUG to log SQL. Skipped under -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("shop"),
		tcpostgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	level := "silent"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = "info"
	}
	db, err := persistence.NewDatabaseWithLogger(&config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "shop",
		Password:        "shop",
		DBName:          "shop_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 300,
	}, logger.NewGormLogger(zap.NewNop(), logger.ParseGormLevel(level), 0))
	require.NoError(t, err, "connect to postgres container")
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.SQL()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "apply migrations")

	return &TestDB{Database: db, container: container}
}
