package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for query spans.
type DBTracingConfig struct {
	Enabled bool
	DBName  string
	// IncludeVariables puts bound values into db.statement; keep it off in production
	IncludeVariables bool
}

// InstrumentGorm registers the otelgorm plugin so every query becomes a span
// of the request that issued it.
func InstrumentGorm(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}

	logger.Info("database tracing enabled", zap.String("db_name", cfg.DBName))
	return nil
}
