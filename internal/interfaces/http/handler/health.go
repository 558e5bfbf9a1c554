package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// OutboxCounter reports the outbox backlog
type OutboxCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db        Pinger
	outbox    OutboxCounter
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a new HealthHandler. outbox may be nil.
func NewHealthHandler(db Pinger, outbox OutboxCounter, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		outbox:    outbox,
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// HealthResponse describes the service and its dependencies
type HealthResponse struct {
	Status   string           `json:"status" example:"ok"`
	Version  string           `json:"version" example:"1.0.0"`
	Uptime   string           `json:"uptime" example:"1h30m45s"`
	Database string           `json:"database" example:"ok"`
	Outbox   map[string]int64 `json:"outbox,omitempty"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the database and reports the outbox backlog by status
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Database: "ok",
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		logger.L(ctx).Warn("health check: database unreachable", zap.Error(err))
		resp.Status = "unavailable"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	} else if h.outbox != nil {
		counts, err := h.outbox.CountByStatus(ctx)
		if err != nil {
			logger.L(ctx).Warn("health check: outbox count failed", zap.Error(err))
		} else {
			resp.Outbox = make(map[string]int64, len(counts))
			for s, n := range counts {
				resp.Outbox[string(s)] = n
			}
		}
	}

	c.JSON(status, resp)
}
