package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures request tracing
type TracingConfig struct {
	ServiceName string
	// SkipPaths are not traced
	SkipPaths []string
}

// DefaultTracingConfig skips probes and scrapes
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "shopfront-backend",
		SkipPaths:   []string{"/health", "/metrics"},
	}
}

// Tracing starts a server span per request, named after the route template,
// for every path not in SkipPaths.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		base(c)
	}
}

// SpanAttributes copies request_id and user_id onto the active span. It runs
// after Auth so the user is known.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			if id := logger.RequestID(ctx); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if id := logger.UserID(ctx); id != "" {
				span.SetAttributes(attribute.String("user_id", id))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the span as failed for 5xx responses and records the
// error code for 4xx ones.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		case status >= http.StatusBadRequest:
			span.SetAttributes(attribute.Bool("http.client_error", true))
		}
		for _, err := range c.Errors {
			span.RecordError(err.Err)
		}
	}
}
