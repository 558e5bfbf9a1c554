package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	orderID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "order", "confirm",
		telemetry.AttrOrderID.String(orderID.String()),
	)
	span.SetAttributes(telemetry.AttrQuantity.Int(3), telemetry.AttrAmount.String("250.50"))
	span.End()

	require.Len(t, sr.Ended(), 1)
	ended := sr.Ended()[0]
	assert.Equal(t, "order.confirm", ended.Name())
	assert.Equal(t, trace.SpanKindInternal, ended.SpanKind())
	attrs := attrMap(ended.Attributes())
	assert.Equal(t, orderID.String(), attrs[telemetry.AttrOrderID].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.AttrQuantity].AsInt64())
	assert.Equal(t, "250.50", attrs[telemetry.AttrAmount].AsString())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, failed := telemetry.StartSpan(context.Background(), "order.set_status")
	telemetry.RecordError(failed, errors.New("order is already completed"))
	failed.End()

	_, ok := telemetry.StartSpan(context.Background(), "basket.clear")
	telemetry.RecordError(ok, nil)
	ok.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "order is already completed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	assert.NotPanics(t, func() { telemetry.RecordError(nil, errors.New("x")) })
}

func TestTraceAndSpanIDs(t *testing.T) {
	setupTestTracer(t)

	assert.Empty(t, telemetry.TraceID(context.Background()))
	assert.Empty(t, telemetry.SpanID(context.Background()))

	ctx, parent := telemetry.StartSpan(context.Background(), "parent")
	childCtx, child := telemetry.StartSpan(ctx, "child")
	defer parent.End()
	defer child.End()

	assert.Len(t, telemetry.TraceID(ctx), 32)
	assert.Equal(t, telemetry.TraceID(ctx), telemetry.TraceID(childCtx))
	assert.NotEqual(t, telemetry.SpanID(ctx), telemetry.SpanID(childCtx))
}
