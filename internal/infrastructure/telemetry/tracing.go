package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "github.com/shopfront/backend"

// Attribute keys set by the application services, e.g.
//
//	span.SetAttributes(telemetry.AttrOrderID.String(id.String()))
const (
	AttrUserID        = attribute.Key("shop.user_id")
	AttrOrderID       = attribute.Key("shop.order_id")
	AttrOrderStatus   = attribute.Key("shop.order_status")
	AttrProductInfoID = attribute.Key("shop.product_info_id")
	AttrShopID        = attribute.Key("shop.shop_id")
	AttrContactID     = attribute.Key("shop.contact_id")
	AttrQuantity      = attribute.Key("shop.quantity")
	AttrAmount        = attribute.Key("shop.amount")
)

// StartSpan starts an internal span on the global provider; the caller ends it
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartServiceSpan names the span "<service>.<method>", e.g. "basket.add_item"
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+method, attrs...)
}

// RecordError attaches err to span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the hex trace id active in ctx, or ""
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanID returns the hex span id active in ctx, or ""
func SpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}
