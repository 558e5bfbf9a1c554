package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics collector is built without a meter
var ErrMeterNil = errors.New("meter cannot be nil")

// Metric attribute keys
var (
	AttrStatusFrom = attribute.Key("status_from")
	AttrStatusTo   = attribute.Key("status_to")
)

// OrderMetrics counts basket and order activity.
type OrderMetrics struct {
	basketItemsAdded metric.Int64Counter
	basketUnitsAdded metric.Int64Counter
	ordersConfirmed  metric.Int64Counter
	orderValue       metric.Float64Histogram
	statusChanges    metric.Int64Counter
}

// NewOrderMetrics registers the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	if meter == nil {
		return nil, fmt.Errorf("NewOrderMetrics: %w", ErrMeterNil)
	}

	m := &OrderMetrics{}
	var err error
	if m.basketItemsAdded, err = meter.Int64Counter("shop_basket_items_added_total",
		metric.WithDescription("Basket additions"),
		metric.WithUnit("{additions}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	if m.basketUnitsAdded, err = meter.Int64Counter("shop_basket_units_added_total",
		metric.WithDescription("Units added to baskets"),
		metric.WithUnit("{units}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	if m.ordersConfirmed, err = meter.Int64Counter("shop_orders_confirmed_total",
		metric.WithDescription("Confirmed orders"),
		metric.WithUnit("{orders}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	if m.orderValue, err = meter.Float64Histogram("shop_order_value",
		metric.WithDescription("Frozen total of confirmed orders"),
		metric.WithExplicitBucketBoundaries(10, 50, 100, 500, 1000, 5000, 10000, 50000),
	); err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}
	if m.statusChanges, err = meter.Int64Counter("shop_order_status_changes_total",
		metric.WithDescription("Order status transitions"),
		metric.WithUnit("{transitions}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	return m, nil
}

// RecordBasketItemAdded counts one basket addition of quantity units
func (m *OrderMetrics) RecordBasketItemAdded(ctx context.Context, quantity int) {
	m.basketItemsAdded.Add(ctx, 1)
	m.basketUnitsAdded.Add(ctx, int64(quantity))
}

// RecordOrderConfirmed counts a confirmation and its total
func (m *OrderMetrics) RecordOrderConfirmed(ctx context.Context, total decimal.Decimal) {
	m.ordersConfirmed.Add(ctx, 1)
	m.orderValue.Record(ctx, total.InexactFloat64())
}

// RecordStatusChanged counts a status transition
func (m *OrderMetrics) RecordStatusChanged(ctx context.Context, from, to string) {
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(AttrStatusFrom.String(from), AttrStatusTo.String(to)))
}
