// Package metrics exposes the service's Prometheus scrape endpoint.
//
// OpenTelemetry metrics (see the telemetry package) are pushed to the collector;
// the collectors here are pulled by Prometheus and cover HTTP traffic, outbox
// delivery, duplicate suppression, notification dispatch and database pool
// state.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names, without the namespace prefix.
const (
	MetricHTTPRequestsTotal          = "http_requests_total"
	MetricHTTPRequestDurationSeconds = "http_request_duration_seconds"
	MetricOutboxDeliveriesTotal      = "outbox_deliveries_total"
	MetricNotificationsTotal         = "notifications_total"
	MetricIdempotentEventsTotal      = "idempotent_events_total"
)

// DefaultNamespace prefixes every metric registered by NewRegistry
const DefaultNamespace = "shopfront"

// Registry owns a dedicated prometheus.Registry and the service's collectors.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Registry struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	outboxDeliveries *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	idempotent       *prometheus.CounterVec
}

// NewRegistry creates the collectors under namespace (DefaultNamespace if empty)
// together with the Go runtime and process collectors.
func NewRegistry(namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Registry{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricHTTPRequestsTotal,
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricHTTPRequestDurationSeconds,
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		outboxDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricOutboxDeliveriesTotal,
			Help:      "Outbox delivery attempts by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNotificationsTotal,
			Help:      "Notification dispatch attempts by driver and result.",
		}, []string{"driver", "result"}),
		idempotent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricIdempotentEventsTotal,
			Help:      "Events seen by idempotent handlers by handler and outcome.",
		}, []string{"handler", "outcome"}),
	}

	r.registry.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.outboxDeliveries,
		r.notifications,
		r.idempotent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RegisterDB adds connection pool statistics for db under the given name
func (r *Registry) RegisterDB(db *sql.DB, name string) error {
	return r.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// ObserveHTTPRequest records a finished request. route is the matched route template.
func (r *Registry) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveOutboxDelivery records one outbox delivery attempt
func (r *Registry) ObserveOutboxDelivery(eventType, outcome string) {
	r.outboxDeliveries.WithLabelValues(eventType, outcome).Inc()
}

// ObserveNotification records one notification dispatch attempt
func (r *Registry) ObserveNotification(driver, result string) {
	r.notifications.WithLabelValues(driver, result).Inc()
}

// ObserveIdempotentEvent records whether an idempotent handler ran, skipped or failed an event
func (r *Registry) ObserveIdempotentEvent(handler, outcome string) {
	r.idempotent.WithLabelValues(handler, outcome).Inc()
}

// Gatherer exposes the underlying registry, mostly for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns the scrape handler for this registry
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
