package config

import "time"

// defaults holds every recognised key. A key missing here cannot be set
// from the environment, since viper only maps env vars onto known keys.
var defaults = map[string]any{
	"app.name": "shopfront-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "shopfront",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  300,
	"database.conn_max_idle_time": 60,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "shopfront",

	"log.level":  "info",
	"log.format": "json",
	"log.output": "stdout",

	"event.processor_enabled": true,
	"event.batch_size":        100,
	"event.poll_interval":     time.Second,
	"event.max_retries":       5,
	"event.cleanup_enabled":   true,
	"event.cleanup_retention": 7 * 24 * time.Hour,
	"event.idempotency_ttl":   24 * time.Hour,

	"http.read_timeout":       30 * time.Second,
	"http.write_timeout":      30 * time.Second,
	"http.idle_timeout":       120 * time.Second,
	"http.shutdown_timeout":   15 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      int64(10 << 20),
	"http.rate_limit_enabled": true,
	"http.rate_limit_rps":     20.0,
	"http.rate_limit_burst":   40,
	"http.cors_allow_origins": []string{"*"},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"http.cors_allow_headers": []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},

	"order.check_shop_on_confirm": true,

	"cache.listing_ttl": time.Minute,

	"notification.driver":               "log",
	"notification.from":                 "noreply@shopfront.local",
	"notification.amqp_url":             "",
	"notification.amqp_exchange":        "notifications",
	"notification.amqp_routing_key":     "order.confirmation",
	"notification.kafka_brokers":        []string{},
	"notification.kafka_topic":          "order-confirmations",
	"notification.breaker_max_failures": 5,
	"notification.breaker_open_timeout": 30 * time.Second,
	"notification.rate_limit":           0.0,

	"import.s3_region":     "us-east-1",
	"import.s3_endpoint":   "",
	"import.s3_access_key": "",
	"import.s3_secret_key": "",

	"swagger.enabled": false,

	"metrics.enabled": true,
	"metrics.path":    "/metrics",

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "",
	"telemetry.insecure":           true,
	"telemetry.metrics_enabled":    false,
	"telemetry.metrics_interval":   time.Minute,
	"telemetry.logs_enabled":       false,
	"telemetry.logs_level":         "info",
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,
	"telemetry.profiling_enabled":  false,
	"telemetry.profiling_server":   "",
	"telemetry.profiling_user":     "",
	"telemetry.profiling_password": "",
	"telemetry.profile_types":      []string{},
}
