package notification

import (
	"fmt"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Driver names
const (
	DriverLog   = "log"
	DriverAMQP  = "amqp"
	DriverKafka = "kafka"
)

// NewFromConfig builds the configured dispatcher chain: the driver, an
// optional rate limit, and a circuit breaker on the outside.
func NewFromConfig(cfg config.NotificationConfig, logger *zap.Logger) (*Notifier, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverLog
	}
	logger = logger.With(zap.String("component", "notification"), zap.String("driver", cfg.Driver))

	var (
		base Dispatcher
		err  error
	)
	switch cfg.Driver {
	case DriverLog:
		base = NewLogDispatcher(logger)
	case DriverAMQP:
		base, err = NewAMQPDispatcher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	case DriverKafka:
		base = NewKafkaDispatcher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		err = fmt.Errorf("unknown notification driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	d := base
	if cfg.RateLimit > 0 {
		d = NewRateLimitedDispatcher(d, cfg.RateLimit)
	}
	d = NewBreakerDispatcher(d, "notification-"+cfg.Driver, cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout, logger)

	logger.Info("notification dispatcher ready")
	return NewNotifier(d, cfg.Driver, cfg.From, logger), nil
}
