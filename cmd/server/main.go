package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	contactapp "github.com/shopfront/backend/internal/application/contact"
	orderapp "github.com/shopfront/backend/internal/application/order"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/metrics"
	"github.com/shopfront/backend/internal/infrastructure/migration"
	"github.com/shopfront/backend/internal/infrastructure/notification"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"github.com/shopfront/backend/migrations"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/shopfront/backend/docs"
)

//	@title			Shopfront API
//	@version		1.0
//	@description	Marketplace order backend: catalog, baskets, orders and delivery contacts.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry
	otelProviders, err := telemetry.Start(ctx, telemetry.Config{
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		TracesEnabled:     cfg.Telemetry.Enabled,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}
	defer shutdown(log, "telemetry providers", otelProviders.Shutdown)
	if cfg.Telemetry.LogsEnabled {
		level, err := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
		if err != nil {
			level = zapcore.InfoLevel
		}
		log = otelProviders.BridgeLogs(log, level)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingPassword,
		ProfileTypes:      cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		otelProviders.LinkProfiles()
	}

	log.Info("Starting shopfront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.ParseGormLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentGorm(db.DB, telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:           cfg.Database.DBName,
		IncludeVariables: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Redis-backed stores, in memory when Redis is off
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	if err := cacheFactory.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if client := cacheFactory.Client(); client != nil {
		blacklist = auth.NewRedisTokenBlacklist(client)
	}

	// Prometheus
	registry := metrics.NewRegistry(metrics.DefaultNamespace)
	if err := registry.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
		log.Warn("Failed to register database stats collector", zap.Error(err))
	}

	orderMetrics, err := telemetry.NewOrderMetrics(otelProviders.Meter("shopfront/order"))
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Events go to the outbox; the processor hands them to the bus
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(outboxRepo, eventSerializer, log)
	outboxPublisher.SetMaxRetries(cfg.Event.MaxRetries)

	// Application services
	basketService := orderapp.NewBasketService(persistence.NewGormTransactionScope(db.DB), orderRepo, catalogRepo, log)
	basketService.SetOrderMetrics(orderMetrics)

	orderService := orderapp.NewOrderService(
		persistence.NewGormTransactionScope(db.DB), orderRepo, catalogRepo,
		orderapp.Config{CheckShopOnConfirm: cfg.Order.CheckShopOnConfirm}, log,
	)
	orderService.SetEventPublisher(outboxPublisher)
	orderService.SetOrderMetrics(orderMetrics)

	catalogService := catalogapp.NewCatalogService(persistence.NewGormCatalogTransactionScope(db.DB), catalogRepo, catalogRepo, log)
	catalogService.SetEventPublisher(outboxPublisher)
	catalogService.SetListingCache(cacheFactory.ListingCache(), cfg.Cache.ListingTTL)

	contactService := contactapp.NewContactService(contactRepo, log)

	// Notification pipeline
	notifier, err := notification.NewFromConfig(cfg.Notification, log)
	if err != nil {
		log.Fatal("Failed to create notification dispatcher", zap.Error(err))
	}
	notifier.SetObserver(registry)
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Error("Error closing notification dispatcher", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)
	confirmationHandler := event.NewIdempotentHandler(
		orderapp.NewOrderConfirmationHandler(notifier, log),
		cacheFactory.IdempotencyStore(),
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:       cfg.Event.IdempotencyTTL,
			Enabled:   true,
			KeyPrefix: "order-confirmation:",
		}),
		event.WithIdempotencyObserver(registry),
	)
	eventBus.Subscribe(confirmationHandler)
	log.Info("Event handlers registered", zap.Strings("event_types", eventBus.SubscribedTypes()))

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		outboxProcessor.SetObserver(registry)
		outboxProcessor.Start(ctx)
		defer shutdown(log, "outbox processor", outboxProcessor.Stop)
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RPS:   cfg.HTTP.RateLimitRPS,
			Burst: cfg.HTTP.RateLimitBurst,
		})
		defer rateLimiter.Stop()
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	opts := router.Options{
		Logger: log,
		HTTP:   cfg.HTTP,
		Auth: middleware.AuthConfig{
			JWTService: auth.NewJWTService(cfg.JWT),
			Blacklist:  blacklist,
			Logger:     log,
		},
		RateLimiter: rateLimiter,
		Profiling:   profiler.IsEnabled(),
		Swagger:     cfg.Swagger.Enabled || cfg.IsDevelopment(),
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = registry
		opts.MetricsPath = cfg.Metrics.Path
	}
	if otelProviders.TracingEnabled() {
		opts.TracingService = cfg.Telemetry.ServiceName
	}

	engine := router.New(opts, router.Handlers{
		Basket:  handler.NewBasketHandler(basketService),
		Order:   handler.NewOrderHandler(orderService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Contact: handler.NewContactHandler(contactService),
		Health:  handler.NewHealthHandler(db, outboxRepo, telemetry.ServiceVersion),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdown stops a component with a bounded timeout, logging any failure
func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
