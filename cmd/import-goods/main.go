package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/catalogimport"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// importer is the staff identity recorded for command line imports
var importer = shared.NewCaller(
	uuid.NewSHA1(uuid.NameSpaceURL, []byte("shopfront:import-goods")),
	"import-goods@localhost",
	true,
)

func main() {
	var (
		location string
		logLevel string
	)
	flag.StringVar(&location, "file", "", "Price list to import: a local path or s3://bucket/key")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if location == "" {
		fmt.Fprintln(os.Stderr, "Usage: import-goods -file <path|s3://bucket/key>")
		os.Exit(2)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logLevel
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	list, err := catalogimport.NewLoader(cfg.Import).Load(ctx, location)
	if err != nil {
		log.Fatal("Failed to read price list", zap.String("file", location), zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.ParseGormLevel(logLevel), 0)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	publisher := event.NewOutboxPublisher(event.NewGormOutboxRepository(db.DB), serializer, log)
	publisher.SetMaxRetries(cfg.Event.MaxRetries)

	repo := persistence.NewGormCatalogRepository(db.DB)
	service := catalogapp.NewCatalogService(persistence.NewGormCatalogTransactionScope(db.DB), repo, repo, log)
	service.SetEventPublisher(publisher)

	result, err := service.ImportGoods(ctx, importer, *list)
	if err != nil {
		log.Fatal("Import failed", zap.String("shop", list.Shop), zap.Error(err))
	}

	log.Info("Price list imported",
		zap.String("shop", result.ShopName),
		zap.String("shop_id", result.ShopID.String()),
		zap.Int("categories", result.Categories),
		zap.Int("product_infos", result.ProductInfos),
		zap.Int64("removed", result.Removed),
	)
}
