// Command outbox inspects and requeues dead outbox entries, i.e. events
// whose delivery failed more than event.max_retries times.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		page     int
		pageSize int
		logLevel string
	)
	flag.IntVar(&page, "page", 1, "Page of dead entries to list")
	flag.IntVar(&pageSize, "page-size", 20, "Dead entries per page")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
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

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.ParseGormLevel(logLevel), 0))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := event.NewGormOutboxRepository(db.DB)
	deadLetters := event.NewDeadLetters(repo, log)

	switch args[0] {
	case "stats":
		counts, err := repo.CountByStatus(ctx)
		if err != nil {
			log.Fatal("Failed to count outbox entries", zap.Error(err))
		}
		for status, n := range counts {
			fmt.Printf("%-10s %d\n", status, n)
		}

	case "dead":
		entries, total, err := deadLetters.List(ctx, page, pageSize)
		if err != nil {
			log.Fatal("Failed to list dead entries", zap.Error(err))
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEVENT\tAGGREGATE\tRETRIES\tUPDATED\tLAST ERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				e.ID, e.EventType, e.AggregateID, e.RetryCount, e.UpdatedAt.Format(time.RFC3339), e.LastError)
		}
		_ = w.Flush()
		fmt.Printf("%d dead entries\n", total)

	case "requeue":
		if len(args) < 2 {
			log.Fatal("Usage: outbox requeue <entry-id|all>")
		}
		if args[1] == "all" {
			n, err := deadLetters.RequeueAll(ctx)
			if err != nil {
				log.Fatal("Requeue stopped", zap.Int("requeued", n), zap.Error(err))
			}
			log.Info("Dead entries requeued", zap.Int("count", n))
			return
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			log.Fatal("Invalid entry id", zap.String("id", args[1]), zap.Error(err))
		}
		if err := deadLetters.Requeue(ctx, id); err != nil {
			log.Fatal("Failed to requeue entry", zap.String("id", id.String()), zap.Error(err))
		}

	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: outbox [flags] <command> [args]

Commands:
  stats                 Show outbox entry counts by status
  dead                  List dead entries (-page, -page-size)
  requeue <id>          Make one dead entry pending again
  requeue all           Requeue every dead entry

Flags:`)
	flag.PrintDefaults()
}
