package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"newsreader/internal/config"
	"newsreader/internal/domain"
	"newsreader/internal/extract"
	"newsreader/internal/publisher"
	"newsreader/internal/scheduler"
	"newsreader/internal/service"
	"newsreader/internal/source/feed"
	"newsreader/internal/source/scrape"
	"newsreader/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	sourceStore := postgres.NewSourceStore(db)
	articleStore := postgres.NewArticleStore(db)
	txManager := postgres.NewTransactionManager(db)

	if err := seedSources(context.Background(), txManager, sourceStore, cfg.Sources, logger); err != nil {
		logger.Error("failed to seed sources", "error", err)
		os.Exit(1)
	}

	// Publishing is optional; with no broker URL new articles are only stored.
	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	adapters := map[domain.SourceKind]service.Adapter{
		domain.SourceKindFeed:   feed.New(httpClient, logger),
		domain.SourceKindScrape: scrape.New(httpClient, logger),
	}

	extractor := extract.New(httpClient, logger)
	enricher := service.NewEnricher(articleStore, extractor, cfg.Enrichment, logger)
	defer enricher.Close()

	syncService := service.NewSyncService(
		sourceStore,
		articleStore,
		adapters,
		enricher,
		pub,
		logger,
	)

	sched := scheduler.New(syncService, cfg.Sync.Interval, cfg.Sync.PassTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting news reader",
		"interval", cfg.Sync.Interval,
		"enrichment_concurrency", cfg.Enrichment.Concurrency,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// seedSources inserts the configured sources on first start. An already
// populated table is left untouched so user edits survive restarts.
func seedSources(
	ctx context.Context,
	txManager *postgres.TransactionManager,
	sources *postgres.SourceStore,
	seeds []config.SourceConfig,
	logger *slog.Logger,
) error {
	existing, err := sources.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	err = txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, seed := range seeds {
			if err := sources.Insert(txCtx, seed.ToDomain()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("seeded sources", "count", len(seeds))
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
