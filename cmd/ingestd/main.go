package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/quakewatch/quake-data-etl/internal/adapter/feed"
	httpadapter "github.com/quakewatch/quake-data-etl/internal/adapter/http"
	kafkaadapter "github.com/quakewatch/quake-data-etl/internal/adapter/kafka"
	"github.com/quakewatch/quake-data-etl/internal/adapter/postgres"
	"github.com/quakewatch/quake-data-etl/internal/config"
	"github.com/quakewatch/quake-data-etl/internal/observability"
	"github.com/quakewatch/quake-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Announcer is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var announcer pipeline.Announcer
	var announcerClose func() error
	if cfg.KafkaEnabled {
		a := kafkaadapter.NewAnnouncer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		announcer = a
		announcerClose = a.Close
		logger.Info("kafka announce enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka announce disabled")
	}

	sources := make([]pipeline.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, pipeline.Source{Variant: src.Variant, URL: src.URL})
		logger.Info("source configured", "variant", src.Variant.Name, "url", src.URL)
	}

	fetcher := feed.NewClient(cfg.FetchTimeout, logger)
	p := pipeline.New(sources, fetcher, store, announcer, logger, metrics)
	scheduler := pipeline.NewScheduler(p, cfg.FetchInterval, clockwork.NewRealClock(), logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, logger,
		httpadapter.Check{Name: "pipeline", Checker: p},
		httpadapter.Check{Name: "postgres", Checker: httpadapter.ReadinessFunc(store.Ready)},
	)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the ingestion schedule: one run now, then every interval.
	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if announcerClose != nil {
		if err := announcerClose(); err != nil {
			logger.Error("kafka announcer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
