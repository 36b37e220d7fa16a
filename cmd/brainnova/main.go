package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brainnova/brainnova/internal/api"
	"github.com/brainnova/brainnova/internal/chat"
	"github.com/brainnova/brainnova/internal/config"
	"github.com/brainnova/brainnova/internal/events"
	"github.com/brainnova/brainnova/internal/knowledge"
	"github.com/brainnova/brainnova/internal/scoreapi"
	"github.com/brainnova/brainnova/internal/scoring"
	"github.com/brainnova/brainnova/internal/store"
	"github.com/brainnova/brainnova/internal/territory"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	territories := territory.NewTable()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL, territories)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to nats")
		}
	}

	// Secondary score backend (optional; local aggregation covers outages)
	var scoreClient scoreapi.Client
	if cfg.ScoreBackend.URL != "" {
		scoreClient = scoreapi.NewHTTPClient(cfg.ScoreBackend.URL)
	}

	// Aggregation engine
	weights := scoring.ImportanceWeights{
		Alta:  cfg.Index.ImportanceWeights.Alta,
		Media: cfg.Index.ImportanceWeights.Media,
		Baja:  cfg.Index.ImportanceWeights.Baja,
	}
	if err := weights.Validate(); err != nil {
		logger.Error("invalid importance weights", "error", err)
		os.Exit(1)
	}
	engine := scoring.NewEngine(db, scoreClient, territories, weights, logger)

	// Knowledge retrieval + chat
	searcher := knowledge.NewSearcher(db, logger)
	responder := chat.NewResponder(db, engine, searcher, territories, logger)

	// API server
	router := api.NewRouter(db, engine, responder, searcher, eventsClient, territories, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
