package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ideaforge/config"
	"ideaforge/internal/ai"
	"ideaforge/internal/httpapi"
	"ideaforge/internal/notify"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/registry"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Registry: Postgres when configured, in-memory otherwise.
	var reg registry.Registry
	if cfg.DatabaseURL != "" {
		pg, err := registry.NewPostgresRegistry(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pg.Close()
		reg = pg
		logger.Info("registry: postgres")
	} else {
		reg = registry.NewMemoryRegistry()
		logger.Warn("registry: in-memory, ideas will not survive a restart")
	}

	gateway := ai.NewHTTPGateway(ai.GatewayConfig{
		APIKey:      cfg.AnthropicKey,
		BaseURL:     cfg.ModelURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.ModelTimeout,
	}, logger)

	var notifier pipeline.Notifier
	if cfg.SlackEnabled() {
		notifier = notify.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannelID, logger)
		logger.Info("slack notifier enabled", zap.String("channel", cfg.SlackChannelID))
	}

	promRegistry := prometheus.NewRegistry()
	metrics := pipeline.NewMetrics(promRegistry)

	svc := pipeline.NewService(gateway, reg, notifier, logger, metrics)
	api := httpapi.NewServer(svc, logger, promRegistry)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
