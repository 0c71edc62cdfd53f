package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"seoAnalyzerGO/internal/analyzer"
	"seoAnalyzerGO/internal/api"
	"seoAnalyzerGO/internal/cache"
	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/metrics"
	"seoAnalyzerGO/internal/repository"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		setupLogger(slog.LevelInfo).Error("Failed to create config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel)
	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var svcMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		svcMetrics = metrics.New("seo_analyzer")
	}
	opts := []analyzer.Option{analyzer.WithMetrics(svcMetrics)}

	svc := api.Services{Metrics: svcMetrics}

	// Report history is optional
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := repository.NewMongoRepository(ctx, cfg.MongoDB)
		if err != nil {
			logger.Error("Failed to create MongoDB repository", "error", err)
			os.Exit(1)
		}
		defer mongoRepo.Close(context.Background())

		svc.Repo = mongoRepo
		opts = append(opts, analyzer.WithRecorder(mongoRepo))
		logger.Info("Report history enabled", "database", cfg.MongoDB.Database)
	}

	if cfg.Analyzer.CacheBackend == config.CacheRedis {
		store, err := cache.NewRedisStore(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("Failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer store.Close()

		opts = append(opts, analyzer.WithStore(store))
	}

	svc.Analyzer = analyzer.New(cfg.Analyzer, logger, opts...)
	svc.Batch = analyzer.NewBatchAnalyzer(svc.Analyzer, cfg.Batch, logger)

	server := api.NewServer(cfg, svc, logger)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			shutdown <- syscall.SIGTERM
		}
	}()

	logger.Info("Server started", "port", cfg.Server.Port)

	<-shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited properly")
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
