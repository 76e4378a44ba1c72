package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/config"
	"github.com/mykolaharmash/telemetry-service-demo/internal/handler"
	"github.com/mykolaharmash/telemetry-service-demo/internal/logger"
	"github.com/mykolaharmash/telemetry-service-demo/internal/repository/sqlite"
	"github.com/mykolaharmash/telemetry-service-demo/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting collector service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort))

	ctx := context.Background()

	// Initialize SQLite client
	sqliteClient, err := sqlite.NewClient(ctx, cfg.DatabaseFilePath, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}

	// Initialize repository
	repo := sqlite.NewRepository(sqliteClient, log)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close repository", zap.Error(err))
		}
	}()

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize telemetry service
	telemetryService := service.NewTelemetryService(repo, service.ReportConfig{
		EventKind:     cfg.ReportEventKind,
		ParameterKind: cfg.ReportParameterKind,
		WindowSec:     cfg.ReportWindowSec,
		BucketSec:     cfg.ReportBucketSec,
	}, log)

	// Initialize handler
	h := handler.NewHandler(telemetryService, handler.AuthTokens{
		Ingest: cfg.IngestAuthToken,
		Read:   cfg.ReadAuthToken,
	}, log)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	server := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	go func() {
		log.Info("Collector server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start collector server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down collector gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down server cleanly", zap.Error(err))
	}
}
