package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/api/server"
	"github.com/feral-file/ff-events/internal/bootstrap"
	"github.com/feral-file/ff-events/internal/config"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/orchestrator"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "events-api",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Events API")

	stack, err := bootstrap.Open(ctx, bootstrap.Options{
		Storage: cfg.StorageConfig,
		Redis:   cfg.Redis,
		NATS:    cfg.NATS,
		Health:  cfg.Health,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to initialize storage", zap.Error(err))
	}
	defer stack.Close()

	orch := orchestrator.New(orchestrator.Config{
		MinCapacity:            cfg.Orchestrator.MinCapacity,
		MaxCapacity:            cfg.Orchestrator.MaxCapacity,
		MaxBannerSize:          cfg.Content.MaxSize,
		ReadTimeout:            cfg.Orchestrator.ReadTimeout,
		FallbackOnEmpty:        cfg.Orchestrator.FallbackOnEmpty,
		MetadataWorkers:        cfg.Orchestrator.MetadataWorkers,
		MetadataTimeout:        cfg.Orchestrator.MetadataTimeout,
		ContentMaxAttempts:     cfg.Content.MaxAttempts,
		ContentInitialInterval: cfg.Content.InitialInterval,
		ContentMaxInterval:     cfg.Content.MaxInterval,
		ContentAttemptTimeout:  cfg.Content.AttemptTimeout,
	}, stack.Database, stack.Ledger, stack.Content, stack.Monitor, stack.Clock, stack.Codec)

	reconciler, err := stack.Reconciler(cfg.Consistency)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid consistency configuration", zap.Error(err))
	}

	// Probe providers so the read path sees outages without waiting for traffic
	healthSweeper := stack.HealthSweeper(cfg.Health)
	go func() {
		if err := healthSweeper.Start(ctx); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", healthSweeper.Name()))
		}
	}()

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodySize:    cfg.Server.MaxBodySize,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}, orch, stack.Monitor, reconciler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := healthSweeper.Stop(shutdownCtx); err != nil {
		logger.WarnCtx(shutdownCtx, "Health sweeper did not stop cleanly", zap.Error(err))
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
