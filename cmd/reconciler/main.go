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

	"github.com/feral-file/ff-events/internal/bootstrap"
	"github.com/feral-file/ff-events/internal/config"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/reconciler"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.String("once", "", "Run a single job (check or sync) and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "events-reconciler",
		Environment:     cfg.Environment,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Events reconciler")

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

	rec, err := stack.Reconciler(cfg.Consistency)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid consistency configuration", zap.Error(err))
	}

	scheduler, err := reconciler.New(reconciler.Config{
		CheckSchedule: cfg.Consistency.CheckSchedule,
		SyncSchedule:  cfg.Consistency.SyncSchedule,
		JobTimeout:    cfg.Consistency.JobTimeout,
	}, rec)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create scheduler", zap.Error(err))
	}

	if *once != "" {
		runOnce(ctx, scheduler, *once)
		return
	}

	healthSweeper := stack.HealthSweeper(cfg.Health)
	errChan := make(chan error, 1)
	go func() {
		if err := healthSweeper.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	scheduler.Start()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}
	if err := healthSweeper.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.Info("Reconciler stopped")
}

func runOnce(ctx context.Context, scheduler *reconciler.Scheduler, job string) {
	var err error
	switch job {
	case "check":
		err = scheduler.RunCheck(ctx)
	case "sync":
		err = scheduler.RunSync(ctx)
	default:
		err = fmt.Errorf("unknown job %q, expected check or sync", job)
	}

	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("job", job))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
	logger.InfoCtx(ctx, "Job finished", zap.String("job", job))
}
