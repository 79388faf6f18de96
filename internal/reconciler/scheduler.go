package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
)

const (
	DEFAULT_CHECK_SCHEDULE = "*/15 * * * *"
	DEFAULT_JOB_TIMEOUT    = 10 * time.Minute
)

// Config holds the reconciliation schedules. An empty schedule disables the job.
type Config struct {
	CheckSchedule string
	SyncSchedule  string
	JobTimeout    time.Duration
}

// Scheduler runs the consistency check and data sync on cron schedules.
// A run still in progress when its next tick fires is skipped.
type Scheduler struct {
	cfg        Config
	reconciler health.Reconciler
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a scheduler and registers its jobs
func New(cfg Config, reconciler health.Reconciler) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DEFAULT_JOB_TIMEOUT
	}

	cl := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:        cfg,
		reconciler: reconciler,
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		ctx:        ctx,
		cancel:     cancel,
	}

	if cfg.CheckSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.CheckSchedule, func() { _ = s.RunCheck(s.ctx) }); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid consistency check schedule %q: %w", cfg.CheckSchedule, err)
		}
	}
	if cfg.SyncSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.SyncSchedule, func() { _ = s.RunSync(s.ctx) }); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid data sync schedule %q: %w", cfg.SyncSchedule, err)
		}
	}

	return s, nil
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start begins running the scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Reconciliation scheduler started",
		zap.Int("jobs", s.Jobs()),
		zap.String("check_schedule", s.cfg.CheckSchedule),
		zap.String("sync_schedule", s.cfg.SyncSchedule))
}

// Stop cancels running jobs and waits for them to return or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		logger.Info("Reconciliation scheduler stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("Reconciliation scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// RunCheck runs one consistency check under the job timeout
func (s *Scheduler) RunCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	if _, err := s.reconciler.RunConsistencyCheck(ctx); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("scheduled consistency check failed: %w", err))
		return err
	}
	return nil
}

// RunSync runs one data sync, repairing whatever a fresh check finds
func (s *Scheduler) RunSync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	if _, err := s.reconciler.RunDataSync(ctx, nil); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("scheduled data sync failed: %w", err))
		return err
	}
	return nil
}

// cronLogger routes cron's own messages through the service logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error(fmt.Errorf("%s: %w", msg, err), zap.Any("details", keysAndValues))
}
