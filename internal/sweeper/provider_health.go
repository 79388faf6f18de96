package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

const (
	DEFAULT_PROBE_INTERVAL = 30 * time.Second
	DEFAULT_PROBE_TIMEOUT  = 5 * time.Second
)

// ProviderHealthSweeperConfig holds configuration for the provider health sweeper
type ProviderHealthSweeperConfig struct {
	Interval time.Duration // Time to sleep between probe cycles
	Timeout  time.Duration // Upper bound of one provider probe
}

// providerHealthSweeper probes every provider periodically so the monitor sees
// outages even when no request traffic reaches a provider
type providerHealthSweeper struct {
	config    *ProviderHealthSweeperConfig
	providers []providers.Provider
	monitor   health.Monitor
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewProviderHealthSweeper creates a new provider health sweeper
func NewProviderHealthSweeper(
	config *ProviderHealthSweeperConfig,
	probed []providers.Provider,
	monitor health.Monitor,
	clock adapter.Clock,
) Sweeper {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_PROBE_INTERVAL
	}
	if config.Timeout <= 0 {
		config.Timeout = DEFAULT_PROBE_TIMEOUT
	}

	return &providerHealthSweeper{
		config:    config,
		providers: probed,
		monitor:   monitor,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *providerHealthSweeper) Name() string {
	return "provider-health-sweeper"
}

// Start runs probe cycles until the context is canceled or Stop is called
func (s *providerHealthSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting provider health sweeper",
		zap.Int("providers", len(s.providers)),
		zap.Duration("interval", s.config.Interval),
	)

	for {
		s.probe(ctx)

		if !s.sleep(ctx, s.config.Interval) {
			logger.InfoCtx(ctx, "Provider health sweeper stopped")
			return nil
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *providerHealthSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping provider health sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Provider health sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// probe runs HealthCheck on every provider concurrently and feeds the results to the monitor
func (s *providerHealthSweeper) probe(ctx context.Context) {
	pool := pond.NewPool(len(s.providers)+1, pond.WithContext(ctx))
	for _, p := range s.providers {
		pool.Submit(func() {
			probeCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
			defer cancel()

			result := p.HealthCheck(probeCtx)
			s.monitor.UpdateMetrics(ctx, p.Name(), result.OK, result.Latency, result.Error)
			if !result.OK {
				logger.WarnCtx(ctx, "Provider probe failed",
					zap.String("provider", string(p.Name())),
					zap.Duration("latency", result.Latency),
					zap.Error(result.Error))
			}
		})
	}
	pool.StopAndWait()
}

// sleep sleeps for the given duration but can be interrupted by context cancellation or Stop
// Returns true if sleep completed normally
func (s *providerHealthSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
