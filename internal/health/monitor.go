package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
)

const (
	DEFAULT_DEGRADED_AFTER = 3
	DEFAULT_DOWN_AFTER     = 3
	DEFAULT_RECOVER_AFTER  = 3
	DEFAULT_LATENCY_WINDOW = 100
)

// Config holds the hysteresis thresholds of the monitor
type Config struct {
	DegradedAfter int // consecutive failures before healthy -> degraded
	DownAfter     int // further consecutive failures before degraded -> down
	RecoverAfter  int // consecutive successes before degraded|down -> healthy
	LatencyWindow int // latency samples kept per provider
}

// ProviderReport is the per-provider part of the system health
type ProviderReport struct {
	Status      domain.HealthStatus `json:"status"`
	Latency     time.Duration       `json:"latency"`
	LastChecked time.Time           `json:"last_checked"`
	LastError   string              `json:"last_error,omitempty"`
}

// SystemHealth aggregates provider health; Overall is the worst provider status
type SystemHealth struct {
	Overall   domain.HealthStatus                    `json:"overall"`
	Providers map[domain.ProviderName]ProviderReport `json:"providers"`
	CheckedAt time.Time                              `json:"checked_at"`
}

// ProviderMetrics holds the latency and failure statistics of one provider
type ProviderMetrics struct {
	Status         domain.HealthStatus `json:"status"`
	AverageLatency time.Duration       `json:"average_latency"`
	P95Latency     time.Duration       `json:"p95_latency"`
	MaxLatency     time.Duration       `json:"max_latency"`
	TotalCalls     int64               `json:"total_calls"`
	TotalFailures  int64               `json:"total_failures"`
	FailureRate    float64             `json:"failure_rate"`
}

// PerformanceMetrics is returned by GetPerformanceMetrics
type PerformanceMetrics struct {
	StartedAt time.Time                               `json:"started_at"`
	Uptime    time.Duration                           `json:"uptime"`
	Providers map[domain.ProviderName]ProviderMetrics `json:"providers"`
}

// Monitor tracks the rolling health of every provider
//
//go:generate mockgen -source=monitor.go -destination=../mocks/monitor.go -package=mocks -mock_names=Monitor=MockMonitor
type Monitor interface {
	// UpdateMetrics records the outcome of one provider call and applies the status hysteresis
	UpdateMetrics(ctx context.Context, provider domain.ProviderName, ok bool, latency time.Duration, err error)
	// ProviderStatus returns the last known status of a provider without I/O
	ProviderStatus(provider domain.ProviderName) domain.HealthStatus
	// GetSystemHealth returns the overall and per-provider status
	GetSystemHealth(ctx context.Context) SystemHealth
	// GetPerformanceMetrics returns latency percentiles, call counters and uptime
	GetPerformanceMetrics(ctx context.Context) PerformanceMetrics
}

type monitor struct {
	cfg       Config
	store     StateStore
	clock     adapter.Clock
	startedAt time.Time

	mu     sync.Mutex
	states map[domain.ProviderName]domain.ProviderHealth
}

// NewMonitor creates a monitor. A nil store keeps the state in process memory.
func NewMonitor(cfg Config, store StateStore, clock adapter.Clock) Monitor {
	if cfg.DegradedAfter <= 0 {
		cfg.DegradedAfter = DEFAULT_DEGRADED_AFTER
	}
	if cfg.DownAfter <= 0 {
		cfg.DownAfter = DEFAULT_DOWN_AFTER
	}
	if cfg.RecoverAfter <= 0 {
		cfg.RecoverAfter = DEFAULT_RECOVER_AFTER
	}
	if cfg.LatencyWindow <= 0 {
		cfg.LatencyWindow = DEFAULT_LATENCY_WINDOW
	}
	if store == nil {
		store = NewMemoryStateStore()
	}

	states := make(map[domain.ProviderName]domain.ProviderHealth, len(domain.AllProviders))
	for _, p := range domain.AllProviders {
		states[p] = domain.ProviderHealth{Provider: p, Status: domain.HealthStatusHealthy}
	}

	return &monitor{
		cfg:       cfg,
		store:     store,
		clock:     clock,
		startedAt: clock.Now(),
		states:    states,
	}
}

// UpdateMetrics applies one observation. With a shared store the state is read, modified and
// written back; concurrent instances may overwrite each other, which only delays a transition.
func (m *monitor) UpdateMetrics(ctx context.Context, provider domain.ProviderName, ok bool, latency time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.load(ctx, provider)
	previous := state.Status

	state.TotalCalls++
	state.LastChecked = m.clock.Now()
	state.LatencySamples = append(state.LatencySamples, latency)
	if n := len(state.LatencySamples); n > m.cfg.LatencyWindow {
		state.LatencySamples = append([]time.Duration(nil), state.LatencySamples[n-m.cfg.LatencyWindow:]...)
	}
	state.AverageLatency = average(state.LatencySamples)

	if ok {
		state.ConsecutiveSuccesses++
		state.ConsecutiveFailures = 0
		if state.Status != domain.HealthStatusHealthy && state.ConsecutiveSuccesses >= m.cfg.RecoverAfter {
			state.Status = domain.HealthStatusHealthy
		}
	} else {
		state.TotalFailures++
		state.ConsecutiveFailures++
		state.ConsecutiveSuccesses = 0
		if err != nil {
			state.LastError = err.Error()
		}
		switch {
		case state.ConsecutiveFailures >= m.cfg.DegradedAfter+m.cfg.DownAfter:
			state.Status = domain.HealthStatusDown
		case state.ConsecutiveFailures >= m.cfg.DegradedAfter && state.Status == domain.HealthStatusHealthy:
			state.Status = domain.HealthStatusDegraded
		}
	}

	if state.Status != previous {
		fields := []zap.Field{
			zap.String("provider", string(provider)),
			zap.String("from", string(previous)),
			zap.String("to", string(state.Status)),
			zap.Int("consecutive_failures", state.ConsecutiveFailures),
			zap.Int("consecutive_successes", state.ConsecutiveSuccesses),
		}
		if state.Status == domain.HealthStatusHealthy {
			logger.InfoCtx(ctx, "Provider recovered", fields...)
		} else {
			logger.WarnCtx(ctx, "Provider health changed", append(fields, zap.String("last_error", state.LastError))...)
		}
	}

	m.states[provider] = state
	if saveErr := m.store.Save(ctx, state); saveErr != nil {
		logger.WarnCtx(ctx, "Failed to persist provider health",
			zap.String("provider", string(provider)),
			zap.Error(saveErr))
	}
}

// load returns the shared state of a provider, falling back to the local copy.
// Callers must hold m.mu.
func (m *monitor) load(ctx context.Context, provider domain.ProviderName) domain.ProviderHealth {
	state, err := m.store.Load(ctx, provider)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to load provider health, using local state",
			zap.String("provider", string(provider)),
			zap.Error(err))
	}
	if err != nil || state == nil {
		local, ok := m.states[provider]
		if !ok {
			local = domain.ProviderHealth{Provider: provider, Status: domain.HealthStatusHealthy}
		}
		return local
	}
	return *state
}

func (m *monitor) ProviderStatus(provider domain.ProviderName) domain.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[provider]; ok {
		return state.Status
	}
	return domain.HealthStatusHealthy
}

// snapshot refreshes the local copies from the store and returns them
func (m *monitor) snapshot(ctx context.Context) map[domain.ProviderName]domain.ProviderHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[domain.ProviderName]domain.ProviderHealth, len(domain.AllProviders))
	for _, p := range domain.AllProviders {
		state := m.load(ctx, p)
		m.states[p] = state
		out[p] = state
	}
	return out
}

func (m *monitor) GetSystemHealth(ctx context.Context) SystemHealth {
	states := m.snapshot(ctx)

	health := SystemHealth{
		Providers: make(map[domain.ProviderName]ProviderReport, len(states)),
		CheckedAt: m.clock.Now(),
	}
	statuses := make([]domain.HealthStatus, 0, len(states))
	for name, state := range states {
		health.Providers[name] = ProviderReport{
			Status:      state.Status,
			Latency:     state.AverageLatency,
			LastChecked: state.LastChecked,
			LastError:   state.LastError,
		}
		statuses = append(statuses, state.Status)
	}
	health.Overall = domain.Worst(statuses...)
	return health
}

func (m *monitor) GetPerformanceMetrics(ctx context.Context) PerformanceMetrics {
	states := m.snapshot(ctx)

	metrics := PerformanceMetrics{
		StartedAt: m.startedAt,
		Uptime:    m.clock.Since(m.startedAt),
		Providers: make(map[domain.ProviderName]ProviderMetrics, len(states)),
	}
	for name, state := range states {
		pm := ProviderMetrics{
			Status:         state.Status,
			AverageLatency: average(state.LatencySamples),
			P95Latency:     percentile(state.LatencySamples, 95),
			MaxLatency:     percentile(state.LatencySamples, 100),
			TotalCalls:     state.TotalCalls,
			TotalFailures:  state.TotalFailures,
		}
		if state.TotalCalls > 0 {
			pm.FailureRate = float64(state.TotalFailures) / float64(state.TotalCalls)
		}
		metrics.Providers[name] = pm
	}
	return metrics
}

func average(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	return sum / time.Duration(len(samples))
}

// percentile uses the nearest-rank method
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
