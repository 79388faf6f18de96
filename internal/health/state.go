package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
)

// StateStore persists provider health so several instances can share it
//
//go:generate mockgen -source=state.go -destination=../mocks/state.go -package=mocks -mock_names=StateStore=MockStateStore
type StateStore interface {
	// Load returns the stored state of a provider, nil when none was stored
	Load(ctx context.Context, provider domain.ProviderName) (*domain.ProviderHealth, error)
	// Save stores the state of a provider
	Save(ctx context.Context, state domain.ProviderHealth) error
}

type memoryStateStore struct {
	mu     sync.RWMutex
	states map[domain.ProviderName]domain.ProviderHealth
}

// NewMemoryStateStore keeps provider health in process memory
func NewMemoryStateStore() StateStore {
	return &memoryStateStore{states: make(map[domain.ProviderName]domain.ProviderHealth)}
}

func (s *memoryStateStore) Load(_ context.Context, provider domain.ProviderName) (*domain.ProviderHealth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[provider]
	if !ok {
		return nil, nil
	}
	state.LatencySamples = append([]time.Duration(nil), state.LatencySamples...)
	return &state, nil
}

func (s *memoryStateStore) Save(_ context.Context, state domain.ProviderHealth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.LatencySamples = append([]time.Duration(nil), state.LatencySamples...)
	s.states[state.Provider] = state
	return nil
}

// RedisConfig holds the shared state store settings
type RedisConfig struct {
	Prefix string
	TTL    time.Duration
}

type redisStateStore struct {
	cfg    RedisConfig
	client adapter.RedisClient
	codec  adapter.Codec
}

// NewRedisStateStore shares provider health across instances through Redis.
// Entries expire after the TTL so a stopped fleet does not report stale state forever.
func NewRedisStateStore(cfg RedisConfig, client adapter.RedisClient, codec adapter.Codec) StateStore {
	if cfg.Prefix == "" {
		cfg.Prefix = "ff-events:health"
	}
	return &redisStateStore{cfg: cfg, client: client, codec: codec}
}

func (s *redisStateStore) key(provider domain.ProviderName) string {
	return fmt.Sprintf("%s:%s", s.cfg.Prefix, provider)
}

func (s *redisStateStore) Load(ctx context.Context, provider domain.ProviderName) (*domain.ProviderHealth, error) {
	value, found, err := s.client.Get(ctx, s.key(provider))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider health: %w", err)
	}
	if !found {
		return nil, nil
	}

	var state domain.ProviderHealth
	if err := s.codec.Unmarshal([]byte(value), &state); err != nil {
		return nil, fmt.Errorf("failed to decode provider health: %w", err)
	}
	return &state, nil
}

func (s *redisStateStore) Save(ctx context.Context, state domain.ProviderHealth) error {
	data, err := s.codec.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode provider health: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.Provider), string(data), s.cfg.TTL); err != nil {
		return fmt.Errorf("failed to write provider health: %w", err)
	}
	return nil
}
