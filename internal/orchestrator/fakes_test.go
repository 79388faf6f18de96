package orchestrator_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/providers"
)

// memoryDatabase keeps event rows in memory with the same idempotency and
// guarded-transition semantics as the relational store
type memoryDatabase struct {
	providers.DatabaseProvider

	mu   sync.Mutex
	rows map[string]domain.Event
}

func newMemoryDatabase() *memoryDatabase {
	return &memoryDatabase{rows: make(map[string]domain.Event)}
}

func (m *memoryDatabase) GetEventByIdempotencyKey(_ context.Context, key string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.IdempotencyKey != nil && *row.IdempotencyKey == key && row.Status.InFlight() {
			e := row
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memoryDatabase) CreateDraft(_ context.Context, event *domain.Event) (*domain.Event, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.IdempotencyKey != nil {
		for _, row := range m.rows {
			if row.IdempotencyKey != nil && *row.IdempotencyKey == *event.IdempotencyKey && row.Status.InFlight() {
				e := row
				return &e, false, nil
			}
		}
	}
	m.rows[event.ID] = *event
	e := *event
	return &e, true, nil
}

func (m *memoryDatabase) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &row, nil
}

func (m *memoryDatabase) MarkPendingLedger(_ context.Context, id string, op domain.UnsignedOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Status != domain.EventStatusDraft {
		return fmt.Errorf("%w: event %s is not a draft", domain.ErrInvalidTransition, id)
	}
	row.Status = domain.EventStatusPendingLedger
	row.UnsignedOperation = &op
	m.rows[id] = row
	return nil
}

func (m *memoryDatabase) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memoryContent is a content-addressed store keyed by digest
type memoryContent struct {
	providers.ContentProvider

	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryContent() *memoryContent {
	return &memoryContent{objects: make(map[string][]byte)}
}

func (m *memoryContent) Put(_ context.Context, data []byte, contentHash string) (*domain.ContentRef, error) {
	digest, err := providers.VerifyContentHash(data, contentHash)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	uri := "ipfs://" + digest
	m.objects[uri] = data
	return &domain.ContentRef{URI: uri, Hash: digest, Size: len(data)}, nil
}

func (m *memoryContent) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// staticHealth reports fixed provider statuses
type staticHealth map[domain.ProviderName]domain.HealthStatus

func (s staticHealth) ProviderStatus(provider domain.ProviderName) domain.HealthStatus {
	if status, ok := s[provider]; ok {
		return status
	}
	return domain.HealthStatusHealthy
}
