package providers

import (
	"context"

	"github.com/feral-file/ff-events/internal/domain"
)

// Provider is the capability every storage layer exposes
type Provider interface {
	// Name returns the provider name used in health reports and errors
	Name() domain.ProviderName
	// HealthCheck probes the provider
	HealthCheck(ctx context.Context) domain.HealthCheckResult
}

// DatabaseProvider is the relational store holding the presentation copy of events.
// It supports filter/sort/paginate reads and single-row writes guarded by the expected status.
//
//go:generate mockgen -source=providers.go -destination=../mocks/providers.go -package=mocks -mock_names=DatabaseProvider=MockDatabaseProvider,LedgerProvider=MockLedgerProvider,ContentProvider=MockContentProvider
type DatabaseProvider interface {
	Provider

	// CreateDraft inserts a draft row. If an in-flight row already holds the idempotency key
	// it is returned with created=false and nothing is inserted.
	CreateDraft(ctx context.Context, event *domain.Event) (stored *domain.Event, created bool, err error)
	// GetEvent returns the event or domain.ErrEventNotFound
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	// GetEventByIdempotencyKey returns the in-flight event holding the key, nil when none
	GetEventByIdempotencyKey(ctx context.Context, key string) (*domain.Event, error)
	// ListEvents returns a page of events and the total number of matches
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error)
	// ListEventsForReconciliation returns active and pending_ledger rows in a stable order
	ListEventsForReconciliation(ctx context.Context, limit int, offset int) ([]domain.Event, error)

	// MarkPendingLedger moves a draft to pending_ledger, storing the unsigned operation
	MarkPendingLedger(ctx context.Context, id string, operation domain.UnsignedOperation) error
	// RecordPendingTransaction stores a broadcast transaction whose finality is not yet known
	RecordPendingTransaction(ctx context.Context, id string, txHash string) error
	// ActivateEvent moves a pending_ledger row to active with its verified linkage
	ActivateEvent(ctx context.Context, id string, linkage domain.LedgerLinkage) error
	// MarkFailed moves a draft or pending_ledger row to failed and clears its linkage
	MarkFailed(ctx context.Context, id string, reason string) error
	// UpdateStatus moves a row between statuses, reporting whether a row changed
	UpdateStatus(ctx context.Context, id string, from domain.EventStatus, to domain.EventStatus) (bool, error)
	// DemoteEvent moves an active row without a ledger record to failed
	DemoteEvent(ctx context.Context, id string, reason string) (bool, error)
	// ApplyLedgerValue overwrites a ledger-authoritative field when it differs, reporting whether a row changed
	ApplyLedgerValue(ctx context.Context, id string, field string, value string) (bool, error)

	// RecordRun stores the summary of a reconciliation run
	RecordRun(ctx context.Context, run domain.ReconciliationRun) error
	// ListRuns returns recent reconciliation runs, newest first
	ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error)
}

// LedgerProvider is the append-only ledger. Writes are two-phase: PrepareOperation builds the
// payload an external signer signs, ConfirmOperation waits for finality of the signed result.
type LedgerProvider interface {
	Provider

	// ChainID returns the chain the ledger lives on
	ChainID() int64
	// ContractAddress returns the ledger contract address
	ContractAddress() string

	// PrepareOperation returns the unsigned operation creating the event. It has no side effects.
	PrepareOperation(params domain.LedgerEventParams) (*domain.UnsignedOperation, error)
	// ConfirmOperation broadcasts (if needed) the signed operation and waits, bounded, for finality
	ConfirmOperation(ctx context.Context, prepared domain.UnsignedOperation, signed domain.SignedOperation) (*domain.LedgerConfirmation, error)
	// LookupTransaction checks finality of a transaction once, without waiting
	LookupTransaction(ctx context.Context, prepared *domain.UnsignedOperation, txHash string) (*domain.LedgerConfirmation, error)

	// GetEvent reads one ledger record; a missing record yields domain.ErrLedgerRecordNotFound
	GetEvent(ctx context.Context, ledgerEventID string) (*domain.LedgerEvent, error)
	// ListEvents enumerates the newest ledger records, at most limit of them
	ListEvents(ctx context.Context, limit int) ([]domain.LedgerEvent, error)
}

// ContentProvider is the content-addressed blob store
type ContentProvider interface {
	Provider

	// Put stores data and returns its reference. Identical bytes always yield the same reference.
	// A non-empty contentHash (hex SHA-256) is verified against data first.
	Put(ctx context.Context, data []byte, contentHash string) (*domain.ContentRef, error)
	// Get reads the object behind a reference
	Get(ctx context.Context, uri string) ([]byte, error)
}
