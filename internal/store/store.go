package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/store/schema"
)

// CreateEventInput represents the data needed to insert a draft event row
type CreateEventInput struct {
	ID                 string
	IdempotencyKey     *string
	Title              string
	Description        string
	Location           string
	Category           string
	Tags               []string
	StartTime          time.Time
	EndTime            time.Time
	MaxCapacity        int
	TicketPrice        string
	Visibility         string
	CreatorID          string
	ContentMetadataRef *string
	ContentImageRef    *string
}

// ActivateEventInput represents the verified ledger linkage written on activation
type ActivateEventInput struct {
	LedgerEventID   string
	ContractAddress string
	ChainID         int64
	TransactionHash string
	VerifiedAt      time.Time
}

// ReconcilableColumn is a column that data sync may overwrite with the ledger value
type ReconcilableColumn string

const (
	ColumnTicketPrice        ReconcilableColumn = "ticket_price"
	ColumnMaxCapacity        ReconcilableColumn = "max_capacity"
	ColumnCreatorID          ReconcilableColumn = "creator_id"
	ColumnContentMetadataRef ReconcilableColumn = "content_metadata_ref"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks the database connection
	Ping(ctx context.Context) error

	// CreateDraftEvent inserts a draft row. When an in-flight row already holds the idempotency key,
	// nothing is inserted and the existing row is returned with created=false.
	CreateDraftEvent(ctx context.Context, input CreateEventInput) (event *schema.Event, created bool, err error)
	// GetEventByID retrieves an event by id, nil when it does not exist
	GetEventByID(ctx context.Context, id string) (*schema.Event, error)
	// GetInFlightEventByIdempotencyKey retrieves the draft or pending_ledger row holding the key, nil when none
	GetInFlightEventByIdempotencyKey(ctx context.Context, key string) (*schema.Event, error)
	// GetEventsByFilter retrieves a page of events and the total number of matches
	GetEventsByFilter(ctx context.Context, filter domain.EventFilter) ([]schema.Event, uint64, error)
	// GetEventsForReconciliation retrieves active and pending_ledger rows in a stable order
	GetEventsForReconciliation(ctx context.Context, limit int, offset int) ([]schema.Event, error)

	// MarkEventPendingLedger stores the unsigned operation and moves a draft row to pending_ledger
	MarkEventPendingLedger(ctx context.Context, id string, operation datatypes.JSON) (bool, error)
	// SetPendingTransactionHash records a broadcast transaction on a pending_ledger row
	SetPendingTransactionHash(ctx context.Context, id string, txHash string) (bool, error)
	// ActivateEvent moves a pending_ledger row to active and writes the ledger linkage
	ActivateEvent(ctx context.Context, id string, input ActivateEventInput) (bool, error)
	// MarkEventFailed moves a draft or pending_ledger row to failed and clears its linkage
	MarkEventFailed(ctx context.Context, id string, reason string) (bool, error)
	// DemoteActiveEvent moves an active row whose ledger record is missing to failed and clears its linkage
	DemoteActiveEvent(ctx context.Context, id string, reason string) (bool, error)
	// UpdateEventStatus moves a row from one status to another
	UpdateEventStatus(ctx context.Context, id string, from schema.EventStatus, to schema.EventStatus) (bool, error)
	// UpdateEventColumnIfDistinct overwrites a column only when its value differs
	UpdateEventColumnIfDistinct(ctx context.Context, id string, column ReconcilableColumn, value interface{}) (bool, error)

	// CreateReconciliationRun stores the summary of a consistency check or data sync run
	CreateReconciliationRun(ctx context.Context, run *schema.ReconciliationRun) error
	// GetReconciliationRuns retrieves the most recent runs, newest first
	GetReconciliationRuns(ctx context.Context, kind *schema.ReconciliationRunKind, limit int) ([]schema.ReconciliationRun, error)
}
