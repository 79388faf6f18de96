package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/providers"
	"github.com/feral-file/ff-events/internal/store"
	"github.com/feral-file/ff-events/internal/store/schema"
)

type provider struct {
	store store.Store
	clock adapter.Clock
}

// NewProvider creates the relational store provider backed by the event store
func NewProvider(s store.Store, clock adapter.Clock) providers.DatabaseProvider {
	return &provider{store: s, clock: clock}
}

func (p *provider) Name() domain.ProviderName {
	return domain.ProviderDatabase
}

// HealthCheck pings the database
func (p *provider) HealthCheck(ctx context.Context) domain.HealthCheckResult {
	start := p.clock.Now()
	err := p.store.Ping(ctx)
	return domain.HealthCheckResult{
		OK:      err == nil,
		Latency: p.clock.Since(start),
		Error:   domain.NewStorageError(domain.ProviderDatabase, "healthCheck", err),
	}
}

func (p *provider) wrap(operation string, err error) error {
	return domain.NewStorageError(domain.ProviderDatabase, operation, err)
}

// CreateDraft inserts a draft row
func (p *provider) CreateDraft(ctx context.Context, event *domain.Event) (*domain.Event, bool, error) {
	row, created, err := p.store.CreateDraftEvent(ctx, store.CreateEventInput{
		ID:                 event.ID,
		IdempotencyKey:     event.IdempotencyKey,
		Title:              event.Title,
		Description:        event.Description,
		Location:           event.Location,
		Category:           event.Category,
		Tags:               event.Tags,
		StartTime:          event.StartTime,
		EndTime:            event.EndTime,
		MaxCapacity:        event.MaxCapacity,
		TicketPrice:        event.TicketPrice,
		Visibility:         string(event.Visibility),
		CreatorID:          event.CreatorID,
		ContentMetadataRef: event.ContentMetadataRef,
		ContentImageRef:    event.ContentImageRef,
	})
	if err != nil {
		return nil, false, p.wrap("createDraft", err)
	}

	stored, err := toDomainEvent(row)
	if err != nil {
		return nil, false, p.wrap("createDraft", err)
	}
	return stored, created, nil
}

// GetEvent reads one event
func (p *provider) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row, err := p.store.GetEventByID(ctx, id)
	if err != nil {
		return nil, p.wrap("getEvent", err)
	}
	if row == nil {
		return nil, domain.ErrEventNotFound
	}

	event, err := toDomainEvent(row)
	if err != nil {
		return nil, p.wrap("getEvent", err)
	}
	return event, nil
}

// GetEventByIdempotencyKey reads the in-flight event holding a key
func (p *provider) GetEventByIdempotencyKey(ctx context.Context, key string) (*domain.Event, error) {
	row, err := p.store.GetInFlightEventByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, p.wrap("getEventByIdempotencyKey", err)
	}
	if row == nil {
		return nil, nil
	}

	event, err := toDomainEvent(row)
	if err != nil {
		return nil, p.wrap("getEventByIdempotencyKey", err)
	}
	return event, nil
}

// ListEvents reads a filtered page of events
func (p *provider) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, int64, error) {
	rows, total, err := p.store.GetEventsByFilter(ctx, filter)
	if err != nil {
		return nil, 0, p.wrap("listEvents", err)
	}

	events, err := toDomainEvents(rows)
	if err != nil {
		return nil, 0, p.wrap("listEvents", err)
	}
	return events, int64(total), nil //nolint:gosec,G115
}

// ListEventsForReconciliation reads a batch of reconcilable events
func (p *provider) ListEventsForReconciliation(ctx context.Context, limit int, offset int) ([]domain.Event, error) {
	rows, err := p.store.GetEventsForReconciliation(ctx, limit, offset)
	if err != nil {
		return nil, p.wrap("listEventsForReconciliation", err)
	}

	events, err := toDomainEvents(rows)
	if err != nil {
		return nil, p.wrap("listEventsForReconciliation", err)
	}
	return events, nil
}

// MarkPendingLedger moves a draft to pending_ledger
func (p *provider) MarkPendingLedger(ctx context.Context, id string, operation domain.UnsignedOperation) error {
	data, err := json.Marshal(operation)
	if err != nil {
		return p.wrap("markPendingLedger", fmt.Errorf("failed to marshal unsigned operation: %w", err))
	}

	ok, err := p.store.MarkEventPendingLedger(ctx, id, datatypes.JSON(data))
	if err != nil {
		return p.wrap("markPendingLedger", err)
	}
	if !ok {
		return fmt.Errorf("%w: event %s is not a draft", domain.ErrInvalidTransition, id)
	}
	return nil
}

// RecordPendingTransaction stores a broadcast transaction hash
func (p *provider) RecordPendingTransaction(ctx context.Context, id string, txHash string) error {
	ok, err := p.store.SetPendingTransactionHash(ctx, id, txHash)
	if err != nil {
		return p.wrap("recordPendingTransaction", err)
	}
	if !ok {
		return fmt.Errorf("%w: event %s is not pending ledger", domain.ErrInvalidTransition, id)
	}
	return nil
}

// ActivateEvent writes the verified linkage and moves the row to active
func (p *provider) ActivateEvent(ctx context.Context, id string, linkage domain.LedgerLinkage) error {
	if linkage.TransactionHash == "" || linkage.LedgerEventID == "" || linkage.VerifiedAt.IsZero() {
		return fmt.Errorf("%w: activation requires a verified ledger linkage", domain.ErrInvalidTransition)
	}

	ok, err := p.store.ActivateEvent(ctx, id, store.ActivateEventInput{
		LedgerEventID:   linkage.LedgerEventID,
		ContractAddress: domain.NormalizeAddress(linkage.ContractAddress),
		ChainID:         linkage.ChainID,
		TransactionHash: linkage.TransactionHash,
		VerifiedAt:      linkage.VerifiedAt,
	})
	if err != nil {
		return p.wrap("activateEvent", err)
	}
	if !ok {
		return fmt.Errorf("%w: event %s is not pending ledger", domain.ErrInvalidTransition, id)
	}
	return nil
}

// MarkFailed moves an in-flight row to failed
func (p *provider) MarkFailed(ctx context.Context, id string, reason string) error {
	ok, err := p.store.MarkEventFailed(ctx, id, reason)
	if err != nil {
		return p.wrap("markFailed", err)
	}
	if !ok {
		return fmt.Errorf("%w: event %s is not in flight", domain.ErrInvalidTransition, id)
	}
	return nil
}

// UpdateStatus moves a row between statuses following the transition table.
// Active and failed rows carry linkage changes and are written by ActivateEvent, MarkFailed and DemoteEvent.
func (p *provider) UpdateStatus(ctx context.Context, id string, from domain.EventStatus, to domain.EventStatus) (bool, error) {
	if !domain.CanTransition(from, to) || to == domain.EventStatusActive || to == domain.EventStatusFailed {
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	ok, err := p.store.UpdateEventStatus(ctx, id, schema.EventStatus(from), schema.EventStatus(to))
	if err != nil {
		return false, p.wrap("updateStatus", err)
	}
	return ok, nil
}

// DemoteEvent moves an active row to failed
func (p *provider) DemoteEvent(ctx context.Context, id string, reason string) (bool, error) {
	if !domain.CanTransition(domain.EventStatusActive, domain.EventStatusFailed) {
		return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, domain.EventStatusActive, domain.EventStatusFailed)
	}

	ok, err := p.store.DemoteActiveEvent(ctx, id, reason)
	if err != nil {
		return false, p.wrap("demoteEvent", err)
	}
	return ok, nil
}

// ApplyLedgerValue overwrites a ledger-authoritative field
func (p *provider) ApplyLedgerValue(ctx context.Context, id string, field string, value string) (bool, error) {
	var column store.ReconcilableColumn
	var arg interface{}

	switch field {
	case domain.FieldTicketPrice:
		price, err := domain.NormalizePrice(value)
		if err != nil {
			return false, domain.NewValidationError(field, err.Error())
		}
		column, arg = store.ColumnTicketPrice, price
	case domain.FieldMaxCapacity:
		capacity, err := strconv.Atoi(value)
		if err != nil {
			return false, domain.NewValidationError(field, "must be an integer")
		}
		column, arg = store.ColumnMaxCapacity, capacity
	case domain.FieldCreatorID:
		if !domain.IsValidAddress(value) {
			return false, domain.NewValidationError(field, "must be a valid address")
		}
		column, arg = store.ColumnCreatorID, domain.NormalizeAddress(value)
	case domain.FieldContentMetadataRef:
		column, arg = store.ColumnContentMetadataRef, value
	default:
		return false, domain.NewValidationError("field", fmt.Sprintf("%s cannot be overwritten from the ledger", field))
	}

	ok, err := p.store.UpdateEventColumnIfDistinct(ctx, id, column, arg)
	if err != nil {
		return false, p.wrap("applyLedgerValue", err)
	}
	return ok, nil
}

// RecordRun stores a reconciliation run summary
func (p *provider) RecordRun(ctx context.Context, run domain.ReconciliationRun) error {
	if run.ID == "" {
		run.ID = ulid.Make().String()
	}

	var details datatypes.JSON
	if len(run.Records) > 0 {
		data, err := json.Marshal(run.Records)
		if err != nil {
			return p.wrap("recordRun", fmt.Errorf("failed to marshal divergence records: %w", err))
		}
		details = datatypes.JSON(data)
	}

	err := p.store.CreateReconciliationRun(ctx, &schema.ReconciliationRun{
		ID:          run.ID,
		Kind:        schema.ReconciliationRunKind(run.Kind),
		Divergences: run.Divergences,
		Repaired:    run.Repaired,
		Skipped:     run.Skipped,
		Failed:      run.Failed,
		Details:     details,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	})
	if err != nil {
		return p.wrap("recordRun", err)
	}
	return nil
}

// ListRuns reads recent reconciliation runs
func (p *provider) ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error) {
	rows, err := p.store.GetReconciliationRuns(ctx, nil, limit)
	if err != nil {
		return nil, p.wrap("listRuns", err)
	}

	runs := make([]domain.ReconciliationRun, 0, len(rows))
	for _, row := range rows {
		run := domain.ReconciliationRun{
			ID:          row.ID,
			Kind:        domain.ReconciliationRunKind(row.Kind),
			Divergences: row.Divergences,
			Repaired:    row.Repaired,
			Skipped:     row.Skipped,
			Failed:      row.Failed,
			StartedAt:   row.StartedAt,
			FinishedAt:  row.FinishedAt,
		}
		if len(row.Details) > 0 {
			if err := json.Unmarshal(row.Details, &run.Records); err != nil {
				return nil, p.wrap("listRuns", fmt.Errorf("failed to unmarshal divergence records: %w", err))
			}
		}
		runs = append(runs, run)
	}
	return runs, nil
}
