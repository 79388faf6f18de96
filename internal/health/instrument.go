package health

import (
	"context"
	"errors"
	"time"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/providers"
)

// recorder feeds provider calls into the monitor
type recorder struct {
	monitor  Monitor
	clock    adapter.Clock
	provider domain.ProviderName
}

// observe records a call that started at start. Only provider failures count against health:
// validation errors, missing records and refused transitions are answers, not outages.
func (r recorder) observe(ctx context.Context, start time.Time, err error) {
	latency := r.clock.Since(start)
	if err != nil && countsAsFailure(err) {
		r.monitor.UpdateMetrics(ctx, r.provider, false, latency, err)
		return
	}
	r.monitor.UpdateMetrics(ctx, r.provider, true, latency, nil)
}

func countsAsFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return domain.IsStorageError(err) || errors.Is(err, context.DeadlineExceeded)
}

// InstrumentDatabase wraps a database provider so every call updates the monitor
func InstrumentDatabase(p providers.DatabaseProvider, monitor Monitor, clock adapter.Clock) providers.DatabaseProvider {
	return &instrumentedDatabase{DatabaseProvider: p, rec: recorder{monitor, clock, p.Name()}}
}

type instrumentedDatabase struct {
	providers.DatabaseProvider
	rec recorder
}

func (d *instrumentedDatabase) CreateDraft(ctx context.Context, event *domain.Event) (stored *domain.Event, created bool, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.CreateDraft(ctx, event)
}

func (d *instrumentedDatabase) GetEvent(ctx context.Context, id string) (event *domain.Event, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.GetEvent(ctx, id)
}

func (d *instrumentedDatabase) GetEventByIdempotencyKey(ctx context.Context, key string) (event *domain.Event, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.GetEventByIdempotencyKey(ctx, key)
}

func (d *instrumentedDatabase) ListEvents(ctx context.Context, filter domain.EventFilter) (events []domain.Event, total int64, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.ListEvents(ctx, filter)
}

func (d *instrumentedDatabase) ListEventsForReconciliation(ctx context.Context, limit int, offset int) (events []domain.Event, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.ListEventsForReconciliation(ctx, limit, offset)
}

func (d *instrumentedDatabase) MarkPendingLedger(ctx context.Context, id string, operation domain.UnsignedOperation) (err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.MarkPendingLedger(ctx, id, operation)
}

func (d *instrumentedDatabase) RecordPendingTransaction(ctx context.Context, id string, txHash string) (err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.RecordPendingTransaction(ctx, id, txHash)
}

func (d *instrumentedDatabase) ActivateEvent(ctx context.Context, id string, linkage domain.LedgerLinkage) (err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.ActivateEvent(ctx, id, linkage)
}

func (d *instrumentedDatabase) MarkFailed(ctx context.Context, id string, reason string) (err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.MarkFailed(ctx, id, reason)
}

func (d *instrumentedDatabase) UpdateStatus(ctx context.Context, id string, from domain.EventStatus, to domain.EventStatus) (changed bool, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.UpdateStatus(ctx, id, from, to)
}

func (d *instrumentedDatabase) DemoteEvent(ctx context.Context, id string, reason string) (changed bool, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.DemoteEvent(ctx, id, reason)
}

func (d *instrumentedDatabase) ApplyLedgerValue(ctx context.Context, id string, field string, value string) (changed bool, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.ApplyLedgerValue(ctx, id, field, value)
}

func (d *instrumentedDatabase) RecordRun(ctx context.Context, run domain.ReconciliationRun) (err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.RecordRun(ctx, run)
}

func (d *instrumentedDatabase) ListRuns(ctx context.Context, limit int) (runs []domain.ReconciliationRun, err error) {
	defer func(start time.Time) { d.rec.observe(ctx, start, err) }(d.rec.clock.Now())
	return d.DatabaseProvider.ListRuns(ctx, limit)
}

// InstrumentLedger wraps a ledger provider so every network call updates the monitor.
// PrepareOperation does no I/O and is not recorded.
func InstrumentLedger(p providers.LedgerProvider, monitor Monitor, clock adapter.Clock) providers.LedgerProvider {
	return &instrumentedLedger{LedgerProvider: p, rec: recorder{monitor, clock, p.Name()}}
}

type instrumentedLedger struct {
	providers.LedgerProvider
	rec recorder
}

func (l *instrumentedLedger) ConfirmOperation(ctx context.Context, prepared domain.UnsignedOperation, signed domain.SignedOperation) (confirmation *domain.LedgerConfirmation, err error) {
	defer func(start time.Time) { l.rec.observe(ctx, start, err) }(l.rec.clock.Now())
	return l.LedgerProvider.ConfirmOperation(ctx, prepared, signed)
}

func (l *instrumentedLedger) LookupTransaction(ctx context.Context, prepared *domain.UnsignedOperation, txHash string) (confirmation *domain.LedgerConfirmation, err error) {
	defer func(start time.Time) { l.rec.observe(ctx, start, err) }(l.rec.clock.Now())
	return l.LedgerProvider.LookupTransaction(ctx, prepared, txHash)
}

func (l *instrumentedLedger) GetEvent(ctx context.Context, ledgerEventID string) (event *domain.LedgerEvent, err error) {
	defer func(start time.Time) { l.rec.observe(ctx, start, err) }(l.rec.clock.Now())
	return l.LedgerProvider.GetEvent(ctx, ledgerEventID)
}

func (l *instrumentedLedger) ListEvents(ctx context.Context, limit int) (events []domain.LedgerEvent, err error) {
	defer func(start time.Time) { l.rec.observe(ctx, start, err) }(l.rec.clock.Now())
	return l.LedgerProvider.ListEvents(ctx, limit)
}

// InstrumentContent wraps a content provider so every call updates the monitor
func InstrumentContent(p providers.ContentProvider, monitor Monitor, clock adapter.Clock) providers.ContentProvider {
	return &instrumentedContent{ContentProvider: p, rec: recorder{monitor, clock, p.Name()}}
}

type instrumentedContent struct {
	providers.ContentProvider
	rec recorder
}

func (c *instrumentedContent) Put(ctx context.Context, data []byte, contentHash string) (ref *domain.ContentRef, err error) {
	defer func(start time.Time) { c.rec.observe(ctx, start, err) }(c.rec.clock.Now())
	return c.ContentProvider.Put(ctx, data, contentHash)
}

func (c *instrumentedContent) Get(ctx context.Context, uri string) (data []byte, err error) {
	defer func(start time.Time) { c.rec.observe(ctx, start, err) }(c.rec.clock.Now())
	return c.ContentProvider.Get(ctx, uri)
}
