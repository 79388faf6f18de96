package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/messaging"
	"github.com/feral-file/ff-events/internal/providers"
)

const (
	DEFAULT_BATCH_SIZE       = 200
	DEFAULT_MAX_ROWS         = 2000
	DEFAULT_WORKER_POOL_SIZE = 8
	DEFAULT_LIST_RUNS        = 20
	MAX_LIST_RUNS            = 100
)

// ReconcilerConfig holds the consistency check and data sync settings
type ReconcilerConfig struct {
	BatchSize      int // rows read per page
	MaxRows        int // rows compared per check
	WorkerPoolSize int // concurrent ledger reads
	Policy         FieldPolicy
}

// CheckResult is returned by RunConsistencyCheck. Records are sorted by event id then field.
type CheckResult struct {
	RunID      string                    `json:"runId"`
	Records    []domain.DivergenceRecord `json:"records"`
	Checked    int                       `json:"checked"`
	Failed     int                       `json:"failed"`
	StartedAt  time.Time                 `json:"startedAt"`
	FinishedAt time.Time                 `json:"finishedAt"`
}

// SyncResult is returned by RunDataSync
type SyncResult struct {
	RunID    string `json:"runId"`
	Repaired int    `json:"repaired"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// Reconciler detects and repairs divergence between the database and the ledger
//
//go:generate mockgen -source=consistency.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// RunConsistencyCheck compares a bounded batch of active and pending rows with the ledger.
	// It never writes event rows.
	RunConsistencyCheck(ctx context.Context) (*CheckResult, error)
	// RunDataSync repairs the given divergences following the field policy.
	// With no records it runs a consistency check first and repairs what it finds.
	RunDataSync(ctx context.Context, records []domain.DivergenceRecord) (*SyncResult, error)
	// ListRuns returns recent run summaries, newest first. limit is clamped to [1, MAX_LIST_RUNS].
	ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error)
}

type reconciler struct {
	cfg       ReconcilerConfig
	db        providers.DatabaseProvider
	ledger    providers.LedgerProvider
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewReconciler creates a reconciler. publisher may be nil.
func NewReconciler(
	cfg ReconcilerConfig,
	db providers.DatabaseProvider,
	ledger providers.LedgerProvider,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Reconciler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DEFAULT_BATCH_SIZE
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DEFAULT_MAX_ROWS
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = DEFAULT_WORKER_POOL_SIZE
	}
	if cfg.Policy == nil {
		cfg.Policy = DefaultFieldPolicy()
	}

	return &reconciler{
		cfg:       cfg,
		db:        db,
		ledger:    ledger,
		publisher: publisher,
		clock:     clock,
	}
}

func (r *reconciler) RunConsistencyCheck(ctx context.Context) (*CheckResult, error) {
	startedAt := r.clock.Now()
	runID := ulid.Make().String()

	logger.InfoCtx(ctx, "Starting consistency check",
		zap.String("run_id", runID),
		zap.Int("max_rows", r.cfg.MaxRows))

	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read events for reconciliation: %w", err)
	}

	records, failed := r.compareAll(ctx, rows, startedAt)

	result := &CheckResult{
		RunID:      runID,
		Records:    records,
		Checked:    len(rows),
		Failed:     failed,
		StartedAt:  startedAt,
		FinishedAt: r.clock.Now(),
	}

	for _, record := range records {
		logger.WarnCtx(ctx, "Divergence detected",
			zap.String("run_id", runID),
			zap.String("event_id", record.EventID),
			zap.String("field", record.Field),
			zap.String("database_value", record.DatabaseValue),
			zap.String("ledger_value", record.LedgerValue))
		r.publishDivergence(ctx, runID, record)
	}

	r.finish(ctx, domain.ReconciliationRun{
		ID:          runID,
		Kind:        domain.ReconciliationRunKindCheck,
		Divergences: len(records),
		Failed:      failed,
		Records:     records,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	})

	logger.InfoCtx(ctx, "Consistency check completed",
		zap.String("run_id", runID),
		zap.Int("checked", result.Checked),
		zap.Int("divergences", len(records)),
		zap.Int("failed", failed),
		zap.Duration("duration", result.FinishedAt.Sub(startedAt)))

	return result, nil
}

// readRows pages through reconcilable rows in their stable order, up to MaxRows
func (r *reconciler) readRows(ctx context.Context) ([]domain.Event, error) {
	var rows []domain.Event
	for offset := 0; offset < r.cfg.MaxRows; offset += r.cfg.BatchSize {
		limit := r.cfg.BatchSize
		if remaining := r.cfg.MaxRows - offset; remaining < limit {
			limit = remaining
		}

		batch, err := r.db.ListEventsForReconciliation(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
		if len(batch) < limit {
			break
		}
	}
	return rows, nil
}

// compareAll compares rows on a bounded pool. Rows whose ledger read fails are counted and skipped.
func (r *reconciler) compareAll(ctx context.Context, rows []domain.Event, detectedAt time.Time) ([]domain.DivergenceRecord, int) {
	perRow := make([][]domain.DivergenceRecord, len(rows))
	var failed atomic.Int32

	pool := pond.NewPool(r.cfg.WorkerPoolSize, pond.WithContext(ctx))
	for i := range rows {
		idx := i
		pool.Submit(func() {
			records, err := r.compare(ctx, rows[idx], detectedAt)
			if err != nil {
				failed.Add(1)
				logger.WarnCtx(ctx, "Failed to compare event with ledger",
					zap.String("event_id", rows[idx].ID),
					zap.Error(err))
				return
			}
			perRow[idx] = records
		})
	}
	pool.StopAndWait()

	records := []domain.DivergenceRecord{}
	for _, rs := range perRow {
		records = append(records, rs...)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].EventID != records[j].EventID {
			return records[i].EventID < records[j].EventID
		}
		return records[i].Field < records[j].Field
	})

	return records, int(failed.Load())
}

func (r *reconciler) compare(ctx context.Context, row domain.Event, detectedAt time.Time) ([]domain.DivergenceRecord, error) {
	switch row.Status {
	case domain.EventStatusPendingLedger:
		return r.comparePending(ctx, row, detectedAt)
	case domain.EventStatusActive:
		return r.compareActive(ctx, row, detectedAt)
	}
	return nil, nil
}

// comparePending resolves a pending row with a recorded transaction against the ledger
func (r *reconciler) comparePending(ctx context.Context, row domain.Event, detectedAt time.Time) ([]domain.DivergenceRecord, error) {
	if row.PendingTransactionHash == nil || *row.PendingTransactionHash == "" {
		return nil, nil
	}

	confirmation, err := r.ledger.LookupTransaction(ctx, row.UnsignedOperation, *row.PendingTransactionHash)
	if err != nil {
		return nil, err
	}

	divergence := func(ledgerValue domain.EventStatus) []domain.DivergenceRecord {
		return []domain.DivergenceRecord{{
			EventID:       row.ID,
			Field:         domain.FieldStatus,
			DatabaseValue: string(row.Status),
			LedgerValue:   string(ledgerValue),
			DetectedAt:    detectedAt,
		}}
	}

	switch confirmation.Outcome {
	case domain.ConfirmationConfirmed:
		if confirmation.EventRef != row.ID {
			logger.WarnCtx(ctx, "Pending transaction created another event",
				zap.String("event_id", row.ID),
				zap.String("ledger_event_ref", confirmation.EventRef))
			return divergence(domain.EventStatusFailed), nil
		}
		return divergence(domain.EventStatusActive), nil
	case domain.ConfirmationRejected:
		return divergence(domain.EventStatusFailed), nil
	}
	return nil, nil
}

// compareActive compares an active row with its ledger record
func (r *reconciler) compareActive(ctx context.Context, row domain.Event, detectedAt time.Time) ([]domain.DivergenceRecord, error) {
	var records []domain.DivergenceRecord
	add := func(field, databaseValue, ledgerValue string) {
		records = append(records, domain.DivergenceRecord{
			EventID:       row.ID,
			Field:         field,
			DatabaseValue: databaseValue,
			LedgerValue:   ledgerValue,
			DetectedAt:    detectedAt,
		})
	}

	if row.LedgerEventID == nil || *row.LedgerEventID == "" {
		add(domain.FieldExistence, "present", "missing")
		return records, nil
	}

	record, err := r.ledger.GetEvent(ctx, *row.LedgerEventID)
	if errors.Is(err, domain.ErrLedgerRecordNotFound) {
		add(domain.FieldExistence, "present", "missing")
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	if record.EventRef != row.ID {
		add(domain.FieldExistence, "present", "event_ref:"+record.EventRef)
		return records, nil
	}

	databasePrice := row.TicketPrice
	if normalized, err := domain.NormalizePrice(row.TicketPrice); err == nil {
		databasePrice = normalized
	}
	if ledgerPrice := domain.FormatWeiString(record.TicketPriceWei); databasePrice != ledgerPrice {
		add(domain.FieldTicketPrice, databasePrice, ledgerPrice)
	}

	if row.MaxCapacity != record.MaxCapacity {
		add(domain.FieldMaxCapacity, strconv.Itoa(row.MaxCapacity), strconv.Itoa(record.MaxCapacity))
	}

	if databaseCreator, ledgerCreator := domain.NormalizeAddress(row.CreatorID), domain.NormalizeAddress(record.Creator); databaseCreator != ledgerCreator {
		add(domain.FieldCreatorID, databaseCreator, ledgerCreator)
	}

	if ledgerStatus := record.Status(); ledgerStatus != row.Status {
		add(domain.FieldStatus, string(row.Status), string(ledgerStatus))
	}

	if record.MetadataURI != "" {
		databaseRef := ""
		if row.ContentMetadataRef != nil {
			databaseRef = *row.ContentMetadataRef
		}
		if databaseRef != record.MetadataURI {
			add(domain.FieldContentMetadataRef, databaseRef, record.MetadataURI)
		}
	}

	return records, nil
}

func (r *reconciler) publishDivergence(ctx context.Context, runID string, record domain.DivergenceRecord) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishDivergence(ctx, runID, record); err != nil {
		logger.WarnCtx(ctx, "Failed to publish divergence",
			zap.String("run_id", runID),
			zap.String("event_id", record.EventID),
			zap.Error(err))
	}
}

// finish stores and publishes the run summary. Both are audit side channels and never fail the run.
func (r *reconciler) finish(ctx context.Context, run domain.ReconciliationRun) {
	if err := r.db.RecordRun(ctx, run); err != nil {
		logger.WarnCtx(ctx, "Failed to record reconciliation run",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishRun(ctx, run); err != nil {
		logger.WarnCtx(ctx, "Failed to publish reconciliation run",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
}

func (r *reconciler) ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error) {
	switch {
	case limit <= 0:
		limit = DEFAULT_LIST_RUNS
	case limit > MAX_LIST_RUNS:
		limit = MAX_LIST_RUNS
	}
	return r.db.ListRuns(ctx, limit)
}
