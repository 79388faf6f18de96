package health

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
)

func (r *reconciler) RunDataSync(ctx context.Context, records []domain.DivergenceRecord) (*SyncResult, error) {
	startedAt := r.clock.Now()

	if len(records) == 0 {
		check, err := r.RunConsistencyCheck(ctx)
		if err != nil {
			return nil, err
		}
		records = check.Records
	}

	result := &SyncResult{RunID: ulid.Make().String()}
	if len(records) == 0 {
		logger.InfoCtx(ctx, "Nothing to sync", zap.String("run_id", result.RunID))
		return result, nil
	}

	sorted := append([]domain.DivergenceRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EventID != sorted[j].EventID {
			return sorted[i].EventID < sorted[j].EventID
		}
		return sorted[i].Field < sorted[j].Field
	})

	logger.InfoCtx(ctx, "Starting data sync",
		zap.String("run_id", result.RunID),
		zap.Int("records", len(sorted)))

	var runErr error
	live := make(map[string]*liveState)
	for _, record := range sorted {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if r.cfg.Policy.Authority(record.Field) != AuthorityLedger {
			result.Skipped++
			logger.DebugCtx(ctx, "Database is authoritative, keeping value",
				zap.String("event_id", record.EventID),
				zap.String("field", record.Field))
			continue
		}

		changed, err := r.repair(ctx, live, record)
		switch {
		case err != nil:
			result.Failed++
			logger.ErrorCtx(ctx, fmt.Errorf("failed to repair divergence: %w", err),
				zap.String("run_id", result.RunID),
				zap.String("event_id", record.EventID),
				zap.String("field", record.Field))
		case changed:
			result.Repaired++
			logger.InfoCtx(ctx, "Repaired divergence from ledger",
				zap.String("run_id", result.RunID),
				zap.String("event_id", record.EventID),
				zap.String("field", record.Field),
				zap.String("from", record.DatabaseValue))
		default:
			// Already consistent
			result.Skipped++
		}
	}

	r.finish(ctx, domain.ReconciliationRun{
		ID:          result.RunID,
		Kind:        domain.ReconciliationRunKindSync,
		Divergences: len(sorted),
		Repaired:    result.Repaired,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		StartedAt:   startedAt,
		FinishedAt:  r.clock.Now(),
	})

	logger.InfoCtx(ctx, "Data sync completed",
		zap.String("run_id", result.RunID),
		zap.Int("repaired", result.Repaired),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// liveState is the database row and its current divergences, read once per event and run
type liveState struct {
	row     *domain.Event
	byField map[string]domain.DivergenceRecord
}

// liveDivergences re-reads an event and recompares it with the ledger. Posted records only
// name what to look at; the values written always come from this fresh read.
func (r *reconciler) liveDivergences(ctx context.Context, cache map[string]*liveState, eventID string) (*liveState, error) {
	if state, ok := cache[eventID]; ok {
		return state, nil
	}

	row, err := r.db.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	state := &liveState{row: row, byField: map[string]domain.DivergenceRecord{}}
	if row.Status == domain.EventStatusActive {
		records, err := r.compareActive(ctx, *row, r.clock.Now())
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			state.byField[record.Field] = record
		}
	}
	cache[eventID] = state
	return state, nil
}

// repair brings one field back in line with the ledger. Every write is conditional,
// so repairing a field that already holds the ledger value changes nothing.
func (r *reconciler) repair(ctx context.Context, cache map[string]*liveState, record domain.DivergenceRecord) (bool, error) {
	state, err := r.liveDivergences(ctx, cache, record.EventID)
	if err != nil {
		return false, err
	}

	switch state.row.Status {
	case domain.EventStatusPendingLedger:
		if record.Field != domain.FieldStatus {
			return false, nil
		}
		return r.resolvePending(ctx, state.row)
	case domain.EventStatusActive:
	default:
		return false, nil
	}

	live, ok := state.byField[record.Field]
	if !ok {
		return false, nil
	}
	if live.LedgerValue != record.LedgerValue {
		logger.InfoCtx(ctx, "Ledger value differs from the submitted divergence, using the ledger",
			zap.String("event_id", record.EventID),
			zap.String("field", record.Field),
			zap.String("submitted", record.LedgerValue),
			zap.String("ledger", live.LedgerValue))
	}

	switch live.Field {
	case domain.FieldTicketPrice, domain.FieldMaxCapacity, domain.FieldCreatorID, domain.FieldContentMetadataRef:
		return r.db.ApplyLedgerValue(ctx, live.EventID, live.Field, live.LedgerValue)

	case domain.FieldExistence:
		return r.db.DemoteEvent(ctx, live.EventID, fmt.Sprintf("ledger record %s", live.LedgerValue))

	case domain.FieldStatus:
		if domain.EventStatus(live.LedgerValue) == domain.EventStatusCancelled {
			return r.db.UpdateStatus(ctx, live.EventID, domain.EventStatusActive, domain.EventStatusCancelled)
		}
	}
	return false, fmt.Errorf("no ledger repair for %s=%s", live.Field, live.LedgerValue)
}

// resolvePending re-checks the pending transaction of a row and activates or fails it
func (r *reconciler) resolvePending(ctx context.Context, event *domain.Event) (bool, error) {
	if event.PendingTransactionHash == nil || *event.PendingTransactionHash == "" {
		return false, nil
	}

	confirmation, err := r.ledger.LookupTransaction(ctx, event.UnsignedOperation, *event.PendingTransactionHash)
	if err != nil {
		return false, err
	}

	switch {
	case confirmation.Outcome == domain.ConfirmationRejected:
		return r.markFailed(ctx, event.ID, "ledger rejected the creation transaction")
	case confirmation.Outcome != domain.ConfirmationConfirmed:
		return false, nil
	case confirmation.EventRef != event.ID:
		return r.markFailed(ctx, event.ID, fmt.Sprintf("creation transaction created event ref %s", confirmation.EventRef))
	}

	err = r.db.ActivateEvent(ctx, event.ID, domain.LedgerLinkage{
		LedgerEventID:   confirmation.LedgerEventID,
		ContractAddress: r.ledger.ContractAddress(),
		ChainID:         r.ledger.ChainID(),
		TransactionHash: confirmation.TransactionHash,
		VerifiedAt:      r.clock.Now(),
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		return false, nil
	}
	return err == nil, err
}

func (r *reconciler) markFailed(ctx context.Context, eventID string, reason string) (bool, error) {
	err := r.db.MarkFailed(ctx, eventID, reason)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return false, nil
	}
	return err == nil, err
}
