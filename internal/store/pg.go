package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// inFlightStatuses are the statuses covered by the idempotency index
var inFlightStatuses = []schema.EventStatus{schema.EventStatusDraft, schema.EventStatusPendingLedger}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// CreateDraftEvent inserts a draft event row
func (s *pgStore) CreateDraftEvent(ctx context.Context, input CreateEventInput) (*schema.Event, bool, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	event := schema.Event{
		ID:                 input.ID,
		IdempotencyKey:     input.IdempotencyKey,
		Title:              input.Title,
		Description:        input.Description,
		Location:           input.Location,
		Category:           input.Category,
		Tags:               datatypes.JSONSlice[string](tags),
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		MaxCapacity:        input.MaxCapacity,
		TicketPrice:        input.TicketPrice,
		Visibility:         input.Visibility,
		CreatorID:          input.CreatorID,
		Status:             schema.EventStatusDraft,
		ContentMetadataRef: input.ContentMetadataRef,
		ContentImageRef:    input.ContentImageRef,
	}

	query := s.db.WithContext(ctx)
	if input.IdempotencyKey != nil {
		// Conflicts on the partial index are resolved by returning the winner
		query = query.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "idempotency_key"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "idempotency_key IS NOT NULL AND status IN ('draft', 'pending_ledger')"},
			}},
			DoNothing: true,
		})
	}

	result := query.Create(&event)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create draft event: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := s.GetInFlightEventByIdempotencyKey(ctx, *input.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("idempotency key %s conflicted but no in-flight event was found", *input.IdempotencyKey)
		}
		logger.InfoCtx(ctx, "Draft event already exists for idempotency key",
			zap.String("event_id", existing.ID),
			zap.String("idempotency_key", *input.IdempotencyKey))
		return existing, false, nil
	}

	return &event, true, nil
}

// GetEventByID retrieves an event by its id
func (s *pgStore) GetEventByID(ctx context.Context, id string) (*schema.Event, error) {
	var event schema.Event
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// GetInFlightEventByIdempotencyKey retrieves the in-flight event holding an idempotency key
func (s *pgStore) GetInFlightEventByIdempotencyKey(ctx context.Context, key string) (*schema.Event, error) {
	var event schema.Event
	err := s.db.WithContext(ctx).
		Where("idempotency_key = ? AND status IN ?", key, inFlightStatuses).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event by idempotency key: %w", err)
	}
	return &event, nil
}

// sortColumns maps the sort fields to columns
var sortColumns = map[domain.SortField]string{
	domain.SortByStartTime:   "start_time",
	domain.SortByCreatedAt:   "created_at",
	domain.SortByTicketPrice: "ticket_price",
	domain.SortByTitle:       "title",
}

// escapeLike escapes the LIKE wildcards of a user supplied term
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// GetEventsByFilter retrieves events matching the filter.
// Failed rows are excluded unless the status filter asks for them.
func (s *pgStore) GetEventsByFilter(ctx context.Context, filter domain.EventFilter) ([]schema.Event, uint64, error) {
	filter.Normalize()

	query := s.db.WithContext(ctx).Model(&schema.Event{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	} else {
		query = query.Where("status <> ?", schema.EventStatusFailed)
	}
	if filter.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", strings.TrimSpace(*filter.Category))
	}
	if filter.Location != nil {
		query = query.Where("location ILIKE ?", "%"+escapeLike(strings.TrimSpace(*filter.Location))+"%")
	}
	if filter.Visibility != nil {
		query = query.Where("visibility = ?", string(*filter.Visibility))
	}
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.Search != nil {
		term := "%" + escapeLike(strings.TrimSpace(*filter.Search)) + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ? OR tags::text ILIKE ?)", term, term, term)
	}
	if filter.MinPrice != nil {
		query = query.Where("ticket_price >= CAST(? AS NUMERIC)", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("ticket_price <= CAST(? AS NUMERIC)", *filter.MaxPrice)
	}
	if filter.StartAfter != nil {
		query = query.Where("start_time >= ?", *filter.StartAfter)
	}
	if filter.StartBefore != nil {
		query = query.Where("start_time <= ?", *filter.StartBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}
	if total == 0 {
		return []schema.Event{}, 0, nil
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[domain.SortByStartTime]
	}
	desc := filter.SortOrder == domain.SortOrderDesc

	var events []schema.Event
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get events: %w", err)
	}

	return events, uint64(total), nil //nolint:gosec,G115
}

// GetEventsForReconciliation retrieves active and pending_ledger rows ordered by updated_at, id
func (s *pgStore) GetEventsForReconciliation(ctx context.Context, limit int, offset int) ([]schema.Event, error) {
	var events []schema.Event
	err := s.db.WithContext(ctx).
		Where("status IN ?", []schema.EventStatus{schema.EventStatusActive, schema.EventStatusPendingLedger}).
		Order("updated_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get events for reconciliation: %w", err)
	}
	return events, nil
}

// MarkEventPendingLedger moves a draft row to pending_ledger
func (s *pgStore) MarkEventPendingLedger(ctx context.Context, id string, operation datatypes.JSON) (bool, error) {
	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ? AND status = ?", id, schema.EventStatusDraft).
		Updates(map[string]interface{}{
			"status":             schema.EventStatusPendingLedger,
			"unsigned_operation": operation,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark event pending ledger: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetPendingTransactionHash records a broadcast transaction on a pending_ledger row
func (s *pgStore) SetPendingTransactionHash(ctx context.Context, id string, txHash string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ? AND status = ?", id, schema.EventStatusPendingLedger).
		Updates(map[string]interface{}{
			"pending_transaction_hash": txHash,
			"updated_at":               time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set pending transaction hash: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ActivateEvent moves a pending_ledger row to active.
// This is the only update that sets status to active.
func (s *pgStore) ActivateEvent(ctx context.Context, id string, input ActivateEventInput) (bool, error) {
	var activated bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event schema.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&event).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}
		if event.Status != schema.EventStatusPendingLedger {
			return nil
		}

		result := tx.Model(&schema.Event{}).
			Where("id = ? AND status = ?", id, schema.EventStatusPendingLedger).
			Updates(map[string]interface{}{
				"status":                   schema.EventStatusActive,
				"ledger_event_id":          input.LedgerEventID,
				"ledger_contract_address":  input.ContractAddress,
				"ledger_chain_id":          input.ChainID,
				"ledger_transaction_hash":  input.TransactionHash,
				"ledger_verified_at":       input.VerifiedAt,
				"pending_transaction_hash": nil,
				"failure_reason":           nil,
				"updated_at":               time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to activate event: %w", result.Error)
		}
		activated = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return activated, nil
}

// clearedLinkage are the assignments that strip a row of its ledger linkage
func clearedLinkage(status schema.EventStatus, reason string) map[string]interface{} {
	return map[string]interface{}{
		"status":                   status,
		"failure_reason":           reason,
		"ledger_event_id":          nil,
		"ledger_contract_address":  nil,
		"ledger_chain_id":          nil,
		"ledger_transaction_hash":  nil,
		"ledger_verified_at":       nil,
		"pending_transaction_hash": nil,
		"updated_at":               time.Now().UTC(),
	}
}

// MarkEventFailed moves a draft or pending_ledger row to failed
func (s *pgStore) MarkEventFailed(ctx context.Context, id string, reason string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ? AND status IN ?", id, inFlightStatuses).
		Updates(clearedLinkage(schema.EventStatusFailed, reason))
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark event failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DemoteActiveEvent moves an active row to failed
func (s *pgStore) DemoteActiveEvent(ctx context.Context, id string, reason string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ? AND status = ?", id, schema.EventStatusActive).
		Updates(clearedLinkage(schema.EventStatusFailed, reason))
	if result.Error != nil {
		return false, fmt.Errorf("failed to demote event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateEventStatus moves a row from one status to another
func (s *pgStore) UpdateEventStatus(ctx context.Context, id string, from schema.EventStatus, to schema.EventStatus) (bool, error) {
	if to == schema.EventStatusActive {
		return false, fmt.Errorf("status %s can only be set by ActivateEvent", to)
	}

	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update event status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// UpdateEventColumnIfDistinct overwrites a reconcilable column when the stored value differs
func (s *pgStore) UpdateEventColumnIfDistinct(ctx context.Context, id string, column ReconcilableColumn, value interface{}) (bool, error) {
	var condition string
	switch column {
	case ColumnTicketPrice:
		condition = "ticket_price IS DISTINCT FROM CAST(? AS NUMERIC)"
	case ColumnMaxCapacity, ColumnCreatorID, ColumnContentMetadataRef:
		condition = string(column) + " IS DISTINCT FROM ?"
	default:
		return false, fmt.Errorf("column %s is not reconcilable", column)
	}

	result := s.db.WithContext(ctx).Model(&schema.Event{}).
		Where("id = ?", id).
		Where(condition, value).
		Updates(map[string]interface{}{
			string(column): value,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update event %s: %w", column, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateReconciliationRun stores a run summary
func (s *pgStore) CreateReconciliationRun(ctx context.Context, run *schema.ReconciliationRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create reconciliation run: %w", err)
	}
	return nil
}

// GetReconciliationRuns retrieves the most recent runs
func (s *pgStore) GetReconciliationRuns(ctx context.Context, kind *schema.ReconciliationRunKind, limit int) ([]schema.ReconciliationRun, error) {
	query := s.db.WithContext(ctx).Model(&schema.ReconciliationRun{})
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var runs []schema.ReconciliationRun
	if err := query.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to get reconciliation runs: %w", err)
	}
	return runs, nil
}
