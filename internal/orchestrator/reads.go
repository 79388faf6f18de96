package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
)

// GetEvents lists events from the database, or from the ledger when the database cannot serve.
// Only filter validation errors are returned; provider failures degrade the page instead.
func (o *orchestrator) GetEvents(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var primary *domain.EventPage
	if o.databaseDown() {
		logger.WarnCtx(ctx, "Database reported down, reading from ledger")
	} else {
		page, err := o.readDatabase(ctx, filter)
		switch {
		case err != nil:
			logger.WarnCtx(ctx, "Database read failed, falling back to ledger", zap.Error(err))
		case len(page.Events) == 0 && filter.Page == 1 && o.cfg.FallbackOnEmpty:
			logger.InfoCtx(ctx, "Database returned no events, consulting ledger")
			primary = page
		default:
			return page, nil
		}
	}

	page, err := o.readLedger(ctx, filter)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("ledger fallback failed: %w", err))
		if primary != nil {
			return primary, nil
		}
		return &domain.EventPage{
			Events:        []domain.Event{},
			Page:          filter.Page,
			Limit:         filter.Limit,
			PrimarySource: domain.DataSourceNone,
			Degraded:      true,
		}, nil
	}

	if primary != nil && page.Total == 0 {
		return primary, nil
	}
	return page, nil
}

// databaseDown reports whether the health monitor considers the database down
func (o *orchestrator) databaseDown() bool {
	return o.health != nil && o.health.ProviderStatus(domain.ProviderDatabase) == domain.HealthStatusDown
}

// readDatabase runs the primary query under the read timeout
func (o *orchestrator) readDatabase(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	readCtx := ctx
	if o.cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, o.cfg.ReadTimeout)
		defer cancel()
	}

	events, total, err := o.db.ListEvents(readCtx, filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}

	return &domain.EventPage{
		Events:        events,
		Total:         total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		PrimarySource: domain.DataSourceDatabase,
	}, nil
}

// readLedger enumerates the ledger and applies the filters client-side
func (o *orchestrator) readLedger(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error) {
	records, err := o.ledger.ListEvents(ctx, 0)
	if err != nil {
		return nil, err
	}

	events := o.hydrate(ctx, records)
	matched := applyFilter(events, filter)
	sortEvents(matched, filter.SortBy, filter.SortOrder)

	total := int64(len(matched))
	start := filter.Offset()
	if start < 0 || start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	logger.InfoCtx(ctx, "Served events from ledger",
		zap.Int("ledger_records", len(records)),
		zap.Int64("matched", total),
		zap.Bool("client_side_filters", filter.HasOptionalFilters()))

	return &domain.EventPage{
		Events:        matched[start:end],
		Total:         total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		PrimarySource: domain.DataSourceLedger,
		Degraded:      true,
	}, nil
}
