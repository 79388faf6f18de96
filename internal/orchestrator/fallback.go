package orchestrator

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
)

// hydrate maps ledger records to events, merging their metadata documents best-effort.
// The merge stops at MetadataTimeout; unmerged records keep their ledger fields.
func (o *orchestrator) hydrate(ctx context.Context, records []domain.LedgerEvent) []domain.Event {
	events := make([]domain.Event, len(records))
	for i := range records {
		events[i] = fromLedger(records[i])
	}

	mergeCtx, cancel := context.WithTimeout(ctx, o.cfg.MetadataTimeout)
	defer cancel()

	var merged atomic.Int32
	pool := pond.NewPool(o.cfg.MetadataWorkers, pond.WithContext(mergeCtx))
	for i := range records {
		if records[i].MetadataURI == "" {
			continue
		}
		idx := i
		pool.Submit(func() {
			metadata, err := o.fetchMetadata(mergeCtx, records[idx].MetadataURI)
			if err != nil {
				logger.DebugCtx(ctx, "Metadata unavailable for ledger record",
					zap.String("ledger_event_id", records[idx].LedgerEventID),
					zap.Error(err))
				return
			}
			mergeMetadata(&events[idx], metadata)
			merged.Add(1)
		})
	}
	pool.StopAndWait()

	if mergeCtx.Err() != nil && ctx.Err() == nil {
		logger.WarnCtx(ctx, "Metadata merge timed out, serving ledger fields",
			zap.Int("records", len(records)),
			zap.Int32("merged", merged.Load()),
			zap.Duration("timeout", o.cfg.MetadataTimeout))
	}

	return events
}

func (o *orchestrator) fetchMetadata(ctx context.Context, uri string) (*domain.EventMetadata, error) {
	data, err := o.content.Get(ctx, uri)
	if err != nil {
		return nil, err
	}

	var metadata domain.EventMetadata
	if err := o.codec.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

// fromLedger builds an event from the authoritative ledger fields.
// The creation transaction is unknown here, so the event is never shown as purchasable.
func fromLedger(record domain.LedgerEvent) domain.Event {
	ledgerEventID := record.LedgerEventID
	contract := record.ContractAddress
	chainID := record.ChainID
	metadataRef := record.MetadataURI

	event := domain.Event{
		ID:                    record.EventRef,
		Tags:                  []string{},
		StartTime:             record.StartTime,
		EndTime:               record.EndTime,
		MaxCapacity:           record.MaxCapacity,
		TicketPrice:           domain.FormatWeiString(record.TicketPriceWei),
		Visibility:            domain.VisibilityPublic,
		CreatorID:             record.Creator,
		Status:                record.Status(),
		LedgerEventID:         &ledgerEventID,
		LedgerContractAddress: &contract,
		LedgerChainID:         &chainID,
	}
	if metadataRef != "" {
		event.ContentMetadataRef = &metadataRef
	}
	return event
}

// mergeMetadata copies presentation fields from the metadata document
func mergeMetadata(event *domain.Event, metadata *domain.EventMetadata) {
	event.Title = metadata.Name
	event.Description = metadata.Description
	event.Location = metadata.Location
	event.Category = metadata.Category
	if metadata.Tags != nil {
		event.Tags = metadata.Tags
	}
	if metadata.Image != "" {
		image := metadata.Image
		event.ContentImageRef = &image
	}
}

// applyFilter evaluates the filter on ledger-sourced events
func applyFilter(events []domain.Event, filter domain.EventFilter) []domain.Event {
	var minWei, maxWei *big.Int
	if filter.MinPrice != nil {
		minWei, _ = domain.ParseEther(*filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		maxWei, _ = domain.ParseEther(*filter.MaxPrice)
	}

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.ID == "" {
			continue
		}
		if filter.Status != nil {
			if e.Status != *filter.Status {
				continue
			}
		} else if e.Status == domain.EventStatusFailed {
			continue
		}
		if filter.Visibility != nil && e.Visibility != *filter.Visibility {
			continue
		}
		if filter.CreatorID != nil && e.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.Category != nil && !strings.EqualFold(e.Category, strings.TrimSpace(*filter.Category)) {
			continue
		}
		if filter.Location != nil && !domain.MatchesText(e.Location, *filter.Location) {
			continue
		}
		if filter.Search != nil && !matchesSearch(e, *filter.Search) {
			continue
		}
		if minWei != nil || maxWei != nil {
			price, err := domain.ParseEther(e.TicketPrice)
			if err != nil {
				continue
			}
			if minWei != nil && price.Cmp(minWei) < 0 {
				continue
			}
			if maxWei != nil && price.Cmp(maxWei) > 0 {
				continue
			}
		}
		if filter.StartAfter != nil && e.StartTime.Before(*filter.StartAfter) {
			continue
		}
		if filter.StartBefore != nil && e.StartTime.After(*filter.StartBefore) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesSearch(e domain.Event, query string) bool {
	if domain.MatchesText(e.Title, query) || domain.MatchesText(e.Description, query) {
		return true
	}
	for _, tag := range e.Tags {
		if domain.MatchesText(tag, query) {
			return true
		}
	}
	return false
}

// sortEvents orders events by the requested field, using the id as tiebreaker
func sortEvents(events []domain.Event, field domain.SortField, order domain.SortOrder) {
	less := func(a, b domain.Event) int {
		switch field {
		case domain.SortByTitle:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case domain.SortByTicketPrice:
			pa, errA := domain.ParseEther(a.TicketPrice)
			pb, errB := domain.ParseEther(b.TicketPrice)
			if errA != nil || errB != nil {
				return 0
			}
			return pa.Cmp(pb)
		case domain.SortByCreatedAt:
			return compareTime(a.CreatedAt, b.CreatedAt)
		default:
			return compareTime(a.StartTime, b.StartTime)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		c := less(events[i], events[j])
		if order == domain.SortOrderDesc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return events[i].ID < events[j].ID
	})
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
