package database

import (
	"encoding/json"
	"fmt"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/store/schema"
)

// toDomainEvent converts an event row into the domain event
func toDomainEvent(row *schema.Event) (*domain.Event, error) {
	price, err := domain.NormalizePrice(row.TicketPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket price %q on event %s: %w", row.TicketPrice, row.ID, err)
	}

	event := &domain.Event{
		ID:                     row.ID,
		IdempotencyKey:         row.IdempotencyKey,
		Title:                  row.Title,
		Description:            row.Description,
		Location:               row.Location,
		Category:               row.Category,
		Tags:                   []string(row.Tags),
		StartTime:              row.StartTime.UTC(),
		EndTime:                row.EndTime.UTC(),
		MaxCapacity:            row.MaxCapacity,
		TicketPrice:            price,
		Visibility:             domain.Visibility(row.Visibility),
		CreatorID:              row.CreatorID,
		Status:                 domain.EventStatus(row.Status),
		ViewCount:              row.ViewCount,
		CreatedAt:              row.CreatedAt.UTC(),
		UpdatedAt:              row.UpdatedAt.UTC(),
		LedgerEventID:          row.LedgerEventID,
		LedgerContractAddress:  row.LedgerContractAddress,
		LedgerChainID:          row.LedgerChainID,
		LedgerTransactionHash:  row.LedgerTransactionHash,
		LedgerVerifiedAt:       row.LedgerVerifiedAt,
		ContentMetadataRef:     row.ContentMetadataRef,
		ContentImageRef:        row.ContentImageRef,
		PendingTransactionHash: row.PendingTransactionHash,
		FailureReason:          row.FailureReason,
	}
	if event.Tags == nil {
		event.Tags = []string{}
	}

	if len(row.UnsignedOperation) > 0 && string(row.UnsignedOperation) != "null" {
		var op domain.UnsignedOperation
		if err := json.Unmarshal(row.UnsignedOperation, &op); err != nil {
			return nil, fmt.Errorf("invalid unsigned operation on event %s: %w", row.ID, err)
		}
		event.UnsignedOperation = &op
	}

	return event, nil
}

// toDomainEvents converts event rows into domain events
func toDomainEvents(rows []schema.Event) ([]domain.Event, error) {
	events := make([]domain.Event, 0, len(rows))
	for i := range rows {
		event, err := toDomainEvent(&rows[i])
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}
