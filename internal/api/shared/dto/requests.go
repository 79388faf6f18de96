package dto

import (
	"fmt"
	"strings"
	"time"

	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/orchestrator"
)

// MAX_SYNC_RECORDS caps the divergence records accepted by one data sync request
const MAX_SYNC_RECORDS = 1000

// CreateEventRequest represents the request body for preparing a new event.
// Banner is the base64 encoded image.
type CreateEventRequest struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	MaxCapacity    int       `json:"maxCapacity"`
	TicketPrice    string    `json:"ticketPrice"`
	Visibility     string    `json:"visibility"`
	CreatorID      string    `json:"creatorId"`
	Banner         []byte    `json:"banner,omitempty"`
}

// ToInput converts the request to orchestrator input.
// An Idempotency-Key header takes precedence over the body field.
func (r *CreateEventRequest) ToInput(headerKey string) orchestrator.PrepareInput {
	key := r.IdempotencyKey
	if strings.TrimSpace(headerKey) != "" {
		key = headerKey
	}

	visibility := domain.Visibility(r.Visibility)
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	return orchestrator.PrepareInput{
		IdempotencyKey: key,
		Title:          r.Title,
		Description:    r.Description,
		Location:       r.Location,
		Category:       r.Category,
		Tags:           r.Tags,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		MaxCapacity:    r.MaxCapacity,
		TicketPrice:    r.TicketPrice,
		Visibility:     visibility,
		CreatorID:      r.CreatorID,
		Banner:         r.Banner,
	}
}

// FinalizeEventRequest carries the handle returned by the external signer
type FinalizeEventRequest struct {
	RawTransaction  string `json:"rawTransaction"`
	TransactionHash string `json:"transactionHash"`
}

// Validate validates the request body
func (r *FinalizeEventRequest) Validate() error {
	if strings.TrimSpace(r.RawTransaction) == "" && strings.TrimSpace(r.TransactionHash) == "" {
		return apierrors.NewValidationError("rawTransaction or transactionHash is required")
	}
	return nil
}

// ToSignedOperation converts the request to the domain handle
func (r *FinalizeEventRequest) ToSignedOperation() domain.SignedOperation {
	return domain.SignedOperation{
		RawTransaction:  strings.TrimSpace(r.RawTransaction),
		TransactionHash: strings.TrimSpace(r.TransactionHash),
	}
}

// DataSyncRequest optionally carries the divergence records to repair.
// An empty list repairs whatever a fresh consistency check finds.
type DataSyncRequest struct {
	Records []domain.DivergenceRecord `json:"records"`
}

// Validate validates the request body
func (r *DataSyncRequest) Validate() error {
	if len(r.Records) > MAX_SYNC_RECORDS {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d records allowed", MAX_SYNC_RECORDS))
	}
	for i, record := range r.Records {
		if record.EventID == "" || record.Field == "" {
			return apierrors.NewValidationError(fmt.Sprintf("records[%d] requires event_id and field", i))
		}
	}
	return nil
}
