package dto

import (
	"time"

	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/orchestrator"
)

// Envelope wraps every API response
type Envelope struct {
	Success  bool                `json:"success"`
	Data     interface{}         `json:"data,omitempty"`
	Error    *apierrors.APIError `json:"error,omitempty"`
	Metadata ResponseMetadata    `json:"metadata"`
}

// ResponseMetadata is attached to every response
type ResponseMetadata struct {
	RequestID     string    `json:"requestId,omitempty"`
	ResponseTime  int64     `json:"responseTime"` // milliseconds
	Timestamp     time.Time `json:"timestamp"`
	PrimarySource string    `json:"primarySource,omitempty"`
	Degraded      bool      `json:"degraded,omitempty"`
}

// LedgerLinkage is the ledger part of an event response
type LedgerLinkage struct {
	EventID         string     `json:"eventId"`
	ContractAddress string     `json:"contractAddress,omitempty"`
	ChainID         int64      `json:"chainId,omitempty"`
	TransactionHash string     `json:"transactionHash,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
}

// EventResponse is the public representation of an event
type EventResponse struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	Location           string         `json:"location,omitempty"`
	Category           string         `json:"category,omitempty"`
	Tags               []string       `json:"tags"`
	StartTime          time.Time      `json:"startTime"`
	EndTime            time.Time      `json:"endTime"`
	MaxCapacity        int            `json:"maxCapacity"`
	TicketPrice        string         `json:"ticketPrice"`
	Visibility         string         `json:"visibility"`
	CreatorID          string         `json:"creatorId"`
	Status             string         `json:"status"`
	Purchasable        bool           `json:"purchasable"`
	ViewCount          int64          `json:"viewCount"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	Ledger             *LedgerLinkage `json:"ledger,omitempty"`
	ContentMetadataRef *string        `json:"contentMetadataRef,omitempty"`
	ContentImageRef    *string        `json:"contentImageRef,omitempty"`
}

// NewEventResponse maps a domain event. Status is the display status so unconfirmed events read as processing.
func NewEventResponse(e *domain.Event) EventResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	resp := EventResponse{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Location:           e.Location,
		Category:           e.Category,
		Tags:               tags,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		MaxCapacity:        e.MaxCapacity,
		TicketPrice:        e.TicketPrice,
		Visibility:         string(e.Visibility),
		CreatorID:          e.CreatorID,
		Status:             e.DisplayStatus(),
		Purchasable:        e.Purchasable(),
		ViewCount:          e.ViewCount,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
		ContentMetadataRef: e.ContentMetadataRef,
		ContentImageRef:    e.ContentImageRef,
	}

	if e.LedgerEventID != nil {
		link := &LedgerLinkage{
			EventID:    *e.LedgerEventID,
			VerifiedAt: e.LedgerVerifiedAt,
		}
		if e.LedgerContractAddress != nil {
			link.ContractAddress = *e.LedgerContractAddress
		}
		if e.LedgerChainID != nil {
			link.ChainID = *e.LedgerChainID
		}
		if e.LedgerTransactionHash != nil {
			link.TransactionHash = *e.LedgerTransactionHash
		}
		resp.Ledger = link
	}

	return resp
}

// EventListResponse is a page of events
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

// NewEventListResponse maps a domain page
func NewEventListResponse(page *domain.EventPage) EventListResponse {
	events := make([]EventResponse, 0, len(page.Events))
	for i := range page.Events {
		events = append(events, NewEventResponse(&page.Events[i]))
	}
	return EventListResponse{
		Events: events,
		Total:  page.Total,
		Page:   page.Page,
		Limit:  page.Limit,
	}
}

// PrepareEventResponse returns the operation the creator must sign
type PrepareEventResponse struct {
	EventID           string                   `json:"eventId"`
	Status            string                   `json:"status"`
	UnsignedOperation domain.UnsignedOperation `json:"unsignedOperation"`
	ContentRefs       []domain.ContentRef      `json:"contentRefs"`
	Replayed          bool                     `json:"replayed"`
}

// NewPrepareEventResponse maps an orchestrator result
func NewPrepareEventResponse(r *orchestrator.PrepareResult) PrepareEventResponse {
	refs := r.ContentRefs
	if refs == nil {
		refs = []domain.ContentRef{}
	}
	return PrepareEventResponse{
		EventID:           r.EventID,
		Status:            string(r.Status),
		UnsignedOperation: r.UnsignedOperation,
		ContentRefs:       refs,
		Replayed:          r.Replayed,
	}
}

// FinalizeEventResponse reports the outcome of a finalize call
type FinalizeEventResponse struct {
	EventID               string `json:"eventId"`
	Status                string `json:"status"`
	LedgerEventID         string `json:"ledgerEventId,omitempty"`
	LedgerTransactionHash string `json:"ledgerTransactionHash,omitempty"`
	Pending               bool   `json:"pending"`
}

// NewFinalizeEventResponse maps an orchestrator result
func NewFinalizeEventResponse(r *orchestrator.FinalizeResult) FinalizeEventResponse {
	return FinalizeEventResponse{
		EventID:               r.EventID,
		Status:                string(r.Status),
		LedgerEventID:         r.LedgerEventID,
		LedgerTransactionHash: r.LedgerTransactionHash,
		Pending:               r.Pending,
	}
}
