package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	// EventStatusDraft is a row created before the ledger operation was prepared
	EventStatusDraft EventStatus = "draft"
	// EventStatusPendingLedger means an unsigned operation was issued and awaits an external signature
	EventStatusPendingLedger EventStatus = "pending_ledger"
	// EventStatusActive means the ledger confirmed the event and linkage fields are populated
	EventStatusActive EventStatus = "active"
	// EventStatusFailed means validation or an irrecoverable write error happened before activation
	EventStatusFailed EventStatus = "failed"
	// EventStatusCompleted means the event has ended
	EventStatusCompleted EventStatus = "completed"
	// EventStatusCancelled means the event was cancelled
	EventStatusCancelled EventStatus = "cancelled"
)

// eventTransitions lists the allowed status transitions
var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:         {EventStatusPendingLedger, EventStatusFailed},
	EventStatusPendingLedger: {EventStatusActive, EventStatusFailed},
	// active -> failed is the demotion of a row whose ledger record is gone
	EventStatusActive: {EventStatusCompleted, EventStatusCancelled, EventStatusFailed},
}

// CanTransition reports whether an event may move from one status to another
func CanTransition(from, to EventStatus) bool {
	for _, s := range eventTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidEventStatus checks if a status is known
func IsValidEventStatus(s EventStatus) bool {
	switch s {
	case EventStatusDraft, EventStatusPendingLedger, EventStatusActive,
		EventStatusFailed, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// InFlight reports whether the status belongs to an unfinished creation saga
func (s EventStatus) InFlight() bool {
	return s == EventStatusDraft || s == EventStatusPendingLedger
}

// Visibility controls who can list an event
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// IsValidVisibility checks if a visibility is known
func IsValidVisibility(v Visibility) bool {
	return v == VisibilityPublic || v == VisibilityPrivate || v == VisibilityUnlisted
}

// Event is the canonical event record. The relational row is the presentation copy;
// ledger facts (price, capacity, creator, existence) win whenever they conflict.
type Event struct {
	ID             string
	IdempotencyKey *string
	Title          string
	Description    string
	Location       string
	Category       string
	Tags           []string
	StartTime      time.Time
	EndTime        time.Time
	MaxCapacity    int
	TicketPrice    string // decimal ether amount, e.g. "0.01"
	Visibility     Visibility
	CreatorID      string // creator wallet address
	Status         EventStatus
	ViewCount      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Layer linkage
	LedgerEventID         *string
	LedgerContractAddress *string
	LedgerChainID         *int64
	LedgerTransactionHash *string
	LedgerVerifiedAt      *time.Time
	ContentMetadataRef    *string
	ContentImageRef       *string

	// Saga bookkeeping
	UnsignedOperation      *UnsignedOperation
	PendingTransactionHash *string
	FailureReason          *string
}

// LedgerConfirmed reports whether the event carries a verified ledger linkage.
// An event may only be active when this holds.
func (e *Event) LedgerConfirmed() bool {
	return e.LedgerTransactionHash != nil && *e.LedgerTransactionHash != "" &&
		e.LedgerVerifiedAt != nil && e.LedgerEventID != nil
}

// Purchasable reports whether the event may be shown as purchasable
func (e *Event) Purchasable() bool {
	return e.Status == EventStatusActive && e.LedgerConfirmed()
}

// DisplayStatus returns the status shown to users. Unconfirmed events are shown as processing.
func (e *Event) DisplayStatus() string {
	switch e.Status {
	case EventStatusDraft, EventStatusPendingLedger:
		return "processing"
	case EventStatusActive:
		if !e.LedgerConfirmed() {
			return "processing"
		}
	}
	return string(e.Status)
}

// LedgerLinkage holds the fields populated when the ledger confirms an event
type LedgerLinkage struct {
	LedgerEventID   string
	ContractAddress string
	ChainID         int64
	TransactionHash string
	VerifiedAt      time.Time
}

// UnsignedOperation is the exact payload an external signer must sign
type UnsignedOperation struct {
	Target   string            `json:"target"`
	Selector string            `json:"selector"`
	Method   string            `json:"method"`
	Args     map[string]string `json:"args"`
	ChainID  int64             `json:"chainId"`
	Data     string            `json:"data"`
	From     string            `json:"from"`
	Value    string            `json:"value"`
}

// SignedOperation is the handle returned by the external signer.
// Either the raw signed transaction (to be broadcast) or the hash of an already broadcast transaction.
type SignedOperation struct {
	RawTransaction  string `json:"rawTransaction,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// Empty reports whether the handle carries nothing usable
func (s SignedOperation) Empty() bool {
	return strings.TrimSpace(s.RawTransaction) == "" && strings.TrimSpace(s.TransactionHash) == ""
}

// ConfirmationOutcome is the result of waiting for ledger finality
type ConfirmationOutcome string

const (
	// ConfirmationConfirmed means the transaction was mined successfully and is final
	ConfirmationConfirmed ConfirmationOutcome = "confirmed"
	// ConfirmationRejected means the transaction was mined but reverted
	ConfirmationRejected ConfirmationOutcome = "rejected"
	// ConfirmationPending means finality was not observed within the bounded wait
	ConfirmationPending ConfirmationOutcome = "pending"
)

// LedgerConfirmation describes the outcome of ConfirmOperation or LookupTransaction
type LedgerConfirmation struct {
	Outcome         ConfirmationOutcome
	TransactionHash string
	LedgerEventID   string
	EventRef        string
	BlockNumber     uint64
	Reason          string
}

// LedgerEventParams are the draft fields written to the ledger
type LedgerEventParams struct {
	EventRef    string
	Creator     string
	MetadataURI string
	StartTime   time.Time
	EndTime     time.Time
	MaxCapacity int
	TicketPrice string
}

// LedgerEvent is an event record as read from the ledger
type LedgerEvent struct {
	LedgerEventID   string
	EventRef        string
	Creator         string
	MetadataURI     string
	StartTime       time.Time
	EndTime         time.Time
	MaxCapacity     int
	TicketPriceWei  string
	Active          bool
	ContractAddress string
	ChainID         int64
}

// Status maps the ledger active flag to an event status
func (e *LedgerEvent) Status() EventStatus {
	if e.Active {
		return EventStatusActive
	}
	return EventStatusCancelled
}

// ContentRef is a reference to an object in the content-addressed store
type ContentRef struct {
	URI      string `json:"uri"`
	Hash     string `json:"hash"`
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
}

// EventMetadata is the document pinned to the content store for each event
type EventMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Creator     string   `json:"creator"`
	Image       string   `json:"image,omitempty"`
}

// NormalizeAddress returns the lower-case hex form of an EVM address
func NormalizeAddress(address string) string {
	return strings.ToLower(common.HexToAddress(address).Hex())
}

// IsValidAddress checks if a string is a valid EVM address
func IsValidAddress(address string) bool {
	return common.IsHexAddress(address)
}
