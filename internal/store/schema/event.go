package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EventStatus is the lifecycle status stored on an event row
type EventStatus string

const (
	// EventStatusDraft is a row inserted before the ledger operation was prepared
	EventStatusDraft EventStatus = "draft"
	// EventStatusPendingLedger is a row whose unsigned ledger operation awaits a signature
	EventStatusPendingLedger EventStatus = "pending_ledger"
	// EventStatusActive is a row confirmed on the ledger
	EventStatusActive EventStatus = "active"
	// EventStatusFailed is a row whose creation failed irrecoverably
	EventStatusFailed EventStatus = "failed"
	// EventStatusCompleted is an event that has ended
	EventStatusCompleted EventStatus = "completed"
	// EventStatusCancelled is an event cancelled by its organizer or deactivated on the ledger
	EventStatusCancelled EventStatus = "cancelled"
)

// Event represents the events table - the presentation copy of an event and its linkage to the ledger and content store
type Event struct {
	// ID is the event identifier (UUID) generated when the draft is inserted; it is also the ledger event reference
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// IdempotencyKey is the caller supplied token deduplicating in-flight creations
	IdempotencyKey *string `gorm:"column:idempotency_key;type:text"`
	// Title is the event title
	Title string `gorm:"column:title;not null;type:text"`
	// Description is the free-form event description
	Description string `gorm:"column:description;not null;default:'';type:text"`
	// Location is the venue or place of the event
	Location string `gorm:"column:location;not null;default:'';type:text"`
	// Category is the event category (e.g., "music")
	Category string `gorm:"column:category;not null;default:'';type:text"`
	// Tags are search tags; presentation only, not tracked on the ledger
	Tags datatypes.JSONSlice[string] `gorm:"column:tags;not null;default:'[]';type:jsonb"`
	// StartTime is when the event starts
	StartTime time.Time `gorm:"column:start_time;not null;type:timestamptz"`
	// EndTime is when the event ends
	EndTime time.Time `gorm:"column:end_time;not null;type:timestamptz"`
	// MaxCapacity is the maximum number of tickets
	MaxCapacity int `gorm:"column:max_capacity;not null"`
	// TicketPrice is the ticket price in ether
	TicketPrice string `gorm:"column:ticket_price;not null;type:numeric(38,18)"`
	// Visibility is public, private or unlisted
	Visibility string `gorm:"column:visibility;not null;default:public;type:text"`
	// CreatorID is the lower-case address of the organizer wallet
	CreatorID string `gorm:"column:creator_id;not null;type:text"`
	// Status is the saga checkpoint of the event
	Status EventStatus `gorm:"column:status;not null;default:draft;type:text"`
	// ViewCount is a presentation counter, not tracked on the ledger
	ViewCount int64 `gorm:"column:view_count;not null;default:0"`

	// LedgerEventID is the id assigned by the ledger contract (uint256 as decimal string)
	LedgerEventID *string `gorm:"column:ledger_event_id;type:text"`
	// LedgerContractAddress is the contract holding the ledger record
	LedgerContractAddress *string `gorm:"column:ledger_contract_address;type:text"`
	// LedgerChainID is the EVM chain id of the ledger
	LedgerChainID *int64 `gorm:"column:ledger_chain_id"`
	// LedgerTransactionHash is the confirmed creation transaction
	LedgerTransactionHash *string `gorm:"column:ledger_transaction_hash;type:text"`
	// LedgerVerifiedAt is when the creation transaction was verified against the ledger
	LedgerVerifiedAt *time.Time `gorm:"column:ledger_verified_at;type:timestamptz"`
	// ContentMetadataRef is the content store URI of the metadata document
	ContentMetadataRef *string `gorm:"column:content_metadata_ref;type:text"`
	// ContentImageRef is the content store URI of the banner image
	ContentImageRef *string `gorm:"column:content_image_ref;type:text"`

	// UnsignedOperation is the exact payload handed to the external signer
	UnsignedOperation datatypes.JSON `gorm:"column:unsigned_operation;type:jsonb"`
	// PendingTransactionHash is a broadcast transaction whose finality was not yet observed
	PendingTransactionHash *string `gorm:"column:pending_transaction_hash;type:text"`
	// FailureReason explains why the row moved to failed
	FailureReason *string `gorm:"column:failure_reason;type:text"`

	// CreatedAt is the timestamp when the row was inserted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last change to the row
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}
