package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

// Config holds the orchestrator configuration
type Config struct {
	MinCapacity     int
	MaxCapacity     int
	MaxBannerSize   int
	ReadTimeout     time.Duration
	FallbackOnEmpty bool
	MetadataWorkers int
	// MetadataTimeout bounds the metadata merge of a ledger fallback read.
	// Records not merged in time are served with their ledger fields only.
	MetadataTimeout time.Duration

	// Content writes retry with exponential backoff
	ContentMaxAttempts     uint64
	ContentInitialInterval time.Duration
	ContentMaxInterval     time.Duration
	// ContentAttemptTimeout bounds a single content write attempt
	ContentAttemptTimeout time.Duration
}

// HealthReporter exposes the health state the read path consults before querying the database
type HealthReporter interface {
	ProviderStatus(provider domain.ProviderName) domain.HealthStatus
}

// PrepareInput are the caller supplied fields of a new event
type PrepareInput struct {
	IdempotencyKey string
	Title          string
	Description    string
	Location       string
	Category       string
	Tags           []string
	StartTime      time.Time
	EndTime        time.Time
	MaxCapacity    int
	TicketPrice    string
	Visibility     domain.Visibility
	CreatorID      string
	Banner         []byte
}

// PrepareResult is returned once the unsigned ledger operation was issued
type PrepareResult struct {
	EventID           string
	Status            domain.EventStatus
	UnsignedOperation domain.UnsignedOperation
	ContentRefs       []domain.ContentRef
	// Replayed is set when an in-flight creation holding the idempotency key was returned
	Replayed bool
}

// FinalizeResult is returned by FinalizeEventCreation
type FinalizeResult struct {
	EventID               string
	Status                domain.EventStatus
	LedgerEventID         string
	LedgerTransactionHash string
	// Pending is set when finality was not observed within the bounded wait
	Pending bool
}

// Orchestrator coordinates event writes and reads across the relational store,
// the ledger and the content store
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// PrepareEventCreation pins content, inserts the draft and returns the operation to sign
	PrepareEventCreation(ctx context.Context, input PrepareInput) (*PrepareResult, error)
	// FinalizeEventCreation confirms the signed operation and activates the event
	FinalizeEventCreation(ctx context.Context, eventID string, signed domain.SignedOperation) (*FinalizeResult, error)
	// GetEvents lists events, falling back to the ledger when the database cannot serve
	GetEvents(ctx context.Context, filter domain.EventFilter) (*domain.EventPage, error)
	// GetEvent returns a single event from the database
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
}

type orchestrator struct {
	cfg     Config
	db      providers.DatabaseProvider
	ledger  providers.LedgerProvider
	content providers.ContentProvider
	health  HealthReporter
	clock   adapter.Clock
	codec   adapter.Codec
}

// New creates an orchestrator. health may be nil, in which case the database is always tried first.
func New(
	cfg Config,
	db providers.DatabaseProvider,
	ledger providers.LedgerProvider,
	content providers.ContentProvider,
	health HealthReporter,
	clock adapter.Clock,
	codec adapter.Codec,
) Orchestrator {
	if cfg.MinCapacity <= 0 {
		cfg.MinCapacity = domain.DEFAULT_MIN_CAPACITY
	}
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = domain.DEFAULT_MAX_CAPACITY
	}
	if cfg.MaxBannerSize <= 0 {
		cfg.MaxBannerSize = domain.DEFAULT_MAX_BANNER_SIZE
	}
	if cfg.MetadataWorkers <= 0 {
		cfg.MetadataWorkers = 8
	}
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = 3 * time.Second
	}
	if cfg.ContentMaxAttempts == 0 {
		cfg.ContentMaxAttempts = 3
	}
	if cfg.ContentInitialInterval <= 0 {
		cfg.ContentInitialInterval = 500 * time.Millisecond
	}
	if cfg.ContentMaxInterval <= 0 {
		cfg.ContentMaxInterval = 2 * time.Second
	}
	if cfg.ContentAttemptTimeout <= 0 {
		cfg.ContentAttemptTimeout = 10 * time.Second
	}

	return &orchestrator{
		cfg:     cfg,
		db:      db,
		ledger:  ledger,
		content: content,
		health:  health,
		clock:   clock,
		codec:   codec,
	}
}

// PrepareEventCreation runs the first half of the creation saga.
// The row status is the checkpoint: a draft resumes at the ledger step, a pending_ledger row is returned as is.
func (o *orchestrator) PrepareEventCreation(ctx context.Context, input PrepareInput) (*PrepareResult, error) {
	if input.IdempotencyKey != "" {
		if err := validateIdempotencyKey(input.IdempotencyKey); err != nil {
			return nil, err
		}

		existing, err := o.db.GetEventByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logger.InfoCtx(ctx, "Resuming in-flight event creation",
				zap.String("event_id", existing.ID),
				zap.String("status", string(existing.Status)))
			return o.resume(ctx, existing)
		}
	}

	draft, err := o.validate(input)
	if err != nil {
		return nil, err
	}

	// Content first: a failure here aborts before any relational write
	refs, err := o.pinContent(ctx, input, draft)
	if err != nil {
		return nil, err
	}

	draft.ID = uuid.NewString()
	stored, created, err := o.db.CreateDraft(ctx, draft)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to insert draft: %w", err),
			zap.String("content_metadata_ref", *draft.ContentMetadataRef))
		return nil, err
	}
	if !created {
		logger.InfoCtx(ctx, "Concurrent creation holds the idempotency key",
			zap.String("event_id", stored.ID),
			zap.String("status", string(stored.Status)))
		return o.resume(ctx, stored)
	}

	logger.InfoCtx(ctx, "Inserted draft event",
		zap.String("event_id", stored.ID),
		zap.String("creator", stored.CreatorID))

	result, err := o.issueOperation(ctx, stored)
	if err != nil {
		return nil, err
	}
	result.ContentRefs = refs
	return result, nil
}

// resume continues an in-flight creation found through its idempotency key
func (o *orchestrator) resume(ctx context.Context, event *domain.Event) (*PrepareResult, error) {
	switch event.Status {
	case domain.EventStatusPendingLedger:
		return preparedResult(event, true)
	case domain.EventStatusDraft:
		result, err := o.issueOperation(ctx, event)
		if err != nil {
			return nil, err
		}
		result.Replayed = true
		return result, nil
	default:
		return nil, fmt.Errorf("%w: event %s is %s", domain.ErrInvalidTransition, event.ID, event.Status)
	}
}

// issueOperation prepares the ledger operation for a draft and moves it to pending_ledger.
// A failure leaves the row in draft so the same idempotency key can retry.
func (o *orchestrator) issueOperation(ctx context.Context, event *domain.Event) (*PrepareResult, error) {
	metadataURI := ""
	if event.ContentMetadataRef != nil {
		metadataURI = *event.ContentMetadataRef
	}

	op, err := o.ledger.PrepareOperation(domain.LedgerEventParams{
		EventRef:    event.ID,
		Creator:     event.CreatorID,
		MetadataURI: metadataURI,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		MaxCapacity: event.MaxCapacity,
		TicketPrice: event.TicketPrice,
	})
	if err != nil {
		logger.WarnCtx(ctx, "Failed to prepare ledger operation, draft kept",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return nil, err
	}

	if err := o.db.MarkPendingLedger(ctx, event.ID, *op); err != nil {
		if !errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}

		// Another request moved the draft first; serve whatever it stored
		current, getErr := o.db.GetEvent(ctx, event.ID)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status != domain.EventStatusPendingLedger {
			return nil, err
		}
		return preparedResult(current, true)
	}

	logger.InfoCtx(ctx, "Issued unsigned ledger operation",
		zap.String("event_id", event.ID),
		zap.String("target", op.Target),
		zap.Int64("chain_id", op.ChainID))

	event.Status = domain.EventStatusPendingLedger
	event.UnsignedOperation = op
	return preparedResult(event, false)
}

// preparedResult builds the result of a pending_ledger event
func preparedResult(event *domain.Event, replayed bool) (*PrepareResult, error) {
	if event.UnsignedOperation == nil {
		return nil, fmt.Errorf("%w: event %s has no prepared operation", domain.ErrInvalidTransition, event.ID)
	}

	var refs []domain.ContentRef
	if event.ContentImageRef != nil {
		refs = append(refs, domain.ContentRef{URI: *event.ContentImageRef})
	}
	if event.ContentMetadataRef != nil {
		refs = append(refs, domain.ContentRef{URI: *event.ContentMetadataRef, MimeType: domain.CONTENT_METADATA_MIME_TYPE})
	}

	return &PrepareResult{
		EventID:           event.ID,
		Status:            event.Status,
		UnsignedOperation: *event.UnsignedOperation,
		ContentRefs:       refs,
		Replayed:          replayed,
	}, nil
}

// FinalizeEventCreation runs the second half of the creation saga.
// Activation happens only here, and only after the ledger confirmed the operation for this event.
func (o *orchestrator) FinalizeEventCreation(ctx context.Context, eventID string, signed domain.SignedOperation) (*FinalizeResult, error) {
	if signed.Empty() {
		return nil, domain.NewValidationError("signedOperation", "rawTransaction or transactionHash is required")
	}
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, domain.NewValidationError("eventId", "must be a UUID")
	}

	event, err := o.db.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusPendingLedger {
		return nil, fmt.Errorf("%w: event %s is %s, expected %s",
			domain.ErrInvalidTransition, eventID, event.Status, domain.EventStatusPendingLedger)
	}
	if event.UnsignedOperation == nil {
		return nil, fmt.Errorf("%w: event %s has no prepared operation", domain.ErrInvalidTransition, eventID)
	}

	confirmation, err := o.ledger.ConfirmOperation(ctx, *event.UnsignedOperation, signed)
	if err != nil {
		// Row stays pending_ledger; reconciliation picks it up if the transaction lands later
		logger.WarnCtx(ctx, "Failed to confirm ledger operation",
			zap.String("event_id", eventID),
			zap.Error(err))
		if hash := signed.TransactionHash; hash != "" && !domain.IsValidationError(err) {
			o.recordPending(ctx, eventID, hash)
		}
		return nil, err
	}

	switch confirmation.Outcome {
	case domain.ConfirmationConfirmed:
		return o.activate(ctx, event, confirmation)

	case domain.ConfirmationRejected:
		reason := confirmation.Reason
		if reason == "" {
			reason = "ledger rejected the operation"
		}
		if err := o.db.MarkFailed(ctx, eventID, reason); err != nil {
			return nil, err
		}

		logger.WarnCtx(ctx, "Ledger rejected event creation",
			zap.String("event_id", eventID),
			zap.String("tx_hash", confirmation.TransactionHash),
			zap.String("reason", reason))

		return nil, domain.NewStorageError(domain.ProviderLedger, "confirmOperation",
			fmt.Errorf("%w: %s", domain.ErrLedgerRejected, reason))

	default:
		if confirmation.TransactionHash != "" {
			if err := o.db.RecordPendingTransaction(ctx, eventID, confirmation.TransactionHash); err != nil {
				return nil, err
			}
		}

		logger.InfoCtx(ctx, "Ledger finality not observed, event stays pending",
			zap.String("event_id", eventID),
			zap.String("tx_hash", confirmation.TransactionHash))

		return &FinalizeResult{
			EventID:               eventID,
			Status:                domain.EventStatusPendingLedger,
			LedgerTransactionHash: confirmation.TransactionHash,
			Pending:               true,
		}, nil
	}
}

// activate verifies a confirmation belongs to the event and writes the linkage
func (o *orchestrator) activate(ctx context.Context, event *domain.Event, confirmation *domain.LedgerConfirmation) (*FinalizeResult, error) {
	if confirmation.TransactionHash == "" || confirmation.LedgerEventID == "" {
		return nil, domain.NewStorageError(domain.ProviderLedger, "confirmOperation",
			fmt.Errorf("confirmation without transaction hash or ledger event id"))
	}
	if confirmation.EventRef != event.ID {
		o.recordPending(ctx, event.ID, confirmation.TransactionHash)
		return nil, domain.NewStorageError(domain.ProviderLedger, "confirmOperation",
			fmt.Errorf("%w: ledger recorded event ref %q", domain.ErrOperationMismatch, confirmation.EventRef))
	}

	linkage := domain.LedgerLinkage{
		LedgerEventID:   confirmation.LedgerEventID,
		ContractAddress: o.ledger.ContractAddress(),
		ChainID:         o.ledger.ChainID(),
		TransactionHash: confirmation.TransactionHash,
		VerifiedAt:      o.clock.Now(),
	}

	if err := o.db.ActivateEvent(ctx, event.ID, linkage); err != nil {
		if !errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}

		// A concurrent finalize may have activated the same transaction
		current, getErr := o.db.GetEvent(ctx, event.ID)
		if getErr != nil {
			return nil, getErr
		}
		if !current.Purchasable() || *current.LedgerTransactionHash != confirmation.TransactionHash {
			return nil, err
		}
	}

	logger.InfoCtx(ctx, "Activated event",
		zap.String("event_id", event.ID),
		zap.String("ledger_event_id", linkage.LedgerEventID),
		zap.String("tx_hash", linkage.TransactionHash))

	return &FinalizeResult{
		EventID:               event.ID,
		Status:                domain.EventStatusActive,
		LedgerEventID:         linkage.LedgerEventID,
		LedgerTransactionHash: linkage.TransactionHash,
	}, nil
}

// recordPending stores a transaction hash for reconciliation, logging instead of failing
func (o *orchestrator) recordPending(ctx context.Context, eventID, txHash string) {
	if err := o.db.RecordPendingTransaction(ctx, eventID, txHash); err != nil {
		logger.WarnCtx(ctx, "Failed to record pending transaction",
			zap.String("event_id", eventID),
			zap.String("tx_hash", txHash),
			zap.Error(err))
	}
}

// GetEvent returns one event from the database
func (o *orchestrator) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewValidationError("eventId", "must be a UUID")
	}
	return o.db.GetEvent(ctx, id)
}
