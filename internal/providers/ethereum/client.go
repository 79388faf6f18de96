package ethereum

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/providers"
)

// Config holds the ledger client configuration
type Config struct {
	ChainID         int64
	ContractAddress string
	ConfirmTimeout  time.Duration
	PollInterval    time.Duration
	Confirmations   uint64
	ScanLimit       int
	ReadConcurrency int
}

// errNotFinal signals the polling loop that the transaction is not final yet
var errNotFinal = errors.New("transaction not final")

type ledgerClient struct {
	cfg      Config
	client   adapter.EthClient
	clock    adapter.Clock
	abi      abi.ABI
	contract common.Address
	signer   types.Signer
}

// NewClient creates the ledger provider backed by the event registry contract
func NewClient(cfg Config, client adapter.EthClient, clock adapter.Clock) (providers.LedgerProvider, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", cfg.ContractAddress)
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("invalid chain id: %d", cfg.ChainID)
	}

	parsed, err := parseRegistryABI()
	if err != nil {
		return nil, err
	}

	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = domain.DEFAULT_CONFIRM_TIMEOUT
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = domain.DEFAULT_POLL_INTERVAL
	}
	if cfg.Confirmations == 0 {
		cfg.Confirmations = 1
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = 500
	}
	if cfg.ReadConcurrency <= 0 {
		cfg.ReadConcurrency = 8
	}

	return &ledgerClient{
		cfg:      cfg,
		client:   client,
		clock:    clock,
		abi:      parsed,
		contract: common.HexToAddress(cfg.ContractAddress),
		signer:   types.LatestSignerForChainID(big.NewInt(cfg.ChainID)),
	}, nil
}

// VerifyChain fails when the RPC endpoint serves a different chain than the configured one
func VerifyChain(ctx context.Context, client adapter.EthClient, expected int64) error {
	actual, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chain id: %w", err)
	}
	if !actual.IsInt64() || actual.Int64() != expected {
		return fmt.Errorf("rpc endpoint serves chain %s, configured chain is %d", actual, expected)
	}
	return nil
}

func (c *ledgerClient) Name() domain.ProviderName {
	return domain.ProviderLedger
}

func (c *ledgerClient) ChainID() int64 {
	return c.cfg.ChainID
}

func (c *ledgerClient) ContractAddress() string {
	return domain.NormalizeAddress(c.contract.Hex())
}

func (c *ledgerClient) wrap(operation string, err error) error {
	return domain.NewStorageError(domain.ProviderLedger, operation, err)
}

// HealthCheck fetches the latest block header
func (c *ledgerClient) HealthCheck(ctx context.Context) domain.HealthCheckResult {
	start := c.clock.Now()
	_, err := c.client.HeaderByNumber(ctx, nil)
	return domain.HealthCheckResult{
		OK:      err == nil,
		Latency: c.clock.Since(start),
		Error:   c.wrap("healthCheck", err),
	}
}

// PrepareOperation packs the createEvent call. No network access happens here.
func (c *ledgerClient) PrepareOperation(params domain.LedgerEventParams) (*domain.UnsignedOperation, error) {
	if strings.TrimSpace(params.EventRef) == "" {
		return nil, domain.NewValidationError("eventRef", "is required")
	}
	if !domain.IsValidAddress(params.Creator) {
		return nil, domain.NewValidationError("creator", "must be a valid address")
	}
	if params.MaxCapacity <= 0 {
		return nil, domain.NewValidationError("maxCapacity", "must be positive")
	}
	priceWei, err := domain.ParseEther(params.TicketPrice)
	if err != nil {
		return nil, domain.NewValidationError("ticketPrice", err.Error())
	}

	start := big.NewInt(params.StartTime.Unix())
	end := big.NewInt(params.EndTime.Unix())
	capacity := big.NewInt(int64(params.MaxCapacity))

	data, err := c.abi.Pack(methodCreateEvent, params.EventRef, params.MetadataURI, start, end, capacity, priceWei)
	if err != nil {
		return nil, c.wrap("prepareOperation", fmt.Errorf("failed to pack data: %w", err))
	}

	return &domain.UnsignedOperation{
		Target:   c.ContractAddress(),
		Selector: hexutil.Encode(c.abi.Methods[methodCreateEvent].ID),
		Method:   methodCreateEvent,
		Args: map[string]string{
			"eventRef":    params.EventRef,
			"metadataURI": params.MetadataURI,
			"startTime":   start.String(),
			"endTime":     end.String(),
			"maxCapacity": capacity.String(),
			"ticketPrice": priceWei.String(),
		},
		ChainID: c.cfg.ChainID,
		Data:    hexutil.Encode(data),
		From:    domain.NormalizeAddress(params.Creator),
		Value:   "0",
	}, nil
}

// ConfirmOperation broadcasts a raw signed transaction when supplied, then waits for finality.
// A transaction that does not match the prepared operation is rejected before anything is sent.
func (c *ledgerClient) ConfirmOperation(ctx context.Context, prepared domain.UnsignedOperation, signed domain.SignedOperation) (*domain.LedgerConfirmation, error) {
	if signed.Empty() {
		return nil, domain.NewValidationError("signedOperation", "rawTransaction or transactionHash is required")
	}

	var txHash common.Hash
	if raw := strings.TrimSpace(signed.RawTransaction); raw != "" {
		tx, err := decodeRawTransaction(raw)
		if err != nil {
			return nil, domain.NewValidationError("rawTransaction", err.Error())
		}
		if err := c.matchesPrepared(tx, prepared); err != nil {
			return nil, domain.NewValidationError("signedOperation", err.Error())
		}
		if signed.TransactionHash != "" && !strings.EqualFold(signed.TransactionHash, tx.Hash().Hex()) {
			return nil, domain.NewValidationError("transactionHash", "does not match the raw transaction")
		}

		if err := c.client.SendTransaction(ctx, tx); err != nil && !isAlreadyKnown(err) {
			return nil, c.wrap("sendTransaction", err)
		}
		txHash = tx.Hash()

		logger.InfoCtx(ctx, "Broadcast signed ledger transaction",
			zap.String("tx_hash", txHash.Hex()),
			zap.String("event_ref", prepared.Args["eventRef"]))
	} else {
		hash, err := parseTxHash(signed.TransactionHash)
		if err != nil {
			return nil, domain.NewValidationError("transactionHash", err.Error())
		}
		txHash = hash

		tx, _, err := c.client.TransactionByHash(ctx, txHash)
		switch {
		case errors.Is(err, ethereum.NotFound):
			// not propagated yet; the finality wait decides
		case err != nil:
			return nil, c.wrap("getTransaction", err)
		default:
			if err := c.matchesPrepared(tx, prepared); err != nil {
				return nil, domain.NewValidationError("signedOperation", err.Error())
			}
		}
	}

	return c.waitForFinality(ctx, txHash)
}

// LookupTransaction checks a transaction once
func (c *ledgerClient) LookupTransaction(ctx context.Context, prepared *domain.UnsignedOperation, txHash string) (*domain.LedgerConfirmation, error) {
	hash, err := parseTxHash(txHash)
	if err != nil {
		return nil, domain.NewValidationError("transactionHash", err.Error())
	}

	if prepared != nil {
		tx, _, err := c.client.TransactionByHash(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return &domain.LedgerConfirmation{
				Outcome:         domain.ConfirmationPending,
				TransactionHash: hash.Hex(),
				Reason:          "transaction unknown to the node",
			}, nil
		}
		if err != nil {
			return nil, c.wrap("lookupTransaction", err)
		}
		if err := c.matchesPrepared(tx, *prepared); err != nil {
			return &domain.LedgerConfirmation{
				Outcome:         domain.ConfirmationRejected,
				TransactionHash: hash.Hex(),
				Reason:          err.Error(),
			}, nil
		}
	}

	confirmation, err := c.checkFinality(ctx, hash)
	if err != nil {
		return nil, c.wrap("lookupTransaction", err)
	}
	return confirmation, nil
}

// waitForFinality polls the receipt until it is final or the confirm timeout elapses
func (c *ledgerClient) waitForFinality(ctx context.Context, txHash common.Hash) (*domain.LedgerConfirmation, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmTimeout)
	defer cancel()

	var confirmation *domain.LedgerConfirmation
	var lastErr error
	operation := func() error {
		conf, err := c.checkFinality(timeoutCtx, txHash)
		if err != nil {
			lastErr = err
			logger.WarnCtx(ctx, "Failed to check transaction finality, retrying",
				zap.String("tx_hash", txHash.Hex()),
				zap.Error(err))
			return err
		}
		lastErr = nil
		if conf.Outcome == domain.ConfirmationPending {
			return errNotFinal
		}
		confirmation = conf
		return nil
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(c.cfg.PollInterval), timeoutCtx)
	if err := backoff.Retry(operation, b); err == nil {
		logger.InfoCtx(ctx, "Ledger transaction final",
			zap.String("tx_hash", txHash.Hex()),
			zap.String("outcome", string(confirmation.Outcome)),
			zap.String("ledger_event_id", confirmation.LedgerEventID))
		return confirmation, nil
	}

	if ctx.Err() != nil {
		return nil, c.wrap("confirmOperation", ctx.Err())
	}
	if lastErr != nil {
		return nil, c.wrap("confirmOperation", lastErr)
	}

	logger.WarnCtx(ctx, "Ledger transaction not final within timeout",
		zap.String("tx_hash", txHash.Hex()),
		zap.Duration("timeout", c.cfg.ConfirmTimeout))

	return &domain.LedgerConfirmation{
		Outcome:         domain.ConfirmationPending,
		TransactionHash: txHash.Hex(),
		Reason:          fmt.Sprintf("finality not observed within %s", c.cfg.ConfirmTimeout),
	}, nil
}

// checkFinality inspects the receipt of a transaction once
func (c *ledgerClient) checkFinality(ctx context.Context, txHash common.Hash) (*domain.LedgerConfirmation, error) {
	pending := &domain.LedgerConfirmation{
		Outcome:         domain.ConfirmationPending,
		TransactionHash: txHash.Hex(),
	}

	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return pending, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return &domain.LedgerConfirmation{
			Outcome:         domain.ConfirmationRejected,
			TransactionHash: txHash.Hex(),
			BlockNumber:     blockNumber,
			Reason:          "transaction reverted",
		}, nil
	}

	if c.cfg.Confirmations > 1 {
		head, err := c.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest block: %w", err)
		}
		latest := head.Number.Uint64()
		if latest < blockNumber || latest-blockNumber+1 < c.cfg.Confirmations {
			pending.BlockNumber = blockNumber
			return pending, nil
		}
	}

	eventID, eventRef, found := parseEventCreated(c.abi, c.contract, receipt.Logs)
	if !found {
		return &domain.LedgerConfirmation{
			Outcome:         domain.ConfirmationRejected,
			TransactionHash: txHash.Hex(),
			BlockNumber:     blockNumber,
			Reason:          "no EventCreated log emitted by the ledger contract",
		}, nil
	}

	return &domain.LedgerConfirmation{
		Outcome:         domain.ConfirmationConfirmed,
		TransactionHash: txHash.Hex(),
		LedgerEventID:   eventID.String(),
		EventRef:        eventRef,
		BlockNumber:     blockNumber,
	}, nil
}

// matchesPrepared checks that a signed transaction is exactly the prepared operation
func (c *ledgerClient) matchesPrepared(tx *types.Transaction, prepared domain.UnsignedOperation) error {
	if tx.To() == nil || *tx.To() != c.contract {
		return fmt.Errorf("%w: transaction does not target the ledger contract", domain.ErrOperationMismatch)
	}
	if prepared.Target != "" && common.HexToAddress(prepared.Target) != c.contract {
		return fmt.Errorf("%w: prepared for a different contract", domain.ErrOperationMismatch)
	}

	expected, err := hexutil.Decode(prepared.Data)
	if err != nil {
		return fmt.Errorf("%w: prepared calldata is invalid", domain.ErrOperationMismatch)
	}
	if !bytes.Equal(tx.Data(), expected) {
		return fmt.Errorf("%w: calldata differs from the prepared operation", domain.ErrOperationMismatch)
	}
	if tx.Value() != nil && tx.Value().Sign() != 0 {
		return fmt.Errorf("%w: transaction carries value", domain.ErrOperationMismatch)
	}
	if tx.Protected() && tx.ChainId().Cmp(big.NewInt(c.cfg.ChainID)) != 0 {
		return fmt.Errorf("%w: transaction signed for chain %s", domain.ErrOperationMismatch, tx.ChainId())
	}

	if prepared.From != "" {
		sender, err := types.Sender(c.signer, tx)
		if err != nil {
			return fmt.Errorf("%w: cannot recover signer: %v", domain.ErrOperationMismatch, err)
		}
		if sender != common.HexToAddress(prepared.From) {
			return fmt.Errorf("%w: signed by %s instead of %s", domain.ErrOperationMismatch, sender.Hex(), prepared.From)
		}
	}

	return nil
}

// GetEvent reads one ledger record
func (c *ledgerClient) GetEvent(ctx context.Context, ledgerEventID string) (*domain.LedgerEvent, error) {
	id, ok := new(big.Int).SetString(ledgerEventID, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerRecordNotFound, ledgerEventID)
	}

	data, err := c.abi.Pack(methodGetEvent, id)
	if err != nil {
		return nil, c.wrap("getEvent", fmt.Errorf("failed to pack data: %w", err))
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		if isReverted(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrLedgerRecordNotFound, ledgerEventID)
		}
		return nil, c.wrap("getEvent", fmt.Errorf("failed to call contract: %w", err))
	}

	record, err := unpackGetEvent(c.abi, result)
	if err != nil {
		return nil, c.wrap("getEvent", err)
	}
	if record.Creator == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s", domain.ErrLedgerRecordNotFound, ledgerEventID)
	}

	return &domain.LedgerEvent{
		LedgerEventID:   id.String(),
		EventRef:        record.EventRef,
		Creator:         domain.NormalizeAddress(record.Creator.Hex()),
		MetadataURI:     record.MetadataURI,
		StartTime:       time.Unix(record.StartTime.Int64(), 0).UTC(),
		EndTime:         time.Unix(record.EndTime.Int64(), 0).UTC(),
		MaxCapacity:     int(record.MaxCapacity.Int64()),
		TicketPriceWei:  record.TicketPrice.String(),
		Active:          record.Active,
		ContractAddress: c.ContractAddress(),
		ChainID:         c.cfg.ChainID,
	}, nil
}

// eventCount reads the number of ledger records
func (c *ledgerClient) eventCount(ctx context.Context) (uint64, error) {
	data, err := c.abi.Pack(methodEventCount)
	if err != nil {
		return 0, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to call contract: %w", err)
	}

	values, err := c.abi.Unpack(methodEventCount, result)
	if err != nil || len(values) != 1 {
		return 0, fmt.Errorf("failed to unpack result: %w", err)
	}
	count, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected eventCount type %T", values[0])
	}
	return count.Uint64(), nil
}

// ListEvents enumerates the newest ledger records, newest first
func (c *ledgerClient) ListEvents(ctx context.Context, limit int) ([]domain.LedgerEvent, error) {
	if limit <= 0 || limit > c.cfg.ScanLimit {
		limit = c.cfg.ScanLimit
	}

	count, err := c.eventCount(ctx)
	if err != nil {
		return nil, c.wrap("listEvents", err)
	}
	if count == 0 {
		return []domain.LedgerEvent{}, nil
	}

	n := uint64(limit)
	if n > count {
		n = count
	}

	records := make([]*domain.LedgerEvent, n)
	errs := make([]error, n)
	pool := pond.NewPool(c.cfg.ReadConcurrency, pond.WithContext(ctx))
	for i := uint64(0); i < n; i++ {
		idx := i
		ledgerEventID := strconv.FormatUint(count-idx, 10)
		pool.Submit(func() {
			records[idx], errs[idx] = c.GetEvent(ctx, ledgerEventID)
		})
	}
	pool.StopAndWait()

	if ctx.Err() != nil {
		return nil, c.wrap("listEvents", ctx.Err())
	}

	events := make([]domain.LedgerEvent, 0, n)
	for i := range records {
		if errs[i] != nil {
			if errors.Is(errs[i], domain.ErrLedgerRecordNotFound) {
				continue
			}
			return nil, c.wrap("listEvents", errs[i])
		}
		if records[i] != nil {
			events = append(events, *records[i])
		}
	}

	return events, nil
}

// decodeRawTransaction decodes a hex encoded signed transaction
func decodeRawTransaction(raw string) (*types.Transaction, error) {
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("invalid transaction encoding: %w", err)
	}
	return tx, nil
}

// parseTxHash validates and parses a 32-byte transaction hash
func parseTxHash(hash string) (common.Hash, error) {
	data, err := hexutil.Decode(strings.TrimSpace(hash))
	if err != nil || len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("must be a 0x-prefixed 32-byte hex string")
	}
	return common.BytesToHash(data), nil
}

// isAlreadyKnown reports whether a broadcast failed only because the node already has the transaction
func isAlreadyKnown(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}

// isReverted reports whether a contract call reverted
func isReverted(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}
