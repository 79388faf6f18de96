package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/mocks"
)

const (
	testChainID  = int64(11155111)
	testContract = "0x00000000000000000000000000000000000000aa"
	testEventRef = "0b9f2a4e-57c1-4a52-9d6f-3c5f7f0e4a11"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type testFixture struct {
	client  *ledgerClient
	eth     *mocks.MockEthClient
	key     *ecdsa.PrivateKey
	creator common.Address
}

func newTestFixture(t *testing.T, mutate func(*Config)) *testFixture {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)

	cfg := Config{
		ChainID:         testChainID,
		ContractAddress: testContract,
		ConfirmTimeout:  100 * time.Millisecond,
		PollInterval:    5 * time.Millisecond,
		Confirmations:   1,
		ScanLimit:       10,
		ReadConcurrency: 2,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	provider, err := NewClient(cfg, eth, adapter.NewClock())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return &testFixture{
		client:  provider.(*ledgerClient),
		eth:     eth,
		key:     key,
		creator: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (f *testFixture) params() domain.LedgerEventParams {
	return domain.LedgerEventParams{
		EventRef:    testEventRef,
		Creator:     f.creator.Hex(),
		MetadataURI: "ipfs://bafkreiexample",
		StartTime:   time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 11, 1, 22, 0, 0, 0, time.UTC),
		MaxCapacity: 250,
		TicketPrice: "0.05",
	}
}

func (f *testFixture) prepare(t *testing.T) domain.UnsignedOperation {
	op, err := f.client.PrepareOperation(f.params())
	require.NoError(t, err)
	return *op
}

func (f *testFixture) signTx(t *testing.T, to common.Address, data []byte, chainID int64) *types.Transaction {
	tx, err := types.SignNewTx(f.key, types.LatestSignerForChainID(big.NewInt(chainID)), &types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     1,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(30_000_000_000),
		Gas:       300_000,
		To:        &to,
		Value:     big.NewInt(0),
		Data:      data,
	})
	require.NoError(t, err)
	return tx
}

func (f *testFixture) signPrepared(t *testing.T, op domain.UnsignedOperation) *types.Transaction {
	return f.signTx(t, f.client.contract, hexutil.MustDecode(op.Data), testChainID)
}

func rawTx(t *testing.T, tx *types.Transaction) string {
	data, err := tx.MarshalBinary()
	require.NoError(t, err)
	return hexutil.Encode(data)
}

func (f *testFixture) eventCreatedLog(t *testing.T, ledgerEventID int64, eventRef string) *types.Log {
	event := f.client.abi.Events[eventEventCreated]
	data, err := event.Inputs.NonIndexed().Pack(eventRef)
	require.NoError(t, err)

	return &types.Log{
		Address: f.client.contract,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(ledgerEventID)),
			common.BytesToHash(f.creator.Bytes()),
		},
		Data: data,
	}
}

func successReceipt(block int64, logs ...*types.Log) *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(block),
		Logs:        logs,
	}
}

func (f *testFixture) packGetEvent(t *testing.T, creator common.Address, eventRef string, active bool) []byte {
	data, err := f.client.abi.Methods[methodGetEvent].Outputs.Pack(
		creator,
		eventRef,
		"ipfs://bafkreiexample",
		big.NewInt(time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC).Unix()),
		big.NewInt(time.Date(2026, 11, 1, 22, 0, 0, 0, time.UTC).Unix()),
		big.NewInt(250),
		big.NewInt(50_000_000_000_000_000),
		active,
	)
	require.NoError(t, err)
	return data
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{ChainID: 1, ContractAddress: "not-an-address"}, nil, adapter.NewClock())
	assert.Error(t, err)

	_, err = NewClient(Config{ChainID: 0, ContractAddress: testContract}, nil, adapter.NewClock())
	assert.Error(t, err)

	provider, err := NewClient(Config{ChainID: 5, ContractAddress: "0x00000000000000000000000000000000000000AA"}, nil, adapter.NewClock())
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderLedger, provider.Name())
	assert.Equal(t, int64(5), provider.ChainID())
	assert.Equal(t, testContract, provider.ContractAddress())
}

func TestVerifyChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	ctx := context.Background()

	eth.EXPECT().ChainID(ctx).Return(big.NewInt(testChainID), nil)
	assert.NoError(t, VerifyChain(ctx, eth, testChainID))

	eth.EXPECT().ChainID(ctx).Return(big.NewInt(1), nil)
	err := VerifyChain(ctx, eth, testChainID)
	assert.ErrorContains(t, err, "serves chain 1")

	eth.EXPECT().ChainID(ctx).Return(nil, errors.New("connection refused"))
	assert.ErrorContains(t, VerifyChain(ctx, eth, testChainID), "connection refused")
}

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	provider, err := NewClient(Config{ChainID: testChainID, ContractAddress: testContract}, eth, clock)
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("healthy", func(t *testing.T) {
		clock.EXPECT().Now().Return(start)
		eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Number: big.NewInt(100)}, nil)
		clock.EXPECT().Since(start).Return(40 * time.Millisecond)

		result := provider.HealthCheck(context.Background())
		assert.True(t, result.OK)
		assert.Equal(t, 40*time.Millisecond, result.Latency)
		assert.NoError(t, result.Error)
	})

	t.Run("rpc down", func(t *testing.T) {
		clock.EXPECT().Now().Return(start)
		eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(nil, errors.New("connection refused"))
		clock.EXPECT().Since(start).Return(time.Second)

		result := provider.HealthCheck(context.Background())
		assert.False(t, result.OK)
		assert.True(t, domain.IsStorageError(result.Error))
	})
}

func TestPrepareOperation(t *testing.T) {
	f := newTestFixture(t, nil)

	t.Run("packs createEvent", func(t *testing.T) {
		op := f.prepare(t)

		assert.Equal(t, testContract, op.Target)
		assert.Equal(t, methodCreateEvent, op.Method)
		assert.Equal(t, hexutil.Encode(f.client.abi.Methods[methodCreateEvent].ID), op.Selector)
		assert.Equal(t, testChainID, op.ChainID)
		assert.Equal(t, domain.NormalizeAddress(f.creator.Hex()), op.From)
		assert.Equal(t, "0", op.Value)
		assert.Equal(t, "50000000000000000", op.Args["ticketPrice"])
		assert.Equal(t, "250", op.Args["maxCapacity"])
		assert.Equal(t, testEventRef, op.Args["eventRef"])

		data := hexutil.MustDecode(op.Data)
		values, err := f.client.abi.Methods[methodCreateEvent].Inputs.Unpack(data[4:])
		require.NoError(t, err)
		assert.Equal(t, testEventRef, values[0])
		assert.Equal(t, "ipfs://bafkreiexample", values[1])
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, f.prepare(t), f.prepare(t))
	})

	tests := []struct {
		name   string
		mutate func(*domain.LedgerEventParams)
		field  string
	}{
		{"missing event ref", func(p *domain.LedgerEventParams) { p.EventRef = " " }, "eventRef"},
		{"bad creator", func(p *domain.LedgerEventParams) { p.Creator = "0x123" }, "creator"},
		{"zero capacity", func(p *domain.LedgerEventParams) { p.MaxCapacity = 0 }, "maxCapacity"},
		{"negative price", func(p *domain.LedgerEventParams) { p.TicketPrice = "-1" }, "ticketPrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := f.params()
			tt.mutate(&params)

			_, err := f.client.PrepareOperation(params)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestConfirmOperation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty signed operation", func(t *testing.T) {
		f := newTestFixture(t, nil)
		_, err := f.client.ConfirmOperation(ctx, f.prepare(t), domain.SignedOperation{})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("raw transaction confirmed", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, sent *types.Transaction) error {
				assert.Equal(t, tx.Hash(), sent.Hash())
				return nil
			})
		gomock.InOrder(
			f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, ethereum.NotFound),
			f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
				Return(successReceipt(42, f.eventCreatedLog(t, 7, testEventRef)), nil),
		)

		conf, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{RawTransaction: rawTx(t, tx)})
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationConfirmed, conf.Outcome)
		assert.Equal(t, "7", conf.LedgerEventID)
		assert.Equal(t, testEventRef, conf.EventRef)
		assert.Equal(t, uint64(42), conf.BlockNumber)
		assert.Equal(t, tx.Hash().Hex(), conf.TransactionHash)
	})

	t.Run("already known transaction is tolerated", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("already known"))
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
			Return(successReceipt(42, f.eventCreatedLog(t, 7, testEventRef)), nil)

		conf, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{RawTransaction: rawTx(t, tx)})
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationConfirmed, conf.Outcome)
	})

	t.Run("broadcast failure is a storage error", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("nonce too low"))

		_, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{RawTransaction: rawTx(t, tx)})
		se, ok := domain.AsStorageError(err)
		require.True(t, ok)
		assert.Equal(t, domain.ProviderLedger, se.Provider)
		assert.Equal(t, "sendTransaction", se.Operation)
	})

	t.Run("mismatching transactions are never broadcast", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		other := common.HexToAddress("0x00000000000000000000000000000000000000bb")

		cases := map[string]*types.Transaction{
			"other contract": f.signTx(t, other, hexutil.MustDecode(op.Data), testChainID),
			"other calldata": f.signTx(t, f.client.contract, []byte{0x01, 0x02, 0x03, 0x04}, testChainID),
			"other chain":    f.signTx(t, f.client.contract, hexutil.MustDecode(op.Data), 1),
		}
		for name, tx := range cases {
			_, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{RawTransaction: rawTx(t, tx)})
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve, name)
			assert.Equal(t, "signedOperation", ve.Field, name)
		}

		// signed by someone other than the prepared creator
		stranger := newTestFixture(t, nil)
		tx := stranger.signTx(t, f.client.contract, hexutil.MustDecode(op.Data), testChainID)
		_, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{RawTransaction: rawTx(t, tx)})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("hash that disagrees with raw transaction", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		_, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{
			RawTransaction:  rawTx(t, tx),
			TransactionHash: common.HexToHash("0x01").Hex(),
		})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("malformed raw transaction", func(t *testing.T) {
		f := newTestFixture(t, nil)
		_, err := f.client.ConfirmOperation(ctx, f.prepare(t), domain.SignedOperation{RawTransaction: "0xzz"})
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("reverted receipt is rejected", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(tx, false, nil)
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
			Return(&types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(9)}, nil)

		conf, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{TransactionHash: tx.Hash().Hex()})
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationRejected, conf.Outcome)
		assert.Equal(t, "transaction reverted", conf.Reason)
	})

	t.Run("receipt without EventCreated is rejected", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(nil, false, ethereum.NotFound)
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(successReceipt(9), nil)

		conf, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{TransactionHash: tx.Hash().Hex()})
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationRejected, conf.Outcome)
	})

	t.Run("timeout returns pending", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(tx, true, nil)
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, ethereum.NotFound).AnyTimes()

		conf, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{TransactionHash: tx.Hash().Hex()})
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationPending, conf.Outcome)
		assert.Equal(t, tx.Hash().Hex(), conf.TransactionHash)
		assert.NotEmpty(t, conf.Reason)
	})

	t.Run("persistent rpc failure is a storage error", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(tx, true, nil)
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).Return(nil, errors.New("503 service unavailable")).AnyTimes()

		_, err := f.client.ConfirmOperation(ctx, op, domain.SignedOperation{TransactionHash: tx.Hash().Hex()})
		assert.True(t, domain.IsStorageError(err))
	})

	t.Run("cancelled caller context", func(t *testing.T) {
		f := newTestFixture(t, func(c *Config) { c.ConfirmTimeout = time.Minute })
		op := f.prepare(t)
		tx := f.signPrepared(t, op)

		cctx, cancel := context.WithCancel(ctx)
		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(tx, true, nil)
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), tx.Hash()).
			DoAndReturn(func(context.Context, common.Hash) (*types.Receipt, error) {
				cancel()
				return nil, ethereum.NotFound
			}).AnyTimes()

		_, err := f.client.ConfirmOperation(cctx, op, domain.SignedOperation{TransactionHash: tx.Hash().Hex()})
		assert.True(t, domain.IsStorageError(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLookupTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("waits for confirmations", func(t *testing.T) {
		f := newTestFixture(t, func(c *Config) { c.Confirmations = 3 })
		hash := common.HexToHash("0xabc1")

		f.eth.EXPECT().TransactionReceipt(gomock.Any(), hash).
			Return(successReceipt(100, f.eventCreatedLog(t, 7, testEventRef)), nil).Times(2)
		gomock.InOrder(
			f.eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Number: big.NewInt(101)}, nil),
			f.eth.EXPECT().HeaderByNumber(gomock.Any(), nil).Return(&types.Header{Number: big.NewInt(102)}, nil),
		)

		conf, err := f.client.LookupTransaction(ctx, nil, hash.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationPending, conf.Outcome)

		conf, err = f.client.LookupTransaction(ctx, nil, hash.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationConfirmed, conf.Outcome)
		assert.Equal(t, "7", conf.LedgerEventID)
	})

	t.Run("unknown transaction is pending", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		hash := common.HexToHash("0xabc2")

		f.eth.EXPECT().TransactionByHash(gomock.Any(), hash).Return(nil, false, ethereum.NotFound)

		conf, err := f.client.LookupTransaction(ctx, &op, hash.Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationPending, conf.Outcome)
	})

	t.Run("mismatching transaction is rejected", func(t *testing.T) {
		f := newTestFixture(t, nil)
		op := f.prepare(t)
		tx := f.signTx(t, f.client.contract, []byte{0xde, 0xad, 0xbe, 0xef}, testChainID)

		f.eth.EXPECT().TransactionByHash(gomock.Any(), tx.Hash()).Return(tx, false, nil)

		conf, err := f.client.LookupTransaction(ctx, &op, tx.Hash().Hex())
		require.NoError(t, err)
		assert.Equal(t, domain.ConfirmationRejected, conf.Outcome)
	})

	t.Run("invalid hash", func(t *testing.T) {
		f := newTestFixture(t, nil)
		_, err := f.client.LookupTransaction(ctx, nil, "0x1234")
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("rpc error", func(t *testing.T) {
		f := newTestFixture(t, nil)
		hash := common.HexToHash("0xabc3")
		f.eth.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(nil, errors.New("timeout"))

		_, err := f.client.LookupTransaction(ctx, nil, hash.Hex())
		assert.True(t, domain.IsStorageError(err))
	})
}

func TestGetEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				assert.Equal(t, f.client.contract, *msg.To)
				values, err := f.client.abi.Methods[methodGetEvent].Inputs.Unpack(msg.Data[4:])
				require.NoError(t, err)
				assert.Equal(t, big.NewInt(7), values[0])
				return f.packGetEvent(t, f.creator, testEventRef, true), nil
			})

		event, err := f.client.GetEvent(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "7", event.LedgerEventID)
		assert.Equal(t, testEventRef, event.EventRef)
		assert.Equal(t, domain.NormalizeAddress(f.creator.Hex()), event.Creator)
		assert.Equal(t, 250, event.MaxCapacity)
		assert.Equal(t, "50000000000000000", event.TicketPriceWei)
		assert.Equal(t, domain.EventStatusActive, event.Status())
		assert.Equal(t, time.Date(2026, 11, 1, 18, 0, 0, 0, time.UTC), event.StartTime)
		assert.Equal(t, testContract, event.ContractAddress)
		assert.Equal(t, testChainID, event.ChainID)
	})

	t.Run("zero creator is not found", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			Return(f.packGetEvent(t, common.Address{}, "", false), nil)

		_, err := f.client.GetEvent(ctx, "99")
		assert.ErrorIs(t, err, domain.ErrLedgerRecordNotFound)
		assert.False(t, domain.IsStorageError(err))
	})

	t.Run("revert is not found", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			Return(nil, errors.New("execution reverted: unknown event"))

		_, err := f.client.GetEvent(ctx, "99")
		assert.ErrorIs(t, err, domain.ErrLedgerRecordNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newTestFixture(t, nil)
		_, err := f.client.GetEvent(ctx, "abc")
		assert.ErrorIs(t, err, domain.ErrLedgerRecordNotFound)
	})

	t.Run("rpc failure", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(nil, errors.New("connection reset"))

		_, err := f.client.GetEvent(ctx, "1")
		assert.True(t, domain.IsStorageError(err))
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()

	countSelector := func(f *testFixture) []byte {
		return f.client.abi.Methods[methodEventCount].ID
	}

	t.Run("newest first skipping missing records", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				if string(msg.Data[:4]) == string(countSelector(f)) {
					return f.client.abi.Methods[methodEventCount].Outputs.Pack(big.NewInt(3))
				}
				values, err := f.client.abi.Methods[methodGetEvent].Inputs.Unpack(msg.Data[4:])
				require.NoError(t, err)
				switch values[0].(*big.Int).Int64() {
				case 2:
					return nil, errors.New("execution reverted")
				default:
					return f.packGetEvent(t, f.creator, "ref-"+values[0].(*big.Int).String(), true), nil
				}
			}).Times(4)

		events, err := f.client.ListEvents(ctx, 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "3", events[0].LedgerEventID)
		assert.Equal(t, "ref-3", events[0].EventRef)
		assert.Equal(t, "1", events[1].LedgerEventID)
	})

	t.Run("limit bounds the scan", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				if string(msg.Data[:4]) == string(countSelector(f)) {
					return f.client.abi.Methods[methodEventCount].Outputs.Pack(big.NewInt(50))
				}
				return f.packGetEvent(t, f.creator, testEventRef, true), nil
			}).Times(3)

		events, err := f.client.ListEvents(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "50", events[0].LedgerEventID)
		assert.Equal(t, "49", events[1].LedgerEventID)
	})

	t.Run("empty ledger", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			Return(f.client.abi.Methods[methodEventCount].Outputs.Pack(big.NewInt(0)))

		events, err := f.client.ListEvents(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("read failure", func(t *testing.T) {
		f := newTestFixture(t, nil)
		f.eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(nil, errors.New("connection refused"))

		_, err := f.client.ListEvents(ctx, 10)
		assert.True(t, domain.IsStorageError(err))
	})
}

func TestParseEventCreated(t *testing.T) {
	f := newTestFixture(t, nil)

	foreign := f.eventCreatedLog(t, 1, "foreign")
	foreign.Address = common.HexToAddress("0x00000000000000000000000000000000000000cc")

	id, ref, found := parseEventCreated(f.client.abi, f.client.contract, []*types.Log{
		nil,
		foreign,
		{Address: f.client.contract, Topics: []common.Hash{common.HexToHash("0x01")}},
		f.eventCreatedLog(t, 12, testEventRef),
	})
	require.True(t, found)
	assert.Equal(t, big.NewInt(12), id)
	assert.Equal(t, testEventRef, ref)

	_, _, found = parseEventCreated(f.client.abi, f.client.contract, []*types.Log{foreign})
	assert.False(t, found)
}
