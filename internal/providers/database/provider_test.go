package database_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/mocks"
	"github.com/feral-file/ff-events/internal/providers"
	"github.com/feral-file/ff-events/internal/providers/database"
	"github.com/feral-file/ff-events/internal/store"
	"github.com/feral-file/ff-events/internal/store/schema"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testProviderMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	clock    *mocks.MockClock
	provider providers.DatabaseProvider
}

func setupTestProvider(t *testing.T) *testProviderMocks {
	ctrl := gomock.NewController(t)
	tm := &testProviderMocks{
		ctrl:  ctrl,
		store: mocks.NewMockStore(ctrl),
		clock: mocks.NewMockClock(ctrl),
	}
	tm.provider = database.NewProvider(tm.store, tm.clock)
	return tm
}

func testRow(id string) *schema.Event {
	start := time.Date(2030, 1, 1, 20, 0, 0, 0, time.UTC)
	return &schema.Event{
		ID:          id,
		Title:       "Concert",
		Tags:        datatypes.JSONSlice[string]{"live"},
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		MaxCapacity: 100,
		TicketPrice: "0.010000000000000000",
		Visibility:  "public",
		CreatorID:   "0x1234567890123456789012345678901234567890",
		Status:      schema.EventStatusPendingLedger,
		UnsignedOperation: datatypes.JSON(
			`{"target":"0xaa","selector":"0x12345678","method":"createEvent","args":{"eventRef":"e1"},"chainId":1,"data":"0x","from":"0x1234567890123456789012345678901234567890","value":"0"}`),
	}
}

func TestProvider_HealthCheck(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	now := time.Now()
	tm.clock.EXPECT().Now().Return(now).Times(2)
	tm.clock.EXPECT().Since(now).Return(5 * time.Millisecond).Times(2)

	tm.store.EXPECT().Ping(gomock.Any()).Return(nil)
	result := tm.provider.HealthCheck(ctx)
	assert.True(t, result.OK)
	assert.Equal(t, 5*time.Millisecond, result.Latency)
	assert.NoError(t, result.Error)

	tm.store.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	result = tm.provider.HealthCheck(ctx)
	assert.False(t, result.OK)
	se, ok := domain.AsStorageError(result.Error)
	require.True(t, ok)
	assert.Equal(t, domain.ProviderDatabase, se.Provider)
	assert.Equal(t, "healthCheck", se.Operation)
}

func TestProvider_GetEvent(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	t.Run("maps the row", func(t *testing.T) {
		tm.store.EXPECT().GetEventByID(gomock.Any(), "e1").Return(testRow("e1"), nil)

		event, err := tm.provider.GetEvent(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "0.01", event.TicketPrice)
		assert.Equal(t, domain.EventStatusPendingLedger, event.Status)
		assert.Equal(t, []string{"live"}, event.Tags)
		require.NotNil(t, event.UnsignedOperation)
		assert.Equal(t, "createEvent", event.UnsignedOperation.Method)
		assert.Equal(t, "e1", event.UnsignedOperation.Args["eventRef"])
		assert.Equal(t, "processing", event.DisplayStatus())
	})

	t.Run("missing row is not a storage error", func(t *testing.T) {
		tm.store.EXPECT().GetEventByID(gomock.Any(), "missing").Return(nil, nil)

		_, err := tm.provider.GetEvent(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.False(t, domain.IsStorageError(err))
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		cause := errors.New("timeout")
		tm.store.EXPECT().GetEventByID(gomock.Any(), "e1").Return(nil, cause)

		_, err := tm.provider.GetEvent(ctx, "e1")
		se, ok := domain.AsStorageError(err)
		require.True(t, ok)
		assert.Equal(t, domain.ProviderDatabase, se.Provider)
		assert.Equal(t, "getEvent", se.Operation)
		assert.ErrorIs(t, err, cause)
	})
}

func TestProvider_CreateDraft(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	key := "idem-1"
	event := &domain.Event{
		ID:             "e2",
		IdempotencyKey: &key,
		Title:          "Concert",
		Tags:           []string{"live"},
		MaxCapacity:    100,
		TicketPrice:    "0.01",
		Visibility:     domain.VisibilityPublic,
		CreatorID:      "0x1234567890123456789012345678901234567890",
	}

	existing := testRow("e1")
	existing.IdempotencyKey = &key
	tm.store.EXPECT().
		CreateDraftEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.CreateEventInput) (*schema.Event, bool, error) {
			assert.Equal(t, "e2", input.ID)
			assert.Equal(t, "public", input.Visibility)
			assert.Equal(t, &key, input.IdempotencyKey)
			return existing, false, nil
		})

	stored, created, err := tm.provider.CreateDraft(ctx, event)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "e1", stored.ID)
}

func TestProvider_StatusWrites(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	t.Run("mark pending ledger stores the operation", func(t *testing.T) {
		tm.store.EXPECT().
			MarkEventPendingLedger(gomock.Any(), "e1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, op datatypes.JSON) (bool, error) {
				assert.JSONEq(t, `{"target":"0xaa","selector":"","method":"createEvent","args":null,"chainId":1,"data":"","from":"","value":""}`, string(op))
				return true, nil
			})

		err := tm.provider.MarkPendingLedger(ctx, "e1", domain.UnsignedOperation{Target: "0xaa", Method: "createEvent", ChainID: 1})
		require.NoError(t, err)
	})

	t.Run("mark pending ledger on a non-draft row", func(t *testing.T) {
		tm.store.EXPECT().MarkEventPendingLedger(gomock.Any(), "e1", gomock.Any()).Return(false, nil)

		err := tm.provider.MarkPendingLedger(ctx, "e1", domain.UnsignedOperation{})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("activation requires a verified linkage", func(t *testing.T) {
		err := tm.provider.ActivateEvent(ctx, "e1", domain.LedgerLinkage{LedgerEventID: "1"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("activation writes the linkage", func(t *testing.T) {
		verifiedAt := time.Now().UTC()
		tm.store.EXPECT().
			ActivateEvent(gomock.Any(), "e1", store.ActivateEventInput{
				LedgerEventID:   "7",
				ContractAddress: "0x00000000000000000000000000000000000000aa",
				ChainID:         1,
				TransactionHash: "0xabc",
				VerifiedAt:      verifiedAt,
			}).
			Return(true, nil)

		err := tm.provider.ActivateEvent(ctx, "e1", domain.LedgerLinkage{
			LedgerEventID:   "7",
			ContractAddress: "0x00000000000000000000000000000000000000AA",
			ChainID:         1,
			TransactionHash: "0xabc",
			VerifiedAt:      verifiedAt,
		})
		require.NoError(t, err)
	})

	t.Run("mark failed on a row that is no longer in flight", func(t *testing.T) {
		tm.store.EXPECT().MarkEventFailed(gomock.Any(), "e1", "reverted").Return(false, nil)

		err := tm.provider.MarkFailed(ctx, "e1", "reverted")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("update status follows the transition table", func(t *testing.T) {
		_, err := tm.provider.UpdateStatus(ctx, "e1", domain.EventStatusFailed, domain.EventStatusActive)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		tm.store.EXPECT().
			UpdateEventStatus(gomock.Any(), "e1", schema.EventStatusActive, schema.EventStatusCancelled).
			Return(true, nil)
		ok, err := tm.provider.UpdateStatus(ctx, "e1", domain.EventStatusActive, domain.EventStatusCancelled)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failed is only written with the linkage cleared", func(t *testing.T) {
		assert.True(t, domain.CanTransition(domain.EventStatusActive, domain.EventStatusFailed))

		_, err := tm.provider.UpdateStatus(ctx, "e1", domain.EventStatusActive, domain.EventStatusFailed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		tm.store.EXPECT().DemoteActiveEvent(gomock.Any(), "e1", "ledger record missing").Return(true, nil)
		ok, err := tm.provider.DemoteEvent(ctx, "e1", "ledger record missing")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestProvider_ApplyLedgerValue(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	tm.store.EXPECT().UpdateEventColumnIfDistinct(gomock.Any(), "e1", store.ColumnTicketPrice, "0.5").Return(true, nil)
	ok, err := tm.provider.ApplyLedgerValue(ctx, "e1", domain.FieldTicketPrice, "0.50")
	require.NoError(t, err)
	assert.True(t, ok)

	tm.store.EXPECT().UpdateEventColumnIfDistinct(gomock.Any(), "e1", store.ColumnMaxCapacity, 250).Return(false, nil)
	ok, err = tm.provider.ApplyLedgerValue(ctx, "e1", domain.FieldMaxCapacity, "250")
	require.NoError(t, err)
	assert.False(t, ok)

	tm.store.EXPECT().
		UpdateEventColumnIfDistinct(gomock.Any(), "e1", store.ColumnCreatorID, "0x00000000000000000000000000000000000000bb").
		Return(true, nil)
	_, err = tm.provider.ApplyLedgerValue(ctx, "e1", domain.FieldCreatorID, "0x00000000000000000000000000000000000000BB")
	require.NoError(t, err)

	_, err = tm.provider.ApplyLedgerValue(ctx, "e1", "tags", "[]")
	assert.True(t, domain.IsValidationError(err))

	_, err = tm.provider.ApplyLedgerValue(ctx, "e1", domain.FieldMaxCapacity, "many")
	assert.True(t, domain.IsValidationError(err))
}

func TestProvider_Runs(t *testing.T) {
	tm := setupTestProvider(t)
	defer tm.ctrl.Finish()
	ctx := context.Background()

	now := time.Now().UTC()
	records := []domain.DivergenceRecord{{EventID: "e1", Field: domain.FieldTicketPrice, DatabaseValue: "0.01", LedgerValue: "0.02", DetectedAt: now}}

	var saved *schema.ReconciliationRun
	tm.store.EXPECT().
		CreateReconciliationRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *schema.ReconciliationRun) error {
			saved = run
			return nil
		})

	err := tm.provider.RecordRun(ctx, domain.ReconciliationRun{
		Kind:        domain.ReconciliationRunKindCheck,
		Divergences: 1,
		Records:     records,
		StartedAt:   now,
		FinishedAt:  now,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Len(t, saved.ID, 26)
	assert.Equal(t, schema.ReconciliationRunKindCheck, saved.Kind)

	tm.store.EXPECT().GetReconciliationRuns(gomock.Any(), nil, 5).Return([]schema.ReconciliationRun{*saved}, nil)
	runs, err := tm.provider.ListRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, records[0].Key(), runs[0].Records[0].Key())
}
