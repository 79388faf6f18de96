package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestEvent creates a draft event input starting `daysAhead` days from now
func buildTestEvent(title string, category string, price string, daysAhead int) CreateEventInput {
	start := time.Now().UTC().Add(time.Duration(daysAhead) * 24 * time.Hour).Truncate(time.Second)
	metadataRef := "ipfs://bafkreimetadata" + title
	return CreateEventInput{
		ID:                 uuid.NewString(),
		Title:              title,
		Description:        "Description of " + title,
		Location:           "Taipei",
		Category:           category,
		Tags:               []string{"live", category},
		StartTime:          start,
		EndTime:            start.Add(3 * time.Hour),
		MaxCapacity:        100,
		TicketPrice:        price,
		Visibility:         "public",
		CreatorID:          "0x1234567890123456789012345678901234567890",
		ContentMetadataRef: &metadataRef,
	}
}

// createPendingEvent inserts a draft and moves it to pending_ledger
func createPendingEvent(t *testing.T, store Store, input CreateEventInput) *schema.Event {
	ctx := context.Background()
	event, created, err := store.CreateDraftEvent(ctx, input)
	require.NoError(t, err)
	require.True(t, created)

	ok, err := store.MarkEventPendingLedger(ctx, event.ID, datatypes.JSON(`{"method":"createEvent"}`))
	require.NoError(t, err)
	require.True(t, ok)

	return event
}

// createActiveEvent inserts an event and activates it with the given ledger id
func createActiveEvent(t *testing.T, store Store, input CreateEventInput, ledgerEventID string) *schema.Event {
	ctx := context.Background()
	event := createPendingEvent(t, store, input)

	ok, err := store.ActivateEvent(ctx, event.ID, ActivateEventInput{
		LedgerEventID:   ledgerEventID,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		ChainID:         1,
		TransactionHash: "0xtx" + ledgerEventID,
		VerifiedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	activated, err := store.GetEventByID(ctx, event.ID)
	require.NoError(t, err)
	return activated
}

// =============================================================================
// Test: CreateDraftEvent
// =============================================================================

func testCreateDraftEvent(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("creates a draft row", func(t *testing.T) {
		input := buildTestEvent("Draft", "music", "0.01", 7)

		event, created, err := store.CreateDraftEvent(ctx, input)
		require.NoError(t, err)
		require.True(t, created)
		assert.Equal(t, input.ID, event.ID)

		stored, err := store.GetEventByID(ctx, input.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, schema.EventStatusDraft, stored.Status)
		assert.Equal(t, "Draft", stored.Title)
		assert.Equal(t, []string{"live", "music"}, []string(stored.Tags))
		assert.Equal(t, 100, stored.MaxCapacity)
		assert.Nil(t, stored.LedgerTransactionHash)
		assert.Nil(t, stored.UnsignedOperation)
		assert.True(t, input.StartTime.Equal(stored.StartTime))

		price, err := domain.NormalizePrice(stored.TicketPrice)
		require.NoError(t, err)
		assert.Equal(t, "0.01", price)
	})

	t.Run("same idempotency key returns the in-flight row", func(t *testing.T) {
		key := "idem-" + uuid.NewString()

		first := buildTestEvent("Idempotent", "music", "0.01", 7)
		first.IdempotencyKey = &key
		event1, created, err := store.CreateDraftEvent(ctx, first)
		require.NoError(t, err)
		require.True(t, created)

		second := buildTestEvent("Idempotent again", "music", "0.01", 7)
		second.IdempotencyKey = &key
		event2, created, err := store.CreateDraftEvent(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, event1.ID, event2.ID)

		missing, err := store.GetEventByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("key is released once the row leaves the in-flight statuses", func(t *testing.T) {
		key := "idem-" + uuid.NewString()

		first := buildTestEvent("Released", "music", "0.01", 7)
		first.IdempotencyKey = &key
		event1, _, err := store.CreateDraftEvent(ctx, first)
		require.NoError(t, err)

		ok, err := store.MarkEventFailed(ctx, event1.ID, "ledger rejected")
		require.NoError(t, err)
		require.True(t, ok)

		second := buildTestEvent("Released retry", "music", "0.01", 7)
		second.IdempotencyKey = &key
		event2, created, err := store.CreateDraftEvent(ctx, second)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, event1.ID, event2.ID)
	})

	t.Run("in-flight lookup by key", func(t *testing.T) {
		key := "idem-" + uuid.NewString()
		input := buildTestEvent("Lookup", "music", "0.01", 7)
		input.IdempotencyKey = &key
		createPendingEvent(t, store, input)

		event, err := store.GetInFlightEventByIdempotencyKey(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, input.ID, event.ID)
		assert.Equal(t, schema.EventStatusPendingLedger, event.Status)

		none, err := store.GetInFlightEventByIdempotencyKey(ctx, "idem-unknown")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("get non-existent event returns nil", func(t *testing.T) {
		event, err := store.GetEventByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, event)
	})
}

// =============================================================================
// Test: status transitions
// =============================================================================

func testStatusTransitions(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("pending ledger only from draft", func(t *testing.T) {
		event := createPendingEvent(t, store, buildTestEvent("Pending", "talk", "0", 3))

		ok, err := store.MarkEventPendingLedger(ctx, event.ID, datatypes.JSON(`{}`))
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := store.GetEventByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.EventStatusPendingLedger, stored.Status)
		assert.JSONEq(t, `{"method":"createEvent"}`, string(stored.UnsignedOperation))
	})

	t.Run("activation writes linkage and clears the pending hash", func(t *testing.T) {
		event := createPendingEvent(t, store, buildTestEvent("Activate", "talk", "0", 3))

		ok, err := store.SetPendingTransactionHash(ctx, event.ID, "0xpending")
		require.NoError(t, err)
		require.True(t, ok)

		activated := createActiveEventFromPending(t, store, event.ID, "42")
		assert.Equal(t, schema.EventStatusActive, activated.Status)
		require.NotNil(t, activated.LedgerEventID)
		assert.Equal(t, "42", *activated.LedgerEventID)
		require.NotNil(t, activated.LedgerTransactionHash)
		assert.Equal(t, "0xtx42", *activated.LedgerTransactionHash)
		assert.NotNil(t, activated.LedgerVerifiedAt)
		assert.Nil(t, activated.PendingTransactionHash)
	})

	t.Run("activation is refused unless pending ledger", func(t *testing.T) {
		input := buildTestEvent("Draft only", "talk", "0", 3)
		event, _, err := store.CreateDraftEvent(ctx, input)
		require.NoError(t, err)

		ok, err := store.ActivateEvent(ctx, event.ID, ActivateEventInput{
			LedgerEventID:   "1",
			ContractAddress: "0x00000000000000000000000000000000000000aa",
			ChainID:         1,
			TransactionHash: "0xtx",
			VerifiedAt:      time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.ActivateEvent(ctx, uuid.NewString(), ActivateEventInput{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("failed rows carry no linkage", func(t *testing.T) {
		event := createPendingEvent(t, store, buildTestEvent("Fail", "talk", "0", 3))
		_, err := store.SetPendingTransactionHash(ctx, event.ID, "0xpending")
		require.NoError(t, err)

		ok, err := store.MarkEventFailed(ctx, event.ID, "transaction reverted")
		require.NoError(t, err)
		require.True(t, ok)

		stored, err := store.GetEventByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.EventStatusFailed, stored.Status)
		assert.Nil(t, stored.PendingTransactionHash)
		assert.Nil(t, stored.LedgerTransactionHash)
		require.NotNil(t, stored.FailureReason)
		assert.Equal(t, "transaction reverted", *stored.FailureReason)

		// failed is terminal for MarkEventFailed
		ok, err = store.MarkEventFailed(ctx, event.ID, "again")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("active rows cannot be marked failed but can be demoted", func(t *testing.T) {
		active := createActiveEvent(t, store, buildTestEvent("Demote", "talk", "0", 3), "77")

		ok, err := store.MarkEventFailed(ctx, active.ID, "nope")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.DemoteActiveEvent(ctx, active.ID, "ledger record missing")
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := store.GetEventByID(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.EventStatusFailed, stored.Status)
		assert.Nil(t, stored.LedgerEventID)
		assert.Nil(t, stored.LedgerVerifiedAt)
	})

	t.Run("generic status update is guarded", func(t *testing.T) {
		active := createActiveEvent(t, store, buildTestEvent("Cancel", "talk", "0", 3), "78")

		ok, err := store.UpdateEventStatus(ctx, active.ID, schema.EventStatusPendingLedger, schema.EventStatusFailed)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.UpdateEventStatus(ctx, active.ID, schema.EventStatusActive, schema.EventStatusCancelled)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = store.UpdateEventStatus(ctx, active.ID, schema.EventStatusCancelled, schema.EventStatusActive)
		assert.Error(t, err)
	})
}

// createActiveEventFromPending activates an existing pending_ledger row
func createActiveEventFromPending(t *testing.T, store Store, id string, ledgerEventID string) *schema.Event {
	ctx := context.Background()
	ok, err := store.ActivateEvent(ctx, id, ActivateEventInput{
		LedgerEventID:   ledgerEventID,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		ChainID:         1,
		TransactionHash: "0xtx" + ledgerEventID,
		VerifiedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	event, err := store.GetEventByID(ctx, id)
	require.NoError(t, err)
	return event
}

// =============================================================================
// Test: GetEventsByFilter
// =============================================================================

func testGetEventsByFilter(t *testing.T, store Store) {
	ctx := context.Background()
	category := "filter-" + uuid.NewString()[:8]

	cheap := createActiveEvent(t, store, buildTestEvent("Cheap Jazz Night", category, "0.01", 2), "101")
	mid := createActiveEvent(t, store, buildTestEvent("Mid Rock Show", category, "0.5", 4), "102")
	pending := createPendingEvent(t, store, buildTestEvent("Pricey Opera", category, "2", 6))
	failedInput := buildTestEvent("Failed Gig", category, "1", 8)
	failed, _, err := store.CreateDraftEvent(ctx, failedInput)
	require.NoError(t, err)
	_, err = store.MarkEventFailed(ctx, failed.ID, "boom")
	require.NoError(t, err)

	ids := func(events []schema.Event) []string {
		out := make([]string, 0, len(events))
		for _, e := range events {
			out = append(out, e.ID)
		}
		return out
	}

	t.Run("category filter excludes failed rows by default", func(t *testing.T) {
		events, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		assert.Equal(t, []string{cheap.ID, mid.ID, pending.ID}, ids(events))
	})

	t.Run("category match is case insensitive", func(t *testing.T) {
		upper := fmt.Sprintf("  %s  ", category)
		_, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &upper})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
	})

	t.Run("status filter", func(t *testing.T) {
		status := domain.EventStatusFailed
		events, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		assert.Equal(t, []string{failed.ID}, ids(events))
	})

	t.Run("price range", func(t *testing.T) {
		minPrice, maxPrice := "0.1", "1"
		events, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category, MinPrice: &minPrice, MaxPrice: &maxPrice})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		assert.Equal(t, []string{mid.ID}, ids(events))
	})

	t.Run("date range", func(t *testing.T) {
		after := time.Now().UTC().Add(3 * 24 * time.Hour)
		before := time.Now().UTC().Add(5 * 24 * time.Hour)
		events, _, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category, StartAfter: &after, StartBefore: &before})
		require.NoError(t, err)
		assert.Equal(t, []string{mid.ID}, ids(events))
	})

	t.Run("search matches title", func(t *testing.T) {
		search := "jazz"
		events, _, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category, Search: &search})
		require.NoError(t, err)
		assert.Equal(t, []string{cheap.ID}, ids(events))
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		search := "%"
		events, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &category, Search: &search})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), total)
		assert.Empty(t, events)
	})

	t.Run("sort by price descending with pagination", func(t *testing.T) {
		filter := domain.EventFilter{
			Category:  &category,
			SortBy:    domain.SortByTicketPrice,
			SortOrder: domain.SortOrderDesc,
			Page:      1,
			Limit:     2,
		}
		events, total, err := store.GetEventsByFilter(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		assert.Equal(t, []string{pending.ID, mid.ID}, ids(events))

		filter.Page = 2
		events, _, err = store.GetEventsByFilter(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{cheap.ID}, ids(events))
	})

	t.Run("no match returns empty page", func(t *testing.T) {
		unknown := "no-such-category"
		events, total, err := store.GetEventsByFilter(ctx, domain.EventFilter{Category: &unknown})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), total)
		assert.Empty(t, events)
	})
}

// =============================================================================
// Test: reconciliation
// =============================================================================

func testReconciliation(t *testing.T, store Store) {
	ctx := context.Background()

	active := createActiveEvent(t, store, buildTestEvent("Reconcile", "sync", "0.01", 5), "201")
	pending := createPendingEvent(t, store, buildTestEvent("Reconcile pending", "sync", "0.01", 5))

	t.Run("batch contains active and pending rows in a stable order", func(t *testing.T) {
		first, err := store.GetEventsForReconciliation(ctx, 1000, 0)
		require.NoError(t, err)
		second, err := store.GetEventsForReconciliation(ctx, 1000, 0)
		require.NoError(t, err)

		var found []string
		for _, e := range first {
			assert.Contains(t, []schema.EventStatus{schema.EventStatusActive, schema.EventStatusPendingLedger}, e.Status)
			if e.ID == active.ID || e.ID == pending.ID {
				found = append(found, e.ID)
			}
		}
		assert.Len(t, found, 2)
		assert.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("conditional update is a no-op when equal", func(t *testing.T) {
		ok, err := store.UpdateEventColumnIfDistinct(ctx, active.ID, ColumnTicketPrice, "0.0100")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.UpdateEventColumnIfDistinct(ctx, active.ID, ColumnMaxCapacity, 100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("conditional update writes when different", func(t *testing.T) {
		ok, err := store.UpdateEventColumnIfDistinct(ctx, active.ID, ColumnTicketPrice, "0.02")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.UpdateEventColumnIfDistinct(ctx, active.ID, ColumnMaxCapacity, 250)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := store.GetEventByID(ctx, active.ID)
		require.NoError(t, err)
		price, err := domain.NormalizePrice(stored.TicketPrice)
		require.NoError(t, err)
		assert.Equal(t, "0.02", price)
		assert.Equal(t, 250, stored.MaxCapacity)

		ok, err = store.UpdateEventColumnIfDistinct(ctx, active.ID, ColumnTicketPrice, "0.02")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown column is rejected", func(t *testing.T) {
		_, err := store.UpdateEventColumnIfDistinct(ctx, active.ID, ReconcilableColumn("status"), "active")
		assert.Error(t, err)
	})

	t.Run("runs are listed newest first", func(t *testing.T) {
		now := time.Now().UTC()
		older := &schema.ReconciliationRun{
			ID:          "01HZZZZZZZZZZZZZZZZZZZZZZA",
			Kind:        schema.ReconciliationRunKindCheck,
			Divergences: 2,
			Details:     datatypes.JSON(`[]`),
			StartedAt:   now.Add(-time.Hour),
			FinishedAt:  now.Add(-time.Hour),
		}
		newer := &schema.ReconciliationRun{
			ID:         "01HZZZZZZZZZZZZZZZZZZZZZZB",
			Kind:       schema.ReconciliationRunKindSync,
			Repaired:   1,
			Skipped:    1,
			StartedAt:  now,
			FinishedAt: now,
		}
		require.NoError(t, store.CreateReconciliationRun(ctx, older))
		require.NoError(t, store.CreateReconciliationRun(ctx, newer))

		runs, err := store.GetReconciliationRuns(ctx, nil, 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(runs), 2)
		assert.Equal(t, newer.ID, runs[0].ID)

		kind := schema.ReconciliationRunKindCheck
		runs, err = store.GetReconciliationRuns(ctx, &kind, 10)
		require.NoError(t, err)
		for _, r := range runs {
			assert.Equal(t, schema.ReconciliationRunKindCheck, r.Kind)
		}
	})
}

func testPing(t *testing.T, store Store) {
	require.NoError(t, store.Ping(context.Background()))
}

// RunStoreTests runs all store tests against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Ping", testPing},
		{"CreateDraftEvent", testCreateDraftEvent},
		{"StatusTransitions", testStatusTransitions},
		{"GetEventsByFilter", testGetEventsByFilter},
		{"Reconciliation", testReconciliation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			tt.fn(t, store)
		})
	}
}
