package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/mocks"
)

func TestRedisStateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save then load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockRedisClient(ctrl)
		store := health.NewRedisStateStore(health.RedisConfig{Prefix: "test:health", TTL: time.Minute}, client, adapter.NewCodec())

		var saved string
		client.EXPECT().Set(gomock.Any(), "test:health:ledger", gomock.Any(), time.Minute).
			DoAndReturn(func(_ context.Context, _ string, value string, _ time.Duration) error {
				saved = value
				return nil
			})
		require.NoError(t, store.Save(ctx, domain.ProviderHealth{
			Provider:            domain.ProviderLedger,
			Status:              domain.HealthStatusDegraded,
			ConsecutiveFailures: 4,
			LastChecked:         now,
		}))

		client.EXPECT().Get(gomock.Any(), "test:health:ledger").DoAndReturn(
			func(context.Context, string) (string, bool, error) { return saved, true, nil })
		state, err := store.Load(ctx, domain.ProviderLedger)
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, domain.HealthStatusDegraded, state.Status)
		assert.Equal(t, 4, state.ConsecutiveFailures)
		assert.True(t, now.Equal(state.LastChecked))
	})

	t.Run("missing key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockRedisClient(ctrl)
		store := health.NewRedisStateStore(health.RedisConfig{}, client, adapter.NewCodec())

		client.EXPECT().Get(gomock.Any(), "ff-events:health:database").Return("", false, nil)
		state, err := store.Load(ctx, domain.ProviderDatabase)
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockRedisClient(ctrl)
		store := health.NewRedisStateStore(health.RedisConfig{}, client, adapter.NewCodec())

		client.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, errors.New("i/o timeout"))
		_, err := store.Load(ctx, domain.ProviderDatabase)
		assert.Error(t, err)

		client.EXPECT().Get(gomock.Any(), gomock.Any()).Return("{not json", true, nil)
		_, err = store.Load(ctx, domain.ProviderDatabase)
		assert.Error(t, err)

		client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("readonly"))
		assert.Error(t, store.Save(ctx, domain.ProviderHealth{Provider: domain.ProviderDatabase}))
	})
}
