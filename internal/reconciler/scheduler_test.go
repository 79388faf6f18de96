package reconciler_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/mocks"
	"github.com/feral-file/ff-events/internal/reconciler"
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

func TestNew_RegistersConfiguredJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockReconciler(ctrl)

	tests := []struct {
		name string
		cfg  reconciler.Config
		jobs int
	}{
		{"both", reconciler.Config{CheckSchedule: "*/15 * * * *", SyncSchedule: "@hourly"}, 2},
		{"check only", reconciler.Config{CheckSchedule: "@every 5m"}, 1},
		{"none", reconciler.Config{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := reconciler.New(tt.cfg, rec)
			require.NoError(t, err)
			assert.Equal(t, tt.jobs, s.Jobs())
		})
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockReconciler(ctrl)

	_, err := reconciler.New(reconciler.Config{CheckSchedule: "every tuesday"}, rec)
	assert.ErrorContains(t, err, "consistency check schedule")

	_, err = reconciler.New(reconciler.Config{SyncSchedule: "61 * * * *"}, rec)
	assert.ErrorContains(t, err, "data sync schedule")
}

func TestRunCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockReconciler(ctrl)

	s, err := reconciler.New(reconciler.Config{JobTimeout: time.Second}, rec)
	require.NoError(t, err)

	rec.EXPECT().RunConsistencyCheck(gomock.Any()).DoAndReturn(func(ctx context.Context) (*health.CheckResult, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return &health.CheckResult{RunID: "run-1", Records: []domain.DivergenceRecord{}}, nil
	})
	require.NoError(t, s.RunCheck(context.Background()))

	failure := errors.New("ledger unreachable")
	rec.EXPECT().RunConsistencyCheck(gomock.Any()).Return(nil, failure)
	assert.ErrorIs(t, s.RunCheck(context.Background()), failure)
}

func TestRunSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockReconciler(ctrl)

	s, err := reconciler.New(reconciler.Config{}, rec)
	require.NoError(t, err)

	rec.EXPECT().RunDataSync(gomock.Any(), nil).Return(&health.SyncResult{RunID: "run-2", Repaired: 3}, nil)
	require.NoError(t, s.RunSync(context.Background()))
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := mocks.NewMockReconciler(ctrl)

	ran := make(chan struct{}, 4)
	rec.EXPECT().RunConsistencyCheck(gomock.Any()).DoAndReturn(func(context.Context) (*health.CheckResult, error) {
		ran <- struct{}{}
		return &health.CheckResult{}, nil
	}).MinTimes(1)

	s, err := reconciler.New(reconciler.Config{CheckSchedule: "@every 1s"}, rec)
	require.NoError(t, err)
	s.Start()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("consistency check did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
