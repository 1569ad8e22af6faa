package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/agrotech/fieldwatch/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReadings struct {
	*memory.ReadingRepo
}

func (failingReadings) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, errors.New("lock timeout")
}

func seed(t *testing.T, now time.Time) *memory.Store {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: "a", Name: "Norte"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "a", Kind: "humidity"}))
	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour, 50 * 24 * time.Hour} {
		r := models.Reading{ID: age.String(), SensorID: "h1", Value: 1, Timestamp: now.Add(-age)}
		require.NoError(t, store.Readings().Save(ctx, &r))
	}
	return store
}

func TestCleanupService_PruneReadings(t *testing.T) {
	now := time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
	store := seed(t, now)

	svc := New(store.Readings(), 30*24*time.Hour)
	svc.now = func() time.Time { return now }

	deleted, err := svc.PruneReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	left, err := store.Readings().ListSince(context.Background(), []string{"h1"}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestCleanupService_DisabledKeepsEverything(t *testing.T) {
	now := time.Now()
	store := seed(t, now)

	deleted, err := New(store.Readings(), 0).PruneReadings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCleanupService_PropagatesErrors(t *testing.T) {
	store := memory.NewStore()
	svc := New(failingReadings{store.Readings()}, time.Hour)

	_, err := svc.PruneReadings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock timeout")
}

func TestCleanupService_RunStopsOnCancel(t *testing.T) {
	svc := New(memory.NewStore().Readings(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retention job did not stop")
	}
}
