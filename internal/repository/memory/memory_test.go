package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	s := NewStore()
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSectorRepo_SaveGetList(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Sectors()

	require.NoError(t, repo.Save(ctx, &models.Sector{ID: "b", Name: "Sur", HumidityMin: 25, TempMax: 38}))
	require.NoError(t, repo.Save(ctx, &models.Sector{ID: "a", Name: "Norte", HumidityMin: 30, TempMax: 40}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Norte", got.Name)
	assert.Equal(t, fixedNow, got.CreatedAt)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "insertion order is kept")

	// update keeps position and creation time
	require.NoError(t, repo.Save(ctx, &models.Sector{ID: "b", Name: "Sur Renamed", HumidityMin: 20, TempMax: 38}))
	list, _ = repo.List(ctx)
	assert.Equal(t, "Sur Renamed", list[0].Name)
	assert.Equal(t, fixedNow, list[0].CreatedAt)
}

func TestSectorRepo_GetMissing(t *testing.T) {
	_, err := newTestStore().Sectors().Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSectorRepo_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore().Sectors()
	require.NoError(t, repo.Save(ctx, &models.Sector{ID: "a", Name: "Norte", HumidityMin: 30}))

	got, _ := repo.Get(ctx, "a")
	got.HumidityMin = 99

	again, _ := repo.Get(ctx, "a")
	assert.Equal(t, 30.0, again.HumidityMin)
}

func TestSensorRepo_RequiresExistingSector(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	err := store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "ghost", Kind: "humidity"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: "a", Name: "Norte"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "a", Kind: "humidity"}))

	bySector, err := store.Sensors().ListBySector(ctx, "a")
	require.NoError(t, err)
	require.Len(t, bySector, 1)
	assert.Equal(t, "h1", bySector[0].ID)

	empty, err := store.Sensors().ListBySector(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSectorRepo_ListWithSensors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: "a", Name: "Norte"}))
	require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: "b", Name: "Sur"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "t1", SectorID: "b", Kind: "temperature"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "a", Kind: "humidity"}))

	sectors, err := store.Sectors().ListWithSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "a", sectors[0].ID)
	assert.Equal(t, []string{"h1"}, models.SensorIDs(sectors[0].Sensors))
	assert.Equal(t, []string{"t1"}, models.SensorIDs(sectors[1].Sensors))
}

func TestReadingRepo_ListSinceAndRetention(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: "a", Name: "Norte"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "a", Kind: "humidity"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h2", SectorID: "a", Kind: "humidity"}))

	readings := store.Readings()
	for _, r := range []models.Reading{
		{ID: "r1", SensorID: "h1", Value: 10, Timestamp: fixedNow.Add(-time.Hour)},
		{ID: "r2", SensorID: "h1", Value: 11, Timestamp: fixedNow.Add(-30 * time.Hour)},
		{ID: "r3", SensorID: "h2", Value: 12, Timestamp: fixedNow.Add(-2 * time.Hour)},
	} {
		r := r
		require.NoError(t, readings.Save(ctx, &r))
	}

	since := fixedNow.Add(-24 * time.Hour)
	got, err := readings.ListSince(ctx, []string{"h1"}, since)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	history, err := readings.ListBySensor(ctx, "h1", fixedNow.Add(-48*time.Hour), fixedNow)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r1", history[0].ID, "newest first")

	deleted, err := readings.DeleteBefore(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	all, _ := readings.ListSince(ctx, []string{"h1", "h2"}, time.Time{})
	assert.Len(t, all, 2)
}

func TestReadingRepo_UnknownSensor(t *testing.T) {
	err := newTestStore().Readings().Save(context.Background(), &models.Reading{SensorID: "ghost", Value: 1})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestStore_DeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Sectors().Save(ctx, &models.Sector{ID: id, Name: id}))
	}
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h1", SectorID: "a", Kind: "humidity"}))
	require.NoError(t, store.Sensors().Save(ctx, &models.Sensor{ID: "h2", SectorID: "a", Kind: "humidity"}))
	for _, id := range []string{"h1", "h2", "h1"} {
		require.NoError(t, store.Readings().Save(ctx, &models.Reading{SensorID: id, Value: 1, Timestamp: fixedNow}))
	}

	deleted, err := store.Readings().DeleteBySensors(ctx, []string{"h1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	left, _ := store.Readings().ListSince(ctx, []string{"h1", "h2"}, time.Time{})
	require.Len(t, left, 1)
	assert.Equal(t, "h2", left[0].SensorID)

	require.NoError(t, store.Sensors().Delete(ctx, "h1"))
	_, err = store.Sensors().Get(ctx, "h1")
	assert.True(t, errors.IsNotFound(err))
	sensors, _ := store.Sensors().List(ctx)
	require.Len(t, sensors, 1)
	assert.Equal(t, "h2", sensors[0].ID)

	require.NoError(t, store.Sectors().Delete(ctx, "b"))
	sectors, _ := store.Sectors().List(ctx)
	require.Len(t, sectors, 2)
	assert.Equal(t, "a", sectors[0].ID)
	assert.Equal(t, "c", sectors[1].ID)

	assert.True(t, errors.IsNotFound(store.Sectors().Delete(ctx, "b")))
	assert.True(t, errors.IsNotFound(store.Sensors().Delete(ctx, "ghost")))
}

const snapshotYAML = `
sectors:
  - id: norte
    name: Sector Norte
    humidity_min: 30
    temp_max: 40
    sensors:
      - id: h1
        name: Humedad Norte
        kind: Humedad
      - id: t1
        name: Termo Norte
        kind: temperatura
  - id: sur
    name: Sector Sur
    humidity_min: 20
    temp_max: 35
readings:
  - sensor_id: h1
    value: 10
    age: 2h
  - sensor_id: t1
    value: 36.5
    timestamp: 2024-11-05T10:00:00Z
`

func TestStore_LoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.LoadSnapshot(ctx, strings.NewReader(snapshotYAML)))

	sectors, err := store.Sectors().ListWithSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, 30.0, sectors[0].HumidityMin)
	require.Len(t, sectors[0].Sensors, 2)
	assert.Equal(t, "norte", sectors[0].Sensors[1].SectorID)
	assert.Empty(t, sectors[1].Sensors)

	readings, err := store.Readings().ListSince(ctx, []string{"h1", "t1"}, time.Time{})
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, fixedNow.Add(-2*time.Hour), readings[0].Timestamp)
	assert.NotEmpty(t, readings[0].ID)
	assert.Equal(t, time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC), readings[1].Timestamp.UTC())
}

func TestStore_LoadSnapshotRejectsBadThreshold(t *testing.T) {
	bad := "sectors:\n  - id: x\n    name: X\n    humidity_min: 140\n"
	err := newTestStore().LoadSnapshot(context.Background(), strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "humidity_min")
}

func TestStore_LoadSnapshotDefaultsTempMax(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	snap := `
sectors:
  - id: s
    name: Sin Tope
    humidity_min: 30
    sensors:
      - {id: t1, name: Termo, kind: Temperatura}
  - id: z
    name: Tope Cero
    humidity_min: 30
    temp_max: 0
readings:
  - {sensor_id: t1, value: 22, age: 1h}
`
	require.NoError(t, store.LoadSnapshot(ctx, strings.NewReader(snap)))

	sectors, err := store.Sectors().ListWithSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, models.DefaultTempMax, sectors[0].TempMax)
	assert.Equal(t, 0.0, sectors[1].TempMax, "an explicit temp_max is kept")

	readings, err := store.Readings().ListSince(ctx, []string{"t1"}, time.Time{})
	require.NoError(t, err)
	values := alerting.ReduceByWindow(readings, []string{"t1"}, 24*time.Hour, fixedNow)
	status := alerting.NewEngine(alerting.DefaultFrostPolicy()).SectorStatus(sectors[0].Sector, sectors[0].Sensors, values)
	assert.Equal(t, alerting.StatusOK, status.Summary)
}
