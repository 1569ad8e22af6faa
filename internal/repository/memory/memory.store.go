// Package memory keeps sectors, sensors and readings in process memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
)

// Store is the shared state behind the memory repositories.
type Store struct {
	mu          sync.RWMutex
	sectors     map[string]models.Sector
	sectorOrder []string
	sensors     map[string]models.Sensor
	sensorOrder []string
	readings    []models.Reading
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		sectors: make(map[string]models.Sector),
		sensors: make(map[string]models.Sensor),
		now:     time.Now,
	}
}

func (s *Store) Sectors() *SectorRepo   { return &SectorRepo{store: s} }
func (s *Store) Sensors() *SensorRepo   { return &SensorRepo{store: s} }
func (s *Store) Readings() *ReadingRepo { return &ReadingRepo{store: s} }

type SectorRepo struct {
	store *Store
}

func (r *SectorRepo) Get(_ context.Context, id string) (*models.Sector, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sector, ok := r.store.sectors[id]
	if !ok {
		return nil, errors.NewNotFoundError("sector not found", nil)
	}
	return &sector, nil
}

func (r *SectorRepo) List(_ context.Context) ([]*models.Sector, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sectors := make([]*models.Sector, 0, len(r.store.sectorOrder))
	for _, id := range r.store.sectorOrder {
		sector := r.store.sectors[id]
		sectors = append(sectors, &sector)
	}
	return sectors, nil
}

func (r *SectorRepo) Save(_ context.Context, sector *models.Sector) error {
	if sector.ID == "" {
		return errors.NewValidationError("sector id is required", nil)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	if existing, ok := r.store.sectors[sector.ID]; ok {
		sector.CreatedAt = existing.CreatedAt
	} else {
		r.store.sectorOrder = append(r.store.sectorOrder, sector.ID)
		if sector.CreatedAt.IsZero() {
			sector.CreatedAt = now
		}
	}
	sector.UpdatedAt = now
	r.store.sectors[sector.ID] = *sector
	return nil
}

// Delete removes the sector. Sensors still pointing at it are left alone.
func (r *SectorRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sectors[id]; !ok {
		return errors.NewNotFoundError("sector not found", nil)
	}
	delete(r.store.sectors, id)
	r.store.sectorOrder = without(r.store.sectorOrder, id)
	return nil
}

func (r *SectorRepo) ListWithSensors(_ context.Context) ([]models.SectorWithSensors, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bySector := make(map[string][]models.Sensor)
	for _, id := range r.store.sensorOrder {
		sensor := r.store.sensors[id]
		bySector[sensor.SectorID] = append(bySector[sensor.SectorID], sensor)
	}

	result := make([]models.SectorWithSensors, 0, len(r.store.sectorOrder))
	for _, id := range r.store.sectorOrder {
		sensors := bySector[id]
		if sensors == nil {
			sensors = []models.Sensor{}
		}
		result = append(result, models.SectorWithSensors{Sector: r.store.sectors[id], Sensors: sensors})
	}
	return result, nil
}

type SensorRepo struct {
	store *Store
}

func (r *SensorRepo) Get(_ context.Context, id string) (*models.Sensor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sensor, ok := r.store.sensors[id]
	if !ok {
		return nil, errors.NewNotFoundError("sensor not found", nil)
	}
	return &sensor, nil
}

func (r *SensorRepo) List(_ context.Context) ([]*models.Sensor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sensors := make([]*models.Sensor, 0, len(r.store.sensorOrder))
	for _, id := range r.store.sensorOrder {
		sensor := r.store.sensors[id]
		sensors = append(sensors, &sensor)
	}
	return sensors, nil
}

// Save stores the sensor. The owning sector must already exist.
func (r *SensorRepo) Save(_ context.Context, sensor *models.Sensor) error {
	if sensor.ID == "" {
		return errors.NewValidationError("sensor id is required", nil)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sectors[sensor.SectorID]; !ok {
		return errors.NewValidationError("sensor references unknown sector", nil).
			WithDetails(map[string]string{"sector_id": sensor.SectorID})
	}
	if existing, ok := r.store.sensors[sensor.ID]; ok {
		sensor.CreatedAt = existing.CreatedAt
	} else {
		r.store.sensorOrder = append(r.store.sensorOrder, sensor.ID)
		if sensor.CreatedAt.IsZero() {
			sensor.CreatedAt = r.store.now()
		}
	}
	r.store.sensors[sensor.ID] = *sensor
	return nil
}

func (r *SensorRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sensors[id]; !ok {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	delete(r.store.sensors, id)
	r.store.sensorOrder = without(r.store.sensorOrder, id)
	return nil
}

func (r *SensorRepo) ListBySector(_ context.Context, sectorID string) ([]models.Sensor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sensors := []models.Sensor{}
	for _, id := range r.store.sensorOrder {
		if sensor := r.store.sensors[id]; sensor.SectorID == sectorID {
			sensors = append(sensors, sensor)
		}
	}
	return sensors, nil
}

type ReadingRepo struct {
	store *Store
}

func (r *ReadingRepo) Save(_ context.Context, reading *models.Reading) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sensors[reading.SensorID]; !ok {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	r.store.readings = append(r.store.readings, *reading)
	return nil
}

func (r *ReadingRepo) ListSince(_ context.Context, sensorIDs []string, since time.Time) ([]models.Reading, error) {
	wanted := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		wanted[id] = true
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	readings := []models.Reading{}
	for _, reading := range r.store.readings {
		if wanted[reading.SensorID] && !reading.Timestamp.Before(since) {
			readings = append(readings, reading)
		}
	}
	return readings, nil
}

// ListBySensor returns readings between start and end inclusive, newest first.
func (r *ReadingRepo) ListBySensor(_ context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	r.store.mu.RLock()
	readings := []models.Reading{}
	for _, reading := range r.store.readings {
		if reading.SensorID == sensorID && !reading.Timestamp.Before(start) && !reading.Timestamp.After(end) {
			readings = append(readings, reading)
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.After(readings[j].Timestamp)
	})
	return readings, nil
}

func (r *ReadingRepo) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.readings[:0]
	var deleted int64
	for _, reading := range r.store.readings {
		if reading.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, reading)
	}
	r.store.readings = kept
	return deleted, nil
}

func (r *ReadingRepo) DeleteBySensors(_ context.Context, sensorIDs []string) (int64, error) {
	wanted := make(map[string]bool, len(sensorIDs))
	for _, id := range sensorIDs {
		wanted[id] = true
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.readings[:0]
	var deleted int64
	for _, reading := range r.store.readings {
		if wanted[reading.SensorID] {
			deleted++
			continue
		}
		kept = append(kept, reading)
	}
	r.store.readings = kept
	return deleted, nil
}

func without(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
