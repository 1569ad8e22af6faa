package hubservice

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

func (s *HubService) GetSector(ctx context.Context, id string) (*models.Sector, error) {
	return s.Sectors.Get(ctx, id)
}

// SaveSector validates thresholds and stores the sector. Cached states of the
// sector are dropped since its thresholds may have changed.
func (s *HubService) SaveSector(ctx context.Context, sector *models.Sector) error {
	if err := sector.Validate(); err != nil {
		return errors.NewValidationError(err.Error(), err)
	}
	if sector.ID == "" {
		sector.ID = nuts.NID("sec", 12)
	}
	if err := s.Sectors.Save(ctx, sector); err != nil {
		return err
	}
	s.invalidate(ctx, sector.ID)

	nuts.L.Infof("[HubService] Saved sector %s (%s): humidity_min=%.1f temp_max=%.1f", sector.Name, sector.ID, sector.HumidityMin, sector.TempMax)
	return nil
}

// SaveSensor stores a sensor of an existing sector.
func (s *HubService) SaveSensor(ctx context.Context, sensor *models.Sensor) error {
	if strings.TrimSpace(sensor.Kind) == "" {
		return errors.NewValidationError("sensor kind is required", nil)
	}
	if sensor.SectorID == "" {
		return errors.NewValidationError("sector_id is required", nil)
	}
	if _, err := s.Sectors.Get(ctx, sensor.SectorID); err != nil {
		return err
	}
	if sensor.SensorKind() == models.KindUnknown {
		nuts.L.Warnf("[HubService] Sensor %q has unrecognized kind %q; it will never raise alerts", sensor.Name, sensor.Kind)
	}
	if sensor.ID == "" {
		sensor.ID = nuts.NID("sns", 12)
	}

	var previousSector string
	if existing, err := s.Sensors.Get(ctx, sensor.ID); err == nil {
		previousSector = existing.SectorID
	}
	if err := s.Sensors.Save(ctx, sensor); err != nil {
		return err
	}
	s.invalidate(ctx, sensor.SectorID)
	if previousSector != "" && previousSector != sensor.SectorID {
		s.invalidate(ctx, previousSector)
	}
	return nil
}

// RecordReading appends a reading for a known sensor. source names the
// ingest path for metrics ("http", "kafka", "mqtt").
func (s *HubService) RecordReading(ctx context.Context, source string, reading *models.Reading) (err error) {
	defer func() { s.metrics.RecordIngest(source, err == nil) }()

	if math.IsNaN(reading.Value) || math.IsInf(reading.Value, 0) {
		return errors.NewValidationError("reading value must be a finite number", nil)
	}
	if reading.SensorID == "" {
		return errors.NewValidationError("sensor_id is required", nil)
	}
	sensor, err := s.Sensors.Get(ctx, reading.SensorID)
	if err != nil {
		return err
	}

	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = s.now().UTC()
	}
	if err = s.Readings.Save(ctx, reading); err != nil {
		return err
	}
	s.invalidate(ctx, sensor.SectorID)
	return nil
}

// SensorReadings returns the history of one sensor between start and end.
func (s *HubService) SensorReadings(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	if end.Before(start) {
		return nil, errors.NewValidationError("end must not be before start", nil)
	}
	if _, err := s.Sensors.Get(ctx, sensorID); err != nil {
		return nil, err
	}
	return s.Readings.ListBySensor(ctx, sensorID, start, end)
}

// ListSensors lists every sensor, or only those of sectorID when it is set.
func (s *HubService) ListSensors(ctx context.Context, sectorID string) ([]models.Sensor, error) {
	if sectorID != "" {
		if _, err := s.Sectors.Get(ctx, sectorID); err != nil {
			return nil, err
		}
		return s.Sensors.ListBySector(ctx, sectorID)
	}

	all, err := s.Sensors.List(ctx)
	if err != nil {
		return nil, err
	}
	sensors := make([]models.Sensor, 0, len(all))
	for _, sensor := range all {
		sensors = append(sensors, *sensor)
	}
	return sensors, nil
}

func (s *HubService) GetSensor(ctx context.Context, id string) (*models.Sensor, error) {
	return s.Sensors.Get(ctx, id)
}

// DeleteSensor removes a sensor together with its readings.
func (s *HubService) DeleteSensor(ctx context.Context, id string) error {
	sensor, err := s.Sensors.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.Readings.DeleteBySensors(ctx, []string{id})
	if err != nil {
		return err
	}
	if err := s.Sensors.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, sensor.SectorID)

	nuts.L.Infof("[HubService] Deleted sensor %s of sector %s with %d readings", id, sensor.SectorID, deleted)
	return nil
}

// DeleteSector removes a sector, its sensors and their readings.
func (s *HubService) DeleteSector(ctx context.Context, id string) error {
	if _, err := s.Sectors.Get(ctx, id); err != nil {
		return err
	}
	sensors, err := s.Sensors.ListBySector(ctx, id)
	if err != nil {
		return err
	}
	ids := models.SensorIDs(sensors)
	deleted, err := s.Readings.DeleteBySensors(ctx, ids)
	if err != nil {
		return err
	}
	for _, sensorID := range ids {
		if err := s.Sensors.Delete(ctx, sensorID); err != nil && !errors.IsNotFound(err) {
			return err
		}
	}
	if err := s.Sectors.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	nuts.L.Infof("[HubService] Deleted sector %s with %d sensors and %d readings", id, len(ids), deleted)
	return nil
}

func (s *HubService) invalidate(ctx context.Context, sectorID string) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	s.generations[sectorID]++
	s.genMu.Unlock()

	if err := s.cache.Invalidate(ctx, sectorID); err != nil {
		nuts.L.Warnf("[HubService] Status cache invalidation failed for sector %s: %v", sectorID, err)
	}
}

func (s *HubService) generation(sectorID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[sectorID]
}

// storeMonitor caches monitor unless the sector was invalidated after gen was
// taken. The lock spans the write so a concurrent invalidation either aborts
// it or removes it afterwards.
func (s *HubService) storeMonitor(ctx context.Context, monitor *models.SectorMonitor, gen uint64) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.generations[monitor.SectorID] != gen {
		return
	}
	if err := s.cache.Set(ctx, monitor); err != nil {
		nuts.L.Warnf("[HubService] Status cache write failed for sector %s: %v", monitor.SectorID, err)
	}
}
