package hubservice

import (
	"context"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ListSectorStatuses evaluates every sector with one bulk reading fetch and
// attaches the rendered status to each sector.
func (s *HubService) ListSectorStatuses(ctx context.Context, reducer alerting.SensorValueReducer) ([]models.SectorOverview, error) {
	began := time.Now()
	now := s.now()

	sectors, err := s.Sectors.ListWithSensors(ctx)
	if err != nil {
		return nil, err
	}
	ids := collectSensorIDs(sectors)
	readings, err := s.fetchWindow(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	values := reducer.Reduce(readings, ids, s.window, now)

	overviews := make([]models.SectorOverview, 0, len(sectors))
	alerts := 0
	for _, sector := range sectors {
		status := s.engine.SectorStatus(sector.Sector, sector.Sensors, values)
		alerts += status.AlertCount
		overviews = append(overviews, models.SectorOverview{
			Sector:  sector.Sector,
			Sensors: sector.Sensors,
			Status:  status.Summary,
		})
	}

	s.metrics.ObserveEvaluation("sectors", reducer.Name(), time.Since(began), alerts)
	return overviews, nil
}

// MonitorSector evaluates one sector. Results are served from the status
// cache when one is configured and still fresh.
func (s *HubService) MonitorSector(ctx context.Context, sectorID string, reducer alerting.SensorValueReducer) (*models.SectorMonitor, error) {
	var gen uint64
	if s.cache != nil {
		gen = s.generation(sectorID)
		cached, ok, err := s.cache.Get(ctx, sectorID, reducer.Name())
		if err != nil {
			nuts.L.Warnf("[HubService] Status cache read failed for sector %s: %v", sectorID, err)
		} else if ok {
			return cached, nil
		}
	}

	began := time.Now()
	now := s.now()

	sector, err := s.Sectors.Get(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	sensors, err := s.Sensors.ListBySector(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	ids := models.SensorIDs(sensors)
	readings, err := s.fetchWindow(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	status := s.engine.SectorStatus(*sector, sensors, reducer.Reduce(readings, ids, s.window, now))
	monitor := &models.SectorMonitor{
		SectorID:         sector.ID,
		Sector:           sector.Name,
		Status:           status.Summary,
		AlertCount:       status.AlertCount,
		ActiveSensors:    len(sensors),
		ReadingsInWindow: alerting.CountInWindow(readings, ids, s.window, now),
		Reducer:          reducer.Name(),
		EvaluatedAt:      now.UTC(),
	}
	s.metrics.ObserveEvaluation("sector", reducer.Name(), time.Since(began), status.AlertCount)

	if s.cache != nil {
		s.storeMonitor(ctx, monitor, gen)
	}
	return monitor, nil
}

// GlobalAlerts lists every violating sensor across all sectors.
func (s *HubService) GlobalAlerts(ctx context.Context, reducer alerting.SensorValueReducer) (alerting.GlobalAlerts, error) {
	began := time.Now()
	now := s.now()

	sectors, err := s.Sectors.ListWithSensors(ctx)
	if err != nil {
		return alerting.GlobalAlerts{}, err
	}
	ids := collectSensorIDs(sectors)
	if len(ids) == 0 {
		return alerting.GlobalAlerts{TotalAlerts: 0, Details: []alerting.AlertRecord{}}, nil
	}
	readings, err := s.fetchWindow(ctx, ids, now)
	if err != nil {
		return alerting.GlobalAlerts{}, err
	}

	alerts := s.engine.GlobalAlerts(sectors, reducer.Reduce(readings, ids, s.window, now))
	s.metrics.ObserveEvaluation("global", reducer.Name(), time.Since(began), alerts.TotalAlerts)
	return alerts, nil
}

func (s *HubService) fetchWindow(ctx context.Context, sensorIDs []string, now time.Time) ([]models.Reading, error) {
	if len(sensorIDs) == 0 {
		return []models.Reading{}, nil
	}
	return s.Readings.ListSince(ctx, sensorIDs, now.Add(-s.window))
}

func collectSensorIDs(sectors []models.SectorWithSensors) []string {
	ids := []string{}
	for _, sector := range sectors {
		ids = append(ids, models.SensorIDs(sector.Sensors)...)
	}
	return ids
}
