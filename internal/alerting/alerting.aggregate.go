package alerting

import (
	"fmt"

	"github.com/agrotech/fieldwatch/internal/models"
)

// AlertGroup maps alert kinds to the violating magnitudes that produced them,
// remembering the order in which kinds were first seen. The zero value is
// not usable; a nil *AlertGroup behaves as empty.
type AlertGroup struct {
	order   []AlertKind
	buckets map[AlertKind][]float64
}

func NewAlertGroup() *AlertGroup {
	return &AlertGroup{buckets: make(map[AlertKind][]float64)}
}

func (g *AlertGroup) Add(kind AlertKind, value float64) {
	if _, seen := g.buckets[kind]; !seen {
		g.order = append(g.order, kind)
	}
	g.buckets[kind] = append(g.buckets[kind], value)
}

// Kinds returns kinds in first-seen order.
func (g *AlertGroup) Kinds() []AlertKind {
	if g == nil {
		return nil
	}
	return append([]AlertKind(nil), g.order...)
}

func (g *AlertGroup) Values(kind AlertKind) []float64 {
	if g == nil {
		return nil
	}
	return append([]float64(nil), g.buckets[kind]...)
}

// Count is the number of violating values across all kinds.
func (g *AlertGroup) Count() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, values := range g.buckets {
		n += len(values)
	}
	return n
}

func (g *AlertGroup) IsEmpty() bool {
	return g == nil || len(g.order) == 0
}

// SectorStatus is the evaluated state of one sector
type SectorStatus struct {
	SectorID   string `json:"sector_id"`
	Summary    string `json:"summary"`
	AlertCount int    `json:"alert_count"`
}

// AlertRecord is one sensor-level violation in the global view
type AlertRecord struct {
	Location     string    `json:"location"`
	SectorID     string    `json:"sector_id"`
	SensorID     string    `json:"sensor_id"`
	SensorName   string    `json:"sensor"`
	AlertKind    AlertKind `json:"alert_kind"`
	AlertLabel   string    `json:"alert_label"`
	Value        float64   `json:"value"`
	CurrentValue string    `json:"current_value"`
	Message      string    `json:"message"`
}

// GlobalAlerts lists every violating sensor across sectors
type GlobalAlerts struct {
	TotalAlerts int           `json:"total_alerts"`
	Details     []AlertRecord `json:"details"`
}

// Aggregate evaluates the sector's sensors that have a value and groups the
// violations by kind. Sensors of other sectors are ignored.
func (e *Engine) Aggregate(sector models.Sector, sensors []models.Sensor, values map[string]float64) *AlertGroup {
	group := NewAlertGroup()
	for i := range sensors {
		sensor := &sensors[i]
		if sensor.SectorID != sector.ID {
			continue
		}
		value, ok := values[sensor.ID]
		if !ok {
			continue
		}
		if kind, alert := e.Evaluate(sensor.SensorKind(), value, sector.HumidityMin, sector.TempMax); alert {
			group.Add(kind, value)
		}
	}
	return group
}

// SectorStatus aggregates and formats in one step.
func (e *Engine) SectorStatus(sector models.Sector, sensors []models.Sensor, values map[string]float64) SectorStatus {
	group := e.Aggregate(sector, sensors, values)
	return SectorStatus{
		SectorID:   sector.ID,
		Summary:    Format(group),
		AlertCount: group.Count(),
	}
}

// GlobalAlerts flattens violations of all sectors, one record per sensor, in
// sector order then sensor order.
func (e *Engine) GlobalAlerts(sectors []models.SectorWithSensors, values map[string]float64) GlobalAlerts {
	details := []AlertRecord{}
	for _, sector := range sectors {
		for i := range sector.Sensors {
			sensor := &sector.Sensors[i]
			value, ok := values[sensor.ID]
			if !ok {
				continue
			}
			kind, alert := e.Evaluate(sensor.SensorKind(), value, sector.HumidityMin, sector.TempMax)
			if !alert {
				continue
			}
			current := formatMagnitude(value, kind.Unit())
			details = append(details, AlertRecord{
				Location:     sector.Name,
				SectorID:     sector.ID,
				SensorID:     sensor.ID,
				SensorName:   sensor.Name,
				AlertKind:    kind,
				AlertLabel:   kind.Label(),
				Value:        value,
				CurrentValue: current,
				Message:      fmt.Sprintf("⚠️ %s: %s marca %s.", kind.Label(), sensor.Name, current),
			})
		}
	}
	return GlobalAlerts{TotalAlerts: len(details), Details: details}
}
