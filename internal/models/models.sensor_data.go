package models

import "time"

// Reading represents a single sensor measurement. Readings are append-only.
type Reading struct {
	ID        string    `json:"id" db:"id" yaml:"id,omitempty"`
	SensorID  string    `json:"sensor_id" db:"sensor_id" yaml:"sensor_id"`
	Value     float64   `json:"value" db:"value" yaml:"value"`
	Timestamp time.Time `json:"timestamp" db:"timestamp" yaml:"timestamp"`
}

// SensorIDs collects the ids of sensors in order.
func SensorIDs(sensors []Sensor) []string {
	ids := make([]string, 0, len(sensors))
	for _, s := range sensors {
		ids = append(ids, s.ID)
	}
	return ids
}
