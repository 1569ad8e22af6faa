package models

import (
	"strings"
	"time"
)

// SensorKind is the normalized kind of a field sensor
type SensorKind string

const (
	KindHumidity    SensorKind = "humidity"
	KindTemperature SensorKind = "temperature"
	KindUnknown     SensorKind = "unknown"
)

// kindAliases maps case-folded kind strings as they arrive from devices and
// operators onto the known kinds.
var kindAliases = map[string]SensorKind{
	"humidity":    KindHumidity,
	"humedad":     KindHumidity,
	"temperature": KindTemperature,
	"temperatura": KindTemperature,
}

// ParseSensorKind case-folds raw and resolves it to a known kind.
// Unrecognized strings resolve to KindUnknown.
func ParseSensorKind(raw string) SensorKind {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return kind
	}
	return KindUnknown
}

// Sensor is a physical device reporting a scalar time series for one sector.
// Kind keeps the string as stored; use SensorKind() for comparisons.
type Sensor struct {
	ID        string    `json:"id" db:"id" yaml:"id"`
	SectorID  string    `json:"sector_id" db:"sector_id" yaml:"sector_id"`
	Name      string    `json:"name" db:"name" yaml:"name"`
	Kind      string    `json:"kind" db:"kind" yaml:"kind"`
	Brand     string    `json:"brand,omitempty" db:"brand" yaml:"brand,omitempty"`
	Model     string    `json:"model,omitempty" db:"model" yaml:"model,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at" yaml:"created_at,omitempty"`
}

func (s *Sensor) SensorKind() SensorKind {
	return ParseSensorKind(s.Kind)
}
