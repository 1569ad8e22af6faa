package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const DefaultTempMax = 40.0

// Sector is an irrigation zone with its alert thresholds
type Sector struct {
	ID          string    `json:"id" db:"id" yaml:"id"`
	Name        string    `json:"name" db:"name" yaml:"name"`
	Description string    `json:"description,omitempty" db:"description" yaml:"description,omitempty"`
	HumidityMin float64   `json:"humidity_min" db:"humidity_min" yaml:"humidity_min"`
	TempMax     float64   `json:"temp_max" db:"temp_max" yaml:"temp_max"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" yaml:"updated_at,omitempty"`
}

// Validate checks the invariants the engine relies on.
func (s *Sector) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("sector name is required")
	}
	if math.IsNaN(s.HumidityMin) || s.HumidityMin < 0 || s.HumidityMin > 100 {
		return fmt.Errorf("humidity_min must be within [0,100], got %v", s.HumidityMin)
	}
	if math.IsNaN(s.TempMax) || math.IsInf(s.TempMax, 0) {
		return fmt.Errorf("temp_max must be a finite number")
	}
	return nil
}

// SectorWithSensors is a sector together with the sensors it owns
type SectorWithSensors struct {
	Sector
	Sensors []Sensor `json:"sensors"`
}

// SectorOverview is a sector as listed to clients, with its evaluated status
type SectorOverview struct {
	Sector
	Sensors []Sensor `json:"sensors"`
	Status  string   `json:"status"`
}

// SectorMonitor is the detailed evaluation of a single sector
type SectorMonitor struct {
	SectorID         string    `json:"sector_id"`
	Sector           string    `json:"sector"`
	Status           string    `json:"status"`
	AlertCount       int       `json:"alert_count"`
	ActiveSensors    int       `json:"active_sensors"`
	ReadingsInWindow int       `json:"readings_in_window"`
	Reducer          string    `json:"reducer"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}
