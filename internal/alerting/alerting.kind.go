// Package alerting evaluates sensor readings against sector thresholds and
// renders the resulting alerts. Everything here is a pure computation over
// data the caller has already fetched; nothing blocks and nothing is cached.
package alerting

import (
	"strconv"
	"strings"
)

// AlertKind classifies a threshold violation
type AlertKind string

const (
	LowHumidity     AlertKind = "LowHumidity"
	HighTemperature AlertKind = "HighTemperature"
	FrostRisk       AlertKind = "FrostRisk"
)

const (
	unitPercent = "%"
	unitCelsius = "°C"
)

var alertLabels = map[AlertKind]string{
	LowHumidity:     "Baja Humedad",
	HighTemperature: "Alta Temperatura",
	FrostRisk:       "Riesgo de Helada",
}

// Label is the operator-facing name of the kind.
func (k AlertKind) Label() string {
	if label, ok := alertLabels[k]; ok {
		return label
	}
	return string(k)
}

// Unit is "%" for humidity kinds and "°C" for everything else.
func (k AlertKind) Unit() string {
	if strings.Contains(string(k), "Humidity") || strings.Contains(k.Label(), "Humedad") {
		return unitPercent
	}
	return unitCelsius
}

// formatMagnitude renders v with one decimal followed by unit. strconv rounds
// correctly and resolves exact binary ties to even (12.25 -> "12.2").
func formatMagnitude(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + unit
}
