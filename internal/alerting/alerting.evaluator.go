package alerting

import "github.com/agrotech/fieldwatch/internal/models"

const DefaultFrostThresholdCelsius = 2.0

// FrostPolicy controls the optional low-temperature classification.
type FrostPolicy struct {
	Enabled          bool
	ThresholdCelsius float64
}

// DefaultFrostPolicy has frost detection switched off.
func DefaultFrostPolicy() FrostPolicy {
	return FrostPolicy{Enabled: false, ThresholdCelsius: DefaultFrostThresholdCelsius}
}

// Engine classifies, groups and renders alerts. It is safe for concurrent use.
type Engine struct {
	frost FrostPolicy
}

func NewEngine(frost FrostPolicy) *Engine {
	return &Engine{frost: frost}
}

func (e *Engine) FrostPolicy() FrostPolicy {
	return e.frost
}

// Evaluate compares a representative value against the sector thresholds.
// Values equal to a threshold do not alert. Unknown kinds never alert.
func (e *Engine) Evaluate(kind models.SensorKind, value, humidityMin, tempMax float64) (AlertKind, bool) {
	switch kind {
	case models.KindHumidity:
		if value < humidityMin {
			return LowHumidity, true
		}
	case models.KindTemperature:
		if e.frost.Enabled && value < e.frost.ThresholdCelsius {
			return FrostRisk, true
		}
		if value > tempMax {
			return HighTemperature, true
		}
	}
	return "", false
}

// EvaluateRaw is Evaluate for an unnormalized kind string.
func (e *Engine) EvaluateRaw(kind string, value, humidityMin, tempMax float64) (AlertKind, bool) {
	return e.Evaluate(models.ParseSensorKind(kind), value, humidityMin, tempMax)
}
