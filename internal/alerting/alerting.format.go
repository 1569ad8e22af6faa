package alerting

import "strings"

const (
	StatusOK       = "OK"
	criticalPrefix = "CRÍTICO - "
)

// Format renders a group as "OK" or as
// "CRÍTICO - <label> (<mean><unit>), ..." in first-seen kind order.
func Format(group *AlertGroup) string {
	if group.IsEmpty() {
		return StatusOK
	}

	segments := make([]string, 0, len(group.order))
	for _, kind := range group.order {
		segments = append(segments, kind.Label()+" ("+formatMagnitude(mean(group.buckets[kind]), kind.Unit())+")")
	}
	return criticalPrefix + strings.Join(segments, ", ")
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
