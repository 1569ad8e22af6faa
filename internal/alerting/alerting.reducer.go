package alerting

import (
	"time"

	"github.com/agrotech/fieldwatch/internal/models"
)

const (
	ReducerAverage = "average"
	ReducerLatest  = "latest"
)

// SensorValueReducer turns a bulk set of readings into one representative
// value per sensor.
type SensorValueReducer interface {
	Name() string
	Reduce(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) map[string]float64
}

// WindowAverage reduces each sensor to the mean of its readings in the window.
type WindowAverage struct{}

func (WindowAverage) Name() string { return ReducerAverage }

func (WindowAverage) Reduce(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) map[string]float64 {
	return ReduceByWindow(readings, sensorIDs, window, now)
}

// LatestValue reduces each sensor to its most recent reading in the window.
type LatestValue struct{}

func (LatestValue) Name() string { return ReducerLatest }

func (LatestValue) Reduce(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) map[string]float64 {
	latest := SelectLatest(readings, sensorIDs, window, now)
	values := make(map[string]float64, len(latest))
	for id, r := range latest {
		values[id] = r.Value
	}
	return values
}

// ReducerByName resolves "average" or "latest". An empty name yields fallback.
func ReducerByName(name string, fallback SensorValueReducer) (SensorValueReducer, bool) {
	switch name {
	case "":
		return fallback, true
	case ReducerAverage:
		return WindowAverage{}, true
	case ReducerLatest:
		return LatestValue{}, true
	}
	return nil, false
}

// ReduceByWindow averages readings per sensor. Only readings with
// timestamp >= now-window and a sensor id in sensorIDs count; sensors left
// without readings are absent from the result. A window <= 0 disables the
// time filter.
func ReduceByWindow(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) map[string]float64 {
	wanted := idSet(sensorIDs)
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range readings {
		if !wanted[r.SensorID] || !inWindow(r, window, now) {
			continue
		}
		sums[r.SensorID] += r.Value
		counts[r.SensorID]++
	}

	means := make(map[string]float64, len(sums))
	for id, sum := range sums {
		means[id] = sum / float64(counts[id])
	}
	return means
}

// SelectLatest keeps the reading with the greatest timestamp per sensor,
// using the same filter as ReduceByWindow. On equal timestamps the reading
// that comes first in the input wins.
func SelectLatest(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) map[string]models.Reading {
	wanted := idSet(sensorIDs)
	latest := make(map[string]models.Reading)
	for _, r := range readings {
		if !wanted[r.SensorID] || !inWindow(r, window, now) {
			continue
		}
		current, seen := latest[r.SensorID]
		if !seen || r.Timestamp.After(current.Timestamp) {
			latest[r.SensorID] = r
		}
	}
	return latest
}

// CountInWindow counts readings that ReduceByWindow would consider.
func CountInWindow(readings []models.Reading, sensorIDs []string, window time.Duration, now time.Time) int {
	wanted := idSet(sensorIDs)
	n := 0
	for _, r := range readings {
		if wanted[r.SensorID] && inWindow(r, window, now) {
			n++
		}
	}
	return n
}

func inWindow(r models.Reading, window time.Duration, now time.Time) bool {
	if window <= 0 {
		return true
	}
	return !r.Timestamp.Before(now.Add(-window))
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
