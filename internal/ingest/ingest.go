// Package ingest feeds sensor readings from message brokers into the hub.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
)

const (
	SourceKafka = "kafka"
	SourceMQTT  = "mqtt"
)

// Recorder stores one reading. HubService satisfies it.
type Recorder interface {
	RecordReading(ctx context.Context, source string, reading *models.Reading) error
}

// Payload is the wire format of a reading on both brokers.
type Payload struct {
	SensorID  string     `json:"sensor_id"`
	Value     *float64   `json:"value"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Decode parses a payload. When the payload has no sensor_id the fallback is
// used, which is the message key on Kafka and the last topic segment on MQTT.
func Decode(data []byte, fallbackSensorID string) (*models.Reading, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewValidationError("malformed reading payload", err)
	}
	if p.Value == nil {
		return nil, errors.NewValidationError("reading payload has no value", nil)
	}

	reading := &models.Reading{
		SensorID: strings.TrimSpace(p.SensorID),
		Value:    *p.Value,
	}
	if reading.SensorID == "" {
		reading.SensorID = strings.TrimSpace(fallbackSensorID)
	}
	if reading.SensorID == "" {
		return nil, errors.NewValidationError("reading payload has no sensor_id", nil)
	}
	if p.Timestamp != nil {
		reading.Timestamp = p.Timestamp.UTC()
	}
	return reading, nil
}

// SensorIDFromTopic returns the last non-empty segment of an MQTT topic.
func SensorIDFromTopic(topic string) string {
	segments := strings.Split(strings.TrimRight(topic, "/"), "/")
	last := segments[len(segments)-1]
	if last == "#" || last == "+" {
		return ""
	}
	return last
}

func handle(ctx context.Context, rec Recorder, source, fallbackSensorID string, data []byte) error {
	reading, err := Decode(data, fallbackSensorID)
	if err != nil {
		return err
	}
	if err := rec.RecordReading(ctx, source, reading); err != nil {
		return fmt.Errorf("recording reading for sensor %s: %w", reading.SensorID, err)
	}
	return nil
}
