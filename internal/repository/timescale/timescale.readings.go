package timescale

import (
	"context"
	"time"

	"github.com/agrotech/fieldwatch/internal/database"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingRepo stores readings in the sensor_readings hypertable
type ReadingRepo struct {
	db database.DB
}

func NewReadingRepository(db database.DB) *ReadingRepo {
	return &ReadingRepo{db: db}
}

func (r *ReadingRepo) Save(ctx context.Context, reading *models.Reading) error {
	if reading.ID == "" {
		reading.ID = nuts.NID("rd", 12)
	}
	query := `
		INSERT INTO sensor_readings (id, sensor_id, value, timestamp)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.GetDB().ExecContext(ctx, query, reading.ID, reading.SensorID, reading.Value, reading.Timestamp)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

func (r *ReadingRepo) ListSince(ctx context.Context, sensorIDs []string, since time.Time) ([]models.Reading, error) {
	readings := []models.Reading{}
	if len(sensorIDs) == 0 {
		return readings, nil
	}
	query := `
		SELECT id, sensor_id, value, timestamp
		FROM sensor_readings
		WHERE sensor_id = ANY($1) AND timestamp >= $2`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, pq.Array(sensorIDs), since)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor readings", err)
	}
	return readings, nil
}

func (r *ReadingRepo) ListBySensor(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error) {
	readings := []models.Reading{}
	query := `
		SELECT id, sensor_id, value, timestamp
		FROM sensor_readings
		WHERE sensor_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp DESC`

	err := r.db.GetDB().SelectContext(ctx, &readings, query, sensorID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get sensor readings", err)
	}
	return readings, nil
}

func (r *ReadingRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM sensor_readings WHERE timestamp < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, before)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete old data", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[TimescaleDB] Deleted %d old sensor readings before %v", rows, before)
	return rows, nil
}

// DeleteBySensors drops the whole history of the given sensors.
func (r *ReadingRepo) DeleteBySensors(ctx context.Context, sensorIDs []string) (int64, error) {
	if len(sensorIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM sensor_readings WHERE sensor_id = ANY($1)`

	result, err := r.db.GetDB().ExecContext(ctx, query, pq.Array(sensorIDs))
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete sensor readings", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}
