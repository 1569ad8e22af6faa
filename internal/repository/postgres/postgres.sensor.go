package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/agrotech/fieldwatch/internal/database"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
)

const (
	sensorColumns = `id, sector_id, name, kind, brand, model, created_at`
	sensorSelect  = `id, sector_id, name, kind, COALESCE(brand, '') AS brand, COALESCE(model, '') AS model, created_at`
)

type SensorRepo struct {
	PostgresBaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	return &SensorRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *SensorRepo) Get(ctx context.Context, id string) (*models.Sensor, error) {
	sensor := &models.Sensor{}
	query := `SELECT ` + sensorSelect + ` FROM sensors WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, sensor, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return sensor, nil
}

func (r *SensorRepo) List(ctx context.Context) ([]*models.Sensor, error) {
	sensors := []*models.Sensor{}
	query := `SELECT ` + sensorSelect + ` FROM sensors ORDER BY created_at, id`

	if err := r.db.GetDB().SelectContext(ctx, &sensors, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

func (r *SensorRepo) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "sensors", id, "sensor not found")
}

func (r *SensorRepo) ListBySector(ctx context.Context, sectorID string) ([]models.Sensor, error) {
	sensors := []models.Sensor{}
	query := `SELECT ` + sensorSelect + ` FROM sensors WHERE sector_id = $1 ORDER BY created_at, id`

	if err := r.db.GetDB().SelectContext(ctx, &sensors, query, sectorID); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}
	return sensors, nil
}

// Save upserts the sensor. The sector foreign key is enforced by the schema.
func (r *SensorRepo) Save(ctx context.Context, sensor *models.Sensor) error {
	if sensor.CreatedAt.IsZero() {
		sensor.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO sensors (` + sensorColumns + `)
		VALUES (:id, :sector_id, :name, :kind, :brand, :model, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			sector_id = EXCLUDED.sector_id,
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			brand = EXCLUDED.brand,
			model = EXCLUDED.model`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, sensor); err != nil {
		return errors.NewDatabaseError("failed to save sensor", err)
	}
	return nil
}
