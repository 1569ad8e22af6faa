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
	sectorColumns = `id, name, description, humidity_min, temp_max, created_at, updated_at`
	sectorSelect  = `id, name, COALESCE(description, '') AS description, humidity_min, temp_max, created_at, updated_at`
)

type SectorRepo struct {
	PostgresBaseRepo
}

func NewSectorRepository(db database.DB) *SectorRepo {
	return &SectorRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *SectorRepo) Get(ctx context.Context, id string) (*models.Sector, error) {
	sector := &models.Sector{}
	query := `SELECT ` + sectorSelect + ` FROM sectors WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, sector, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sector not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sector", err)
	}
	return sector, nil
}

func (r *SectorRepo) List(ctx context.Context) ([]*models.Sector, error) {
	sectors := []*models.Sector{}
	query := `SELECT ` + sectorSelect + ` FROM sectors ORDER BY created_at, id`

	if err := r.db.GetDB().SelectContext(ctx, &sectors, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sectors", err)
	}
	return sectors, nil
}

// Save inserts the sector or updates it in place when the id exists.
func (r *SectorRepo) Save(ctx context.Context, sector *models.Sector) error {
	now := time.Now().UTC()
	if sector.CreatedAt.IsZero() {
		sector.CreatedAt = now
	}
	sector.UpdatedAt = now

	query := `
		INSERT INTO sectors (` + sectorColumns + `)
		VALUES (:id, :name, :description, :humidity_min, :temp_max, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			humidity_min = EXCLUDED.humidity_min,
			temp_max = EXCLUDED.temp_max,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, sector); err != nil {
		return errors.NewDatabaseError("failed to save sector", err)
	}
	return nil
}

func (r *SectorRepo) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "sectors", id, "sector not found")
}

// ListWithSensors loads sectors and sensors with one query each and joins
// them in memory.
func (r *SectorRepo) ListWithSensors(ctx context.Context) ([]models.SectorWithSensors, error) {
	sectors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	sensors := []models.Sensor{}
	query := `SELECT ` + sensorSelect + ` FROM sensors ORDER BY created_at, id`
	if err := r.db.GetDB().SelectContext(ctx, &sensors, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}

	bySector := make(map[string][]models.Sensor, len(sectors))
	for _, sensor := range sensors {
		bySector[sensor.SectorID] = append(bySector[sensor.SectorID], sensor)
	}

	result := make([]models.SectorWithSensors, 0, len(sectors))
	for _, sector := range sectors {
		owned := bySector[sector.ID]
		if owned == nil {
			owned = []models.Sensor{}
		}
		result = append(result, models.SectorWithSensors{Sector: *sector, Sensors: owned})
	}
	return result, nil
}
