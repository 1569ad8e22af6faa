package repository

import (
	"context"
	"time"

	"github.com/agrotech/fieldwatch/internal/models"
)

// SectorRepository stores irrigation sectors and their thresholds
type SectorRepository interface {
	Get(ctx context.Context, id string) (*models.Sector, error)
	List(ctx context.Context) ([]*models.Sector, error)
	Save(ctx context.Context, sector *models.Sector) error
	Delete(ctx context.Context, id string) error
	// ListWithSensors returns every sector with its sensors attached.
	ListWithSensors(ctx context.Context) ([]models.SectorWithSensors, error)
}

// SensorRepository stores sensors; each belongs to exactly one sector
type SensorRepository interface {
	Get(ctx context.Context, id string) (*models.Sensor, error)
	List(ctx context.Context) ([]*models.Sensor, error)
	Save(ctx context.Context, sensor *models.Sensor) error
	Delete(ctx context.Context, id string) error
	ListBySector(ctx context.Context, sectorID string) ([]models.Sensor, error)
}

// ReadingRepository stores the append-only reading time series
type ReadingRepository interface {
	Save(ctx context.Context, reading *models.Reading) error
	// ListSince fetches readings of all given sensors with timestamp >= since
	// in a single query.
	ListSince(ctx context.Context, sensorIDs []string, since time.Time) ([]models.Reading, error)
	ListBySensor(ctx context.Context, sensorID string, start, end time.Time) ([]models.Reading, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteBySensors(ctx context.Context, sensorIDs []string) (int64, error)
}
