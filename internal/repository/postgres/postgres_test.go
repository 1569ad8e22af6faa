package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agrotech/fieldwatch/internal/database"
	apierrors "github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sectorCols = []string{"id", "name", "description", "humidity_min", "temp_max", "created_at", "updated_at"}
	sensorCols = []string{"id", "sector_id", "name", "kind", "brand", "model", "created_at"}
	created    = time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC)
)

func setupMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.Wrap(sqlx.NewDb(db, "postgres")), mock
}

func TestSectorRepo_Get_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectQuery(`SELECT id, name, COALESCE\(description, ''\) AS description`).
		WithArgs("sec1").
		WillReturnRows(sqlmock.NewRows(sectorCols).
			AddRow("sec1", "Sector Norte", "Viñedo", 30.0, 40.0, created, created))

	sector, err := repo.Get(context.Background(), "sec1")
	require.NoError(t, err)
	assert.Equal(t, "Sector Norte", sector.Name)
	assert.Equal(t, 30.0, sector.HumidityMin)
	assert.Equal(t, 40.0, sector.TempMax)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectorRepo_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectQuery(`FROM sectors WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectorRepo_Save_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectExec(`INSERT INTO sectors .* ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("sec1", "Sector Norte", "", 30.0, 40.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sector := &models.Sector{ID: "sec1", Name: "Sector Norte", HumidityMin: 30, TempMax: 40}
	require.NoError(t, repo.Save(context.Background(), sector))
	assert.False(t, sector.CreatedAt.IsZero())
	assert.False(t, sector.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectorRepo_Save_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectExec(`INSERT INTO sectors`).WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), &models.Sector{ID: "x", Name: "X"})
	require.Error(t, err)
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrorTypeDatabase, apiErr.Type)
}

func TestSectorRepo_ListWithSensors_JoinsInMemory(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectQuery(`FROM sectors ORDER BY created_at, id`).
		WillReturnRows(sqlmock.NewRows(sectorCols).
			AddRow("a", "Norte", "", 30.0, 40.0, created, created).
			AddRow("b", "Sur", "", 20.0, 35.0, created, created))
	mock.ExpectQuery(`FROM sensors ORDER BY created_at, id`).
		WillReturnRows(sqlmock.NewRows(sensorCols).
			AddRow("h1", "a", "Humedad Norte", "Humedad", "", "", created).
			AddRow("t1", "a", "Termo Norte", "Temperatura", "Acme", "T-100", created))

	sectors, err := repo.ListWithSensors(context.Background())
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, []string{"h1", "t1"}, models.SensorIDs(sectors[0].Sensors))
	assert.NotNil(t, sectors[1].Sensors)
	assert.Empty(t, sectors[1].Sensors)
	assert.Equal(t, "Acme", sectors[0].Sensors[1].Brand)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSensorRepo_ListBySector(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSensorRepository(db)

	mock.ExpectQuery(`FROM sensors WHERE sector_id = \$1`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows(sensorCols).
			AddRow("h1", "a", "Humedad Norte", "humedad", "", "", created))

	sensors, err := repo.ListBySector(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	assert.Equal(t, models.KindHumidity, sensors[0].SensorKind())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSensorRepo_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSensorRepository(db)

	mock.ExpectQuery(`FROM sensors WHERE id = \$1`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	assert.True(t, apierrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSensorRepo_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSensorRepository(db)

	mock.ExpectExec(`INSERT INTO sensors`).
		WithArgs("h1", "a", "Humedad Norte", "Humedad", "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sensor := &models.Sensor{ID: "h1", SectorID: "a", Name: "Humedad Norte", Kind: "Humedad"}
	require.NoError(t, repo.Save(context.Background(), sensor))
	assert.False(t, sensor.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectorRepo_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSectorRepository(db)

	mock.ExpectExec(`DELETE FROM sectors WHERE id = \$1`).
		WithArgs("sec1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sectors WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "sec1"))
	err := repo.Delete(context.Background(), "missing")
	assert.True(t, apierrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSensorRepo_Delete_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSensorRepository(db)

	mock.ExpectExec(`DELETE FROM sensors WHERE id = \$1`).
		WithArgs("h1").
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), "h1")
	require.Error(t, err)
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrorTypeDatabase, apiErr.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
