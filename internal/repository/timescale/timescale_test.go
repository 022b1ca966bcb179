package timescale

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRepo(t *testing.T) (sqlmock.Sqlmock, *SampleRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS samples`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT create_hypertable`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_samples_incubator_component_timestamp`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS idx_samples_incubator_kind_timestamp`).WillReturnResult(sqlmock.NewResult(0, 0))

	repo, err := NewSampleRepository(database.Wrap(db))
	require.NoError(t, err)
	return mock, repo
}

func TestNewSampleRepository_SchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(stderrors.New("permission denied"))

	_, err = NewSampleRepository(database.Wrap(db))
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
}

func TestInsertSample_AssignsID(t *testing.T) {
	mock, repo := setupMockRepo(t)
	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	sample := &models.Sample{IncubatorID: 1, ComponentID: 2, Kind: models.KindHumidity, Value: 72.5, Timestamp: ts}

	mock.ExpectExec(`INSERT INTO samples`).
		WithArgs(sqlmock.AnyArg(), 1, 2, models.KindHumidity, 72.5, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertSample(context.Background(), sample))
	assert.NotEmpty(t, sample.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSample_StoreFailureWrappedOnce(t *testing.T) {
	mock, repo := setupMockRepo(t)
	cause := stderrors.New("connection reset")
	mock.ExpectExec(`INSERT INTO samples`).WillReturnError(cause)

	err := repo.InsertSample(context.Background(), &models.Sample{IncubatorID: 1, ComponentID: 2, Kind: models.KindHumidity, Value: 72.5, Timestamp: time.Now().UTC()})
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
	assert.Equal(t, cause, stderrors.Unwrap(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSamples_ComponentFilterAndOrder(t *testing.T) {
	mock, repo := setupMockRepo(t)
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"id", "incubator_id", "component_id", "kind", "value", "timestamp"}).
		AddRow("s1", 1, 1, "temperature", 28.0, start.Add(time.Minute)).
		AddRow("s2", 1, 1, "temperature", 29.0, start.Add(2*time.Minute))
	mock.ExpectQuery(`AND component_id = \$5 ORDER BY timestamp ASC`).
		WithArgs(1, models.KindTemperature, start, end, 1).
		WillReturnRows(rows)

	samples, err := repo.FindSamples(context.Background(), models.SampleQuery{
		IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Start: start, End: end,
	})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 29.0, samples[1].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestSamples(t *testing.T) {
	mock, repo := setupMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "incubator_id", "component_id", "kind", "value", "timestamp"}).
		AddRow("s1", 1, 1, "temperature", 28.0, now).
		AddRow("s9", 1, 2, "temperature", 28.6, now)
	mock.ExpectQuery(`ROW_NUMBER\(\) OVER \(PARTITION BY component_id`).
		WithArgs(1, models.KindTemperature).
		WillReturnRows(rows)

	samples, err := repo.LatestSamples(context.Background(), 1, models.KindTemperature)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 2, samples[1].ComponentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
