package timescale

import (
	"context"

	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SampleRepo keeps sensor samples in a hypertable. Samples are retained
// indefinitely, so no retention policy is installed.
type SampleRepo struct {
	TimeScaleBaseRepo
}

var sampleSchema = []string{
	`CREATE TABLE IF NOT EXISTS samples (
		id TEXT NOT NULL,
		incubator_id INTEGER NOT NULL,
		component_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id, timestamp)
	)`,
	`SELECT create_hypertable('samples', 'timestamp',
		chunk_time_interval => INTERVAL '1 day',
		if_not_exists => TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_samples_incubator_component_timestamp
		ON samples(incubator_id, component_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_samples_incubator_kind_timestamp
		ON samples(incubator_id, kind, timestamp DESC)`,
}

func NewSampleRepository(db database.DB) (*SampleRepo, error) {
	repo := &SampleRepo{TimeScaleBaseRepo: TimeScaleBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SampleRepo) initializeSchema() error {
	for _, query := range sampleSchema {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}

func (r *SampleRepo) InsertSample(ctx context.Context, sample *models.Sample) error {
	if sample.ID == "" {
		sample.ID = nuts.NID("sm", 12)
	}
	query := `
		INSERT INTO samples (id, incubator_id, component_id, kind, value, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.ExecContext(ctx, query,
		sample.ID, sample.IncubatorID, sample.ComponentID, sample.Kind, sample.Value, sample.Timestamp)
	return err
}

func (r *SampleRepo) FindSamples(ctx context.Context, q models.SampleQuery) ([]models.Sample, error) {
	samples := []models.Sample{}
	query := `
		SELECT id, incubator_id, component_id, kind, value, timestamp
		FROM samples
		WHERE incubator_id = $1 AND kind = $2 AND timestamp BETWEEN $3 AND $4`
	args := []interface{}{q.IncubatorID, q.Kind, q.Start, q.End}
	if q.ComponentID > 0 {
		query += ` AND component_id = $5`
		args = append(args, q.ComponentID)
	}
	query += ` ORDER BY timestamp ASC`

	if err := r.db.GetDB().SelectContext(ctx, &samples, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to find samples", err)
	}
	for i := range samples {
		samples[i].Timestamp = samples[i].Timestamp.UTC()
	}
	return samples, nil
}

func (r *SampleRepo) LatestSamples(ctx context.Context, incubatorID int, kind models.ReadingKind) ([]models.Sample, error) {
	query := `
		WITH ranked AS (
			SELECT id, incubator_id, component_id, kind, value, timestamp,
				ROW_NUMBER() OVER (PARTITION BY component_id ORDER BY timestamp DESC) AS rn
			FROM samples
			WHERE incubator_id = $1 AND kind = $2
		)
		SELECT id, incubator_id, component_id, kind, value, timestamp
		FROM ranked
		WHERE rn = 1
		ORDER BY component_id`

	samples := []models.Sample{}
	if err := r.db.GetDB().SelectContext(ctx, &samples, query, incubatorID, kind); err != nil {
		return nil, errors.NewDatabaseError("failed to get latest samples", err)
	}
	for i := range samples {
		samples[i].Timestamp = samples[i].Timestamp.UTC()
	}
	return samples, nil
}
