package postgres

import (
	"context"
	"database/sql"

	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
)

type ThresholdRepo struct {
	PostgresBaseRepo
}

func NewThresholdRepository(db database.DB) *ThresholdRepo {
	return &ThresholdRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *ThresholdRepo) GetThreshold(ctx context.Context, incubatorID int) (*models.ThresholdConfig, error) {
	cfg := &models.ThresholdConfig{}
	query := `
		SELECT incubator_id, temp_min, temp_max, humidity_min, humidity_max, updated_at
		FROM thresholds
		WHERE incubator_id = $1`

	err := r.db.GetDB().GetContext(ctx, cfg, query, incubatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("threshold config not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get threshold config", err)
	}
	cfg.UpdatedAt = cfg.UpdatedAt.UTC()
	return cfg, nil
}

func (r *ThresholdRepo) UpsertThreshold(ctx context.Context, cfg *models.ThresholdConfig) error {
	query := `
		INSERT INTO thresholds (incubator_id, temp_min, temp_max, humidity_min, humidity_max, updated_at)
		VALUES (:incubator_id, :temp_min, :temp_max, :humidity_min, :humidity_max, :updated_at)
		ON CONFLICT (incubator_id) DO UPDATE SET
			temp_min = EXCLUDED.temp_min,
			temp_max = EXCLUDED.temp_max,
			humidity_min = EXCLUDED.humidity_min,
			humidity_max = EXCLUDED.humidity_max,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, cfg)
	if err != nil {
		return errors.NewDatabaseError("failed to save threshold config", err)
	}
	return nil
}
