package postgres

import (
	"context"
	"time"

	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
)

type AlertRepo struct {
	PostgresBaseRepo
}

func NewAlertRepository(db database.DB) *AlertRepo {
	return &AlertRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *AlertRepo) InsertAlert(ctx context.Context, alert *models.AlertRecord) error {
	query := `
		INSERT INTO alerts (id, incubator_id, component_id, kind, value, threshold, direction, timestamp)
		VALUES (:id, :incubator_id, :component_id, :kind, :value, :threshold, :direction, :timestamp)`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, alert); err != nil {
		return errors.NewDatabaseError("failed to insert alert", err)
	}
	return nil
}

func (r *AlertRepo) FindAlerts(ctx context.Context, incubatorID int, start, end time.Time) ([]models.AlertRecord, error) {
	alerts := []models.AlertRecord{}
	query := `
		SELECT id, incubator_id, component_id, kind, value, threshold, direction, timestamp
		FROM alerts
		WHERE incubator_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp ASC`

	if err := r.db.GetDB().SelectContext(ctx, &alerts, query, incubatorID, start, end); err != nil {
		return nil, errors.NewDatabaseError("failed to find alerts", err)
	}
	for i := range alerts {
		alerts[i].Timestamp = alerts[i].Timestamp.UTC()
	}
	return alerts, nil
}

type ActivationRepo struct {
	PostgresBaseRepo
}

func NewActivationRepository(db database.DB) *ActivationRepo {
	return &ActivationRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *ActivationRepo) InsertActivation(ctx context.Context, rec *models.ActivationRecord) error {
	query := `
		INSERT INTO activations (id, incubator_id, component_id, timestamp)
		VALUES (:id, :incubator_id, :component_id, :timestamp)`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, rec); err != nil {
		return errors.NewDatabaseError("failed to insert activation", err)
	}
	return nil
}

func (r *ActivationRepo) FindActivations(ctx context.Context, incubatorID int, start, end time.Time) ([]models.ActivationRecord, error) {
	records := []models.ActivationRecord{}
	query := `
		SELECT id, incubator_id, component_id, timestamp
		FROM activations
		WHERE incubator_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp ASC`

	if err := r.db.GetDB().SelectContext(ctx, &records, query, incubatorID, start, end); err != nil {
		return nil, errors.NewDatabaseError("failed to find activations", err)
	}
	for i := range records {
		records[i].Timestamp = records[i].Timestamp.UTC()
	}
	return records, nil
}
