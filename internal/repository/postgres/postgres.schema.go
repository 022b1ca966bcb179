package postgres

import (
	"context"

	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS thresholds (
		incubator_id INTEGER PRIMARY KEY,
		temp_min DOUBLE PRECISION NOT NULL,
		temp_max DOUBLE PRECISION NOT NULL,
		humidity_min DOUBLE PRECISION NOT NULL,
		humidity_max DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (temp_min < temp_max),
		CHECK (humidity_min < humidity_max)
	)`,
	`CREATE TABLE IF NOT EXISTS components (
		id INTEGER PRIMARY KEY,
		incubator_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('sensor', 'actuator')),
		state BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_components_incubator ON components(incubator_id, id)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		incubator_id INTEGER NOT NULL,
		component_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		direction TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_incubator_timestamp ON alerts(incubator_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS activations (
		id TEXT PRIMARY KEY,
		incubator_id INTEGER NOT NULL,
		component_id INTEGER NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activations_incubator_timestamp ON activations(incubator_id, timestamp)`,
}

// InitSchema creates the application tables when they do not exist yet.
func InitSchema(ctx context.Context, db database.DB) error {
	for _, query := range schema {
		if _, err := db.GetDB().ExecContext(ctx, query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	nuts.L.Infof("[PostgresDB] Schema ready (%d statements)", len(schema))
	return nil
}
