package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
)

type ComponentRepo struct {
	PostgresBaseRepo
}

func NewComponentRepository(db database.DB) *ComponentRepo {
	return &ComponentRepo{PostgresBaseRepo: PostgresBaseRepo{db: db}}
}

func (r *ComponentRepo) GetComponent(ctx context.Context, id int) (*models.Component, error) {
	c := &models.Component{}
	query := `SELECT id, incubator_id, name, kind, state, updated_at FROM components WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("component not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get component", err)
	}
	return c, nil
}

func (r *ComponentRepo) ListComponents(ctx context.Context, incubatorID int) ([]models.Component, error) {
	components := []models.Component{}
	query := `SELECT id, incubator_id, name, kind, state, updated_at FROM components`
	args := []interface{}{}
	if incubatorID > 0 {
		query += ` WHERE incubator_id = $1`
		args = append(args, incubatorID)
	}
	query += ` ORDER BY id`

	if err := r.db.GetDB().SelectContext(ctx, &components, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to list components", err)
	}
	return components, nil
}

// CreateComponent provisions a component. An existing id is left untouched so
// seeding can run on every start.
func (r *ComponentRepo) CreateComponent(ctx context.Context, c *models.Component) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO components (id, incubator_id, name, kind, state, updated_at)
		VALUES (:id, :incubator_id, :name, :kind, :state, :updated_at)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, c); err != nil {
		return errors.NewDatabaseError("failed to create component", err)
	}
	return nil
}

// SwapState locks the component row, writes the new state and returns the old
// one. Concurrent callers for the same id queue on the row lock.
func (r *ComponentRepo) SwapState(ctx context.Context, id int, state bool, at time.Time) (bool, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var previous bool
	err = tx.GetContext(ctx, &previous, `SELECT state FROM components WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, errors.NewNotFoundError("component not found", err)
		}
		return false, errors.NewDatabaseError("failed to lock component", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE components SET state = $1, updated_at = $2 WHERE id = $3`, state, at, id)
	if err != nil {
		return false, errors.NewDatabaseError("failed to update component state", err)
	}

	if err := r.Commit(tx); err != nil {
		return false, err
	}
	return previous, nil
}
