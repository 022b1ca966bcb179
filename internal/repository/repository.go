package repository

import (
	"context"
	"time"

	"github.com/mosca-iot/hub/internal/models"
)

// Every method may block on the store and may fail. Implementations return
// errors from internal/errors: NotFound for missing rows, DatabaseError for
// store failures.

// ThresholdRepository stores one active ThresholdConfig per incubator.
type ThresholdRepository interface {
	GetThreshold(ctx context.Context, incubatorID int) (*models.ThresholdConfig, error)
	UpsertThreshold(ctx context.Context, cfg *models.ThresholdConfig) error
}

// SampleRepository stores immutable sensor samples.
type SampleRepository interface {
	InsertSample(ctx context.Context, sample *models.Sample) error
	// FindSamples returns samples in [q.Start, q.End] ordered by timestamp ascending.
	FindSamples(ctx context.Context, q models.SampleQuery) ([]models.Sample, error)
	// LatestSamples returns the newest sample of kind for every sensor of the incubator.
	LatestSamples(ctx context.Context, incubatorID int, kind models.ReadingKind) ([]models.Sample, error)
}

// ComponentRepository stores sensors and actuators.
type ComponentRepository interface {
	GetComponent(ctx context.Context, id int) (*models.Component, error)
	// ListComponents lists the incubator's components ordered by id; 0 lists all.
	ListComponents(ctx context.Context, incubatorID int) ([]models.Component, error)
	CreateComponent(ctx context.Context, c *models.Component) error
	// SwapState persists state and returns the state stored before the write.
	// The read and the write are atomic with respect to other SwapState calls
	// for the same component.
	SwapState(ctx context.Context, id int, state bool, at time.Time) (previous bool, err error)
}

// AlertRepository stores alert log entries.
type AlertRepository interface {
	InsertAlert(ctx context.Context, alert *models.AlertRecord) error
	FindAlerts(ctx context.Context, incubatorID int, start, end time.Time) ([]models.AlertRecord, error)
}

// ActivationRepository stores actuator activation log entries.
type ActivationRepository interface {
	InsertActivation(ctx context.Context, rec *models.ActivationRecord) error
	FindActivations(ctx context.Context, incubatorID int, start, end time.Time) ([]models.ActivationRecord, error)
}
