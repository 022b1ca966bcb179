package hubservice

import (
	stderrors "errors"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/events"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/repository"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Thresholds  repository.ThresholdRepository
	Samples     repository.SampleRepository
	Components  repository.ComponentRepository
	Alerts      repository.AlertRepository
	Activations repository.ActivationRepository
	Events      *events.Bus

	fallback []models.Component
	locks    *keyedMutex
	now      func() time.Time
}

// New creates a new HubService instance
func New(
	thresholds repository.ThresholdRepository,
	samples repository.SampleRepository,
	components repository.ComponentRepository,
	alerts repository.AlertRepository,
	activations repository.ActivationRepository,
) *HubService {
	return &HubService{
		Thresholds:  thresholds,
		Samples:     samples,
		Components:  components,
		Alerts:      alerts,
		Activations: activations,
		Events:      events.NewBus(),
		locks:       newKeyedMutex(),
		now:         time.Now,
	}
}

// SetFallbackComponents sets the snapshot served when the component store is unreachable.
func (s *HubService) SetFallbackComponents(components []models.Component) {
	s.fallback = append([]models.Component(nil), components...)
}

// Validate checks if all required repositories are initialized
func (s *HubService) Validate() error {
	if s.Thresholds == nil {
		return ErrMissingRepository("thresholds")
	}
	if s.Samples == nil {
		return ErrMissingRepository("samples")
	}
	if s.Components == nil {
		return ErrMissingRepository("components")
	}
	if s.Alerts == nil {
		return ErrMissingRepository("alerts")
	}
	if s.Activations == nil {
		return ErrMissingRepository("activations")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// storeError keeps classified repository errors and treats anything else as a
// persistence failure.
func storeError(msg string, err error) error {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return err
	}
	return errors.NewDatabaseError(msg, err)
}
