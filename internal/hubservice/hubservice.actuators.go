package hubservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SetActuatorState persists the requested state and logs an activation only on
// an off->on edge. Requests for the same component are serialized, so
// concurrent "on" requests produce a single activation. The activation is
// written only after the state write succeeded.
func (s *HubService) SetActuatorState(ctx context.Context, componentID, incubatorID int, desired bool, occurredAt *time.Time) (*models.ActuatorAck, error) {
	if componentID <= 0 {
		return nil, errors.NewValidationError("component id must be positive", nil)
	}
	at := s.now().UTC()
	if occurredAt != nil {
		if occurredAt.IsZero() {
			return nil, errors.NewValidationError("occurred_at must not be zero", nil)
		}
		at = occurredAt.UTC()
	}

	unlock := s.locks.Lock(componentID)
	defer unlock()

	component, err := s.Components.GetComponent(ctx, componentID)
	if err != nil {
		return nil, storeError("failed to load component", err)
	}
	if !component.IsActuator() {
		return nil, errors.NewValidationError("component is not an actuator", nil).
			WithDetails(map[string]int{"component_id": componentID})
	}
	switch {
	case incubatorID <= 0:
		incubatorID = component.IncubatorID
	case incubatorID != component.IncubatorID:
		return nil, errors.NewNotFoundError("component not found in incubator", nil).
			WithDetails(map[string]int{"component_id": componentID, "incubator_id": incubatorID})
	}

	previous, err := s.Components.SwapState(ctx, componentID, desired, at)
	if err != nil {
		return nil, storeError("failed to persist actuator state", err)
	}

	ack := &models.ActuatorAck{
		ComponentID: componentID,
		IncubatorID: incubatorID,
		State:       desired,
		Previous:    previous,
	}
	if !desired || previous {
		return ack, nil
	}

	rec := &models.ActivationRecord{
		ID:          uuid.NewString(),
		IncubatorID: incubatorID,
		ComponentID: componentID,
		Timestamp:   at,
	}
	if err := s.Activations.InsertActivation(ctx, rec); err != nil {
		nuts.L.Errorf("[Actuators] Component %d switched on but activation log failed: %v", componentID, err)
		return nil, storeError("failed to store activation", err)
	}
	nuts.L.Infof("[Actuators] Component %d (%s) activated on incubator %d", componentID, component.Name, incubatorID)
	s.Events.PublishActivation(*rec)

	ack.Activation = rec
	return ack, nil
}
