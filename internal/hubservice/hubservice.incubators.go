package hubservice

import (
	"context"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ListComponents lists the incubator's components (0 lists all). When the
// store fails and a fallback snapshot is configured, the snapshot is returned
// flagged as degraded.
func (s *HubService) ListComponents(ctx context.Context, incubatorID int) (*models.ComponentList, error) {
	components, err := s.Components.ListComponents(ctx, incubatorID)
	if err == nil {
		return &models.ComponentList{Components: components}, nil
	}
	if len(s.fallback) == 0 {
		return nil, storeError("failed to list components", err)
	}

	nuts.L.Warnf("[Components] Store unavailable, serving fallback snapshot: %v", err)
	snapshot := []models.Component{}
	for _, c := range s.fallback {
		if incubatorID > 0 && c.IncubatorID != incubatorID {
			continue
		}
		snapshot = append(snapshot, c)
	}
	return &models.ComponentList{Components: snapshot, Degraded: true}, nil
}

// EnsureComponents provisions components that do not exist yet.
func (s *HubService) EnsureComponents(ctx context.Context, components []models.Component) error {
	for i := range components {
		c := components[i]
		if c.Kind != models.ComponentSensor && c.Kind != models.ComponentActuator {
			return errors.NewValidationError("component kind must be sensor or actuator", nil).
				WithDetails(map[string]int{"component_id": c.ID})
		}
		if err := s.Components.CreateComponent(ctx, &c); err != nil {
			return storeError("failed to provision component", err)
		}
	}
	return nil
}

// IncubatorStatus builds the dashboard view: the latest reading of every
// sensor, the mean across sensors per kind and the actuator states.
func (s *HubService) IncubatorStatus(ctx context.Context, incubatorID int) (*models.IncubatorStatus, error) {
	if incubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}

	temperature, err := s.readingSummary(ctx, incubatorID, models.KindTemperature)
	if err != nil {
		return nil, err
	}
	humidity, err := s.readingSummary(ctx, incubatorID, models.KindHumidity)
	if err != nil {
		return nil, err
	}

	list, err := s.ListComponents(ctx, incubatorID)
	if err != nil {
		return nil, err
	}
	actuators := []models.Component{}
	for _, c := range list.Components {
		if c.IsActuator() {
			actuators = append(actuators, c)
		}
	}

	return &models.IncubatorStatus{
		IncubatorID: incubatorID,
		Temperature: temperature,
		Humidity:    humidity,
		Actuators:   actuators,
		Degraded:    list.Degraded,
		UpdatedAt:   s.now().UTC(),
	}, nil
}

func (s *HubService) readingSummary(ctx context.Context, incubatorID int, kind models.ReadingKind) (models.ReadingSummary, error) {
	summary := models.ReadingSummary{Kind: kind, Sensors: []models.SensorReading{}}
	latest, err := s.Samples.LatestSamples(ctx, incubatorID, kind)
	if err != nil {
		return summary, storeError("failed to load latest samples", err)
	}
	if len(latest) == 0 {
		return summary, nil
	}

	var sum float64
	for _, sample := range latest {
		summary.Sensors = append(summary.Sensors, models.SensorReading{
			ComponentID: sample.ComponentID,
			Value:       sample.Value,
			Timestamp:   sample.Timestamp,
		})
		sum += sample.Value
	}
	avg := sum / float64(len(latest))
	summary.Average = &avg
	return summary, nil
}

// ActuatorStates resolves the fan, heater and humidifier states of an
// incubator from the actuator names.
func (s *HubService) ActuatorStates(ctx context.Context, incubatorID int) (*models.ActuatorStates, error) {
	if incubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}
	list, err := s.ListComponents(ctx, incubatorID)
	if err != nil {
		return nil, err
	}

	states := &models.ActuatorStates{IncubatorID: incubatorID}
	for _, c := range list.Components {
		if !c.IsActuator() {
			continue
		}
		switch c.Role() {
		case models.RoleFan:
			states.Fan = c.State
		case models.RoleHeater:
			states.Heater = c.State
		case models.RoleHumidifier:
			states.Humidifier = c.State
		}
	}
	return states, nil
}
