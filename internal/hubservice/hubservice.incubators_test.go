package hubservice

import (
	"context"
	"testing"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertHistory(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 31})
	require.NoError(t, err)
	_, err = svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 2, Kind: models.KindHumidity, Value: 50})
	require.NoError(t, err)
	_, err = svc.SetActuatorState(ctx, 3, 1, true, nil)
	require.NoError(t, err)

	start, end := DayWindow(testNow)
	history, err := svc.AlertHistory(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Totals.Alerts)
	assert.Equal(t, 1, history.Totals.Activations)
	assert.Equal(t, models.DirectionBelow, history.Alerts[1].Direction)

	_, err = svc.AlertHistory(ctx, 1, end, start)
	assert.True(t, errors.IsValidation(err))
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("UTC-3", -3*3600)))
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 2, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestListComponents_FallbackSnapshot(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	svc.Components = failingList{store.Components}
	ctx := context.Background()

	_, err := svc.ListComponents(ctx, 1)
	assert.True(t, errors.IsPersistence(err), "no snapshot configured")

	svc.SetFallbackComponents([]models.Component{
		{ID: 1, IncubatorID: 1, Name: "sensorDHT11 A", Kind: models.ComponentSensor, State: true},
		{ID: 4, IncubatorID: 1, Name: "fan", Kind: models.ComponentActuator, State: true},
		{ID: 9, IncubatorID: 2, Name: "heater", Kind: models.ComponentActuator},
	})
	list, err := svc.ListComponents(ctx, 1)
	require.NoError(t, err)
	assert.True(t, list.Degraded)
	assert.Len(t, list.Components, 2)
}

func TestIncubatorStatus(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.IngestReadings(ctx, 1, nil, []models.SensorPair{
		{ComponentID: 1, Temperature: f64(28), Humidity: f64(72)},
		{ComponentID: 2, Temperature: f64(29), Humidity: f64(76)},
	})
	require.NoError(t, err)
	_, err = svc.SetActuatorState(ctx, 5, 1, true, nil)
	require.NoError(t, err)

	status, err := svc.IncubatorStatus(ctx, 1)
	require.NoError(t, err)
	require.Len(t, status.Temperature.Sensors, 2)
	require.NotNil(t, status.Temperature.Average)
	assert.InDelta(t, 28.5, *status.Temperature.Average, 1e-9)
	assert.InDelta(t, 74.0, *status.Humidity.Average, 1e-9)
	assert.Len(t, status.Actuators, 3)
	assert.False(t, status.Degraded)
}

func TestIncubatorStatus_NoReadings(t *testing.T) {
	svc, _ := newTestService()
	status, err := svc.IncubatorStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, status.Temperature.Average)
	assert.Empty(t, status.Humidity.Sensors)
}

func TestActuatorStates_ResolvesRoles(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.SetActuatorState(ctx, 4, 1, true, nil)
	require.NoError(t, err)

	states, err := svc.ActuatorStates(ctx, 1)
	require.NoError(t, err)
	assert.True(t, states.Fan)
	assert.False(t, states.Heater)
	assert.False(t, states.Humidifier)
}

func TestEnsureComponents(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureComponents(ctx, []models.Component{{ID: 7, IncubatorID: 2, Name: "fan", Kind: models.ComponentActuator}}))
	c, err := svc.Components.GetComponent(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "fan", c.Name)

	err = svc.EnsureComponents(ctx, []models.Component{{ID: 8, Name: "lamp", Kind: "light"}})
	assert.True(t, errors.IsValidation(err))
}
