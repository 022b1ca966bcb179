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

var rangeCfg = &models.ThresholdConfig{IncubatorID: 1, TempMin: 27, TempMax: 30, HumidityMin: 70, HumidityMax: 90}

func sampleOf(kind models.ReadingKind, value float64) *models.Sample {
	return &models.Sample{IncubatorID: 1, ComponentID: 1, Kind: kind, Value: value, Timestamp: testNow}
}

func TestCheckThreshold_BoundariesAreInRange(t *testing.T) {
	for _, s := range []*models.Sample{
		sampleOf(models.KindTemperature, 27),
		sampleOf(models.KindTemperature, 30),
		sampleOf(models.KindTemperature, 28.5),
		sampleOf(models.KindHumidity, 70),
		sampleOf(models.KindHumidity, 90),
	} {
		assert.Nil(t, CheckThreshold(s, rangeCfg), "%s %.1f", s.Kind, s.Value)
	}
}

func TestCheckThreshold_Exceeds(t *testing.T) {
	alert := CheckThreshold(sampleOf(models.KindTemperature, 31), rangeCfg)
	require.NotNil(t, alert)
	assert.Equal(t, models.KindTemperature, alert.Kind)
	assert.Equal(t, 31.0, alert.Value)
	assert.Equal(t, 30.0, alert.Threshold)
	assert.Equal(t, models.DirectionExceeds, alert.Direction)
	assert.Equal(t, testNow, alert.Timestamp)
}

func TestCheckThreshold_Below(t *testing.T) {
	alert := CheckThreshold(sampleOf(models.KindHumidity, 69.9), rangeCfg)
	require.NotNil(t, alert)
	assert.Equal(t, models.KindHumidity, alert.Kind)
	assert.Equal(t, 70.0, alert.Threshold)
	assert.Equal(t, models.DirectionBelow, alert.Direction)
}

func TestCheckThreshold_UsesMatchingKind(t *testing.T) {
	// 75 is a fine humidity but far above the temperature range.
	assert.Nil(t, CheckThreshold(sampleOf(models.KindHumidity, 75), rangeCfg))
	assert.NotNil(t, CheckThreshold(sampleOf(models.KindTemperature, 75), rangeCfg))
}

func TestEvaluateSample_PersistsAlert(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	alert, err := svc.EvaluateSample(ctx, sampleOf(models.KindTemperature, 26))
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.NotEmpty(t, alert.ID)

	stored, err := store.Alerts.FindAlerts(ctx, 1, testNow.Add(-time.Minute), testNow.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alert.ID, stored[0].ID)
}

func TestEvaluateSample_MissingThreshold(t *testing.T) {
	svc, _ := newTestService()
	alert, err := svc.EvaluateSample(context.Background(), sampleOf(models.KindTemperature, 40))
	assert.Nil(t, alert)
	assert.True(t, errors.IsNotFound(err))
}
