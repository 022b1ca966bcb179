package hubservice

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window() (time.Time, time.Time) {
	return testNow.Add(-48 * time.Hour), testNow.Add(48 * time.Hour)
}

func TestIngestSample_TemperatureAboveMaxRaisesAlert(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	res, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 31})
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Equal(t, models.KindTemperature, res.Alert.Kind)
	assert.Equal(t, 31.0, res.Alert.Value)
	assert.Equal(t, 30.0, res.Alert.Threshold)
	assert.Equal(t, models.DirectionExceeds, res.Alert.Direction)
	assert.Equal(t, res.Sample.Timestamp, res.Alert.Timestamp)

	start, end := window()
	samples, err := store.Samples.FindSamples(ctx, models.SampleQuery{IncubatorID: 1, Kind: models.KindTemperature, Start: start, End: end})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestIngestSample_PublishesAlertOnBus(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)

	var published []models.AlertRecord
	require.NoError(t, svc.Events.OnAlert("test", func(a models.AlertRecord) { published = append(published, a) }))

	res, err := svc.IngestSample(context.Background(), models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 31})
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	require.Len(t, published, 1)
	assert.Equal(t, res.Alert.ID, published[0].ID)
}

func TestIngestSample_HumidityAtMinIsQuiet(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	res, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 2, Kind: models.KindHumidity, Value: 70})
	require.NoError(t, err)
	assert.Nil(t, res.Alert)
	assert.Empty(t, res.EvaluationError)

	start, end := window()
	alerts, err := store.Alerts.FindAlerts(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestIngestSample_TimestampPolicy(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	res, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 28})
	require.NoError(t, err)
	assert.Equal(t, testNow, res.Sample.Timestamp)

	loc := time.FixedZone("UTC-5", -5*3600)
	backdated := time.Date(2024, 4, 30, 7, 15, 30, 123456789, loc)
	res, err = svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 28, Timestamp: &backdated})
	require.NoError(t, err)
	assert.True(t, res.Sample.Timestamp.Equal(backdated))
	assert.Equal(t, time.UTC, res.Sample.Timestamp.Location())
}

func TestIngestSample_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	zero := time.Time{}

	for name, in := range map[string]models.SampleInput{
		"nan":            {IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: math.NaN()},
		"infinite":       {IncubatorID: 1, ComponentID: 1, Kind: models.KindHumidity, Value: math.Inf(1)},
		"unknown kind":   {IncubatorID: 1, ComponentID: 1, Kind: "pressure", Value: 1},
		"no incubator":   {ComponentID: 1, Kind: models.KindTemperature, Value: 28},
		"no component":   {IncubatorID: 1, Kind: models.KindTemperature, Value: 28},
		"zero timestamp": {IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 28, Timestamp: &zero},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.IngestSample(ctx, in)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestIngestSample_StoredEvenWithoutThreshold(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	res, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 3, ComponentID: 1, Kind: models.KindTemperature, Value: 45})
	require.NoError(t, err)
	assert.Nil(t, res.Alert)
	assert.NotEmpty(t, res.EvaluationError)

	start, end := window()
	samples, err := store.Samples.FindSamples(ctx, models.SampleQuery{IncubatorID: 3, Kind: models.KindTemperature, Start: start, End: end})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestIngestSample_AlertStoreFailureDoesNotFailIngest(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	svc.Alerts = failingAlerts{store.Alerts}

	res, err := svc.IngestSample(context.Background(), models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 35})
	require.NoError(t, err)
	assert.NotNil(t, res.Sample)
	assert.Nil(t, res.Alert)
	assert.NotEmpty(t, res.EvaluationError)
}

func TestIngestSample_SampleStoreFailure(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	svc.Samples = failingSamples{store.Samples}

	_, err := svc.IngestSample(context.Background(), models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: 35})
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))

	start, end := window()
	alerts, err := store.Alerts.FindAlerts(context.Background(), 1, start, end)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestIngestReadings_PairsShareTimestamp(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()
	ts := testNow.Add(-time.Hour)

	results, err := svc.IngestReadings(ctx, 1, &ts, []models.SensorPair{
		{ComponentID: 1, Temperature: f64(28), Humidity: f64(75)},
		{ComponentID: 2, Temperature: f64(31), Humidity: f64(95)},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.Equal(t, ts, r.Sample.Timestamp)
	}
	assert.Nil(t, results[0].Alert)
	assert.NotNil(t, results[2].Alert)
	assert.NotNil(t, results[3].Alert)

	start, end := window()
	alerts, err := store.Alerts.FindAlerts(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestIngestReadings_RejectsBadPairBeforeStoring(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.IngestReadings(ctx, 1, nil, []models.SensorPair{
		{ComponentID: 1, Temperature: f64(28), Humidity: f64(75)},
		{ComponentID: 2, Temperature: f64(math.NaN()), Humidity: f64(80)},
	})
	assert.True(t, errors.IsValidation(err))

	start, end := window()
	samples, err := store.Samples.FindSamples(ctx, models.SampleQuery{IncubatorID: 1, Kind: models.KindTemperature, Start: start, End: end})
	require.NoError(t, err)
	assert.Empty(t, samples)

	_, err = svc.IngestReadings(ctx, 1, nil, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestIngestReadings_MissingValueIsRejected(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.IngestReadings(ctx, 1, nil, []models.SensorPair{
		{ComponentID: 1, Temperature: f64(28)},
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "humidity")

	_, err = svc.IngestReadings(ctx, 1, nil, []models.SensorPair{
		{ComponentID: 2, Humidity: f64(75)},
	})
	assert.True(t, errors.IsValidation(err))

	start, end := window()
	for _, kind := range []models.ReadingKind{models.KindTemperature, models.KindHumidity} {
		samples, err := store.Samples.FindSamples(ctx, models.SampleQuery{IncubatorID: 1, Kind: kind, Start: start, End: end})
		require.NoError(t, err)
		assert.Empty(t, samples)
	}
	alerts, err := store.Alerts.FindAlerts(ctx, 1, start, end)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
