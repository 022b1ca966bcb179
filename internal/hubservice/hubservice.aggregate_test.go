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

func at(minutes float64) time.Time {
	return testNow.Add(time.Duration(minutes * float64(time.Minute)))
}

func samplesAt(values map[float64]float64) []models.Sample {
	out := []models.Sample{}
	for m, v := range values {
		out = append(out, models.Sample{IncubatorID: 1, ComponentID: 1, Kind: models.KindTemperature, Value: v, Timestamp: at(m)})
	}
	return out
}

func TestBucketSamples_Empty(t *testing.T) {
	buckets := BucketSamples(nil, 5)
	assert.NotNil(t, buckets)
	assert.Empty(t, buckets)
}

func TestBucketSamples_SingleBucketMean(t *testing.T) {
	buckets := BucketSamples(samplesAt(map[float64]float64{0: 27, 1: 28, 3.5: 29, 4.9: 30}), 5)
	require.Len(t, buckets, 1)
	assert.Equal(t, 4, buckets[0].Count)
	assert.InDelta(t, 28.5, buckets[0].Average, 1e-9)
	assert.Equal(t, testNow, buckets[0].Start)
}

func TestBucketSamples_OriginIsFirstSample(t *testing.T) {
	// Origin at 0.5 min; elapsed whole minutes 0,1 -> bucket 0; 2,3 -> bucket 1; 6 -> bucket 3.
	buckets := BucketSamples(samplesAt(map[float64]float64{
		0.5: 10, 1.6: 20, 2.5: 30, 4.4: 50, 6.5: 70,
	}), 2)
	require.Len(t, buckets, 3)

	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 15, buckets[0].Average, 1e-9)
	assert.Equal(t, at(0.5), buckets[0].Start)

	assert.Equal(t, 2, buckets[1].Count)
	assert.InDelta(t, 40, buckets[1].Average, 1e-9)
	assert.Equal(t, at(2.5), buckets[1].Start)

	assert.Equal(t, 1, buckets[2].Count)
	assert.Equal(t, at(6.5), buckets[2].Start)
}

func TestBucketSamples_SortsInput(t *testing.T) {
	in := []models.Sample{
		{Value: 4, Timestamp: at(10)},
		{Value: 2, Timestamp: at(0)},
	}
	buckets := BucketSamples(in, 5)
	require.Len(t, buckets, 2)
	assert.Equal(t, 2.0, buckets[0].Average)
	assert.Equal(t, 4.0, buckets[1].Average)
	assert.Equal(t, 4.0, in[0].Value, "input must not be reordered")
}

func TestAggregate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := models.AggregateQuery{IncubatorID: 1, Kind: models.KindTemperature, Start: at(0), End: at(60), BucketMinutes: 5}

	q := base
	q.BucketMinutes = 0
	_, err := svc.Aggregate(ctx, q)
	assert.True(t, errors.IsValidation(err))

	q = base
	q.Start, q.End = q.End, q.Start
	_, err = svc.Aggregate(ctx, q)
	assert.True(t, errors.IsValidation(err))

	q = base
	q.Kind = "co2"
	_, err = svc.Aggregate(ctx, q)
	assert.True(t, errors.IsValidation(err))
}

func TestAggregate_EmptyWindow(t *testing.T) {
	svc, _ := newTestService()
	buckets, err := svc.Aggregate(context.Background(), models.AggregateQuery{
		IncubatorID: 1, Kind: models.KindHumidity, Start: at(0), End: at(60), BucketMinutes: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestAggregate_ReadsStoredSamples(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()
	for i, v := range []float64{28, 29, 27.5, 28.5} {
		ts := at(float64(i * 3))
		_, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1 + i%2, Kind: models.KindTemperature, Value: v, Timestamp: &ts})
		require.NoError(t, err)
	}
	// Humidity must not leak into temperature buckets.
	_, err := svc.IngestSample(ctx, models.SampleInput{IncubatorID: 1, ComponentID: 1, Kind: models.KindHumidity, Value: 80})
	require.NoError(t, err)

	buckets, err := svc.Aggregate(ctx, models.AggregateQuery{
		IncubatorID: 1, Kind: models.KindTemperature, Start: at(-1), End: at(60), BucketMinutes: 6,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.InDelta(t, 28.5, buckets[0].Average, 1e-9)
	assert.InDelta(t, 28.0, buckets[1].Average, 1e-9)

	buckets, err = svc.Aggregate(ctx, models.AggregateQuery{
		IncubatorID: 1, ComponentID: 2, Kind: models.KindTemperature, Start: at(-1), End: at(60), BucketMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 2, buckets[0].Count)
}
