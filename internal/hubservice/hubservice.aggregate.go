package hubservice

import (
	"context"
	"sort"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
)

// Aggregate averages the incubator's samples of one kind into buckets of
// BucketMinutes. Buckets start at the first sample in the window, not at
// wall-clock boundaries. An empty window yields an empty slice.
func (s *HubService) Aggregate(ctx context.Context, q models.AggregateQuery) ([]models.AggregateBucket, error) {
	if q.IncubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}
	if !q.Kind.Valid() {
		return nil, errors.NewValidationError("kind must be temperature or humidity", nil)
	}
	if q.BucketMinutes <= 0 {
		return nil, errors.NewValidationError("bucket_minutes must be positive", nil)
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return nil, errors.NewValidationError("window start and end are required", nil)
	}
	if q.Start.After(q.End) {
		return nil, errors.NewValidationError("window start must not be after window end", nil)
	}

	samples, err := s.Samples.FindSamples(ctx, models.SampleQuery{
		IncubatorID: q.IncubatorID,
		ComponentID: q.ComponentID,
		Kind:        q.Kind,
		Start:       q.Start.UTC(),
		End:         q.End.UTC(),
	})
	if err != nil {
		return nil, storeError("failed to load samples", err)
	}
	return BucketSamples(samples, q.BucketMinutes), nil
}

// BucketSamples groups samples by floor(elapsed minutes since the earliest
// sample / bucketMinutes) and averages each group.
func BucketSamples(samples []models.Sample, bucketMinutes int) []models.AggregateBucket {
	buckets := []models.AggregateBucket{}
	if len(samples) == 0 || bucketMinutes <= 0 {
		return buckets
	}

	ordered := append([]models.Sample(nil), samples...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	origin := ordered[0].Timestamp
	width := time.Duration(bucketMinutes) * time.Minute
	current := int64(-1)
	var sum float64

	for _, sample := range ordered {
		elapsedMinutes := int64(sample.Timestamp.Sub(origin) / time.Minute)
		index := elapsedMinutes / int64(bucketMinutes)
		if index != current {
			if len(buckets) > 0 {
				last := &buckets[len(buckets)-1]
				last.Average = sum / float64(last.Count)
			}
			buckets = append(buckets, models.AggregateBucket{Start: origin.Add(time.Duration(index) * width)})
			current = index
			sum = 0
		}
		sum += sample.Value
		buckets[len(buckets)-1].Count++
	}
	last := &buckets[len(buckets)-1]
	last.Average = sum / float64(last.Count)

	return buckets
}
