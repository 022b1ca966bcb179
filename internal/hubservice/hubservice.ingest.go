package hubservice

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IngestSample validates and stores one reading, then evaluates it against
// the incubator's range. Evaluation problems never fail the ingest: they are
// logged and reported in the result.
func (s *HubService) IngestSample(ctx context.Context, in models.SampleInput) (*models.IngestResult, error) {
	sample, err := s.normalizeSample(in)
	if err != nil {
		return nil, err
	}

	if err := s.Samples.InsertSample(ctx, sample); err != nil {
		return nil, storeError("failed to store sample", err)
	}
	s.Events.PublishSample(*sample)

	result := &models.IngestResult{Sample: sample}
	alert, err := s.EvaluateSample(ctx, sample)
	if err != nil {
		nuts.L.Warnf("[Ingest] Sample %s stored without alert evaluation: %v", sample.ID, err)
		result.EvaluationError = errors.AsAPIError(err).Message
		return result, nil
	}
	result.Alert = alert
	return result, nil
}

// IngestReadings stores a paired temperature/humidity report from each sensor.
// All samples share ts, or the ingestion time when ts is nil. Values are
// validated up front so a bad pair stores nothing.
func (s *HubService) IngestReadings(ctx context.Context, incubatorID int, ts *time.Time, pairs []models.SensorPair) ([]models.IngestResult, error) {
	if len(pairs) == 0 {
		return nil, errors.NewValidationError("at least one sensor reading is required", nil)
	}
	if ts == nil {
		now := s.now().UTC()
		ts = &now
	}

	inputs := make([]models.SampleInput, 0, len(pairs)*2)
	for _, p := range pairs {
		if field := p.Missing(); field != "" {
			return nil, errors.NewValidationError(
				fmt.Sprintf("sensor %d is missing %s", p.ComponentID, field), nil)
		}
		inputs = append(inputs,
			models.SampleInput{IncubatorID: incubatorID, ComponentID: p.ComponentID, Kind: models.KindTemperature, Value: *p.Temperature, Timestamp: ts},
			models.SampleInput{IncubatorID: incubatorID, ComponentID: p.ComponentID, Kind: models.KindHumidity, Value: *p.Humidity, Timestamp: ts},
		)
	}
	for _, in := range inputs {
		if _, err := s.normalizeSample(in); err != nil {
			return nil, err
		}
	}

	results := make([]models.IngestResult, 0, len(inputs))
	for _, in := range inputs {
		res, err := s.IngestSample(ctx, in)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *HubService) normalizeSample(in models.SampleInput) (*models.Sample, error) {
	if in.IncubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}
	if in.ComponentID <= 0 {
		return nil, errors.NewValidationError("component id must be positive", nil)
	}
	if !in.Kind.Valid() {
		return nil, errors.NewValidationError("kind must be temperature or humidity", nil).
			WithDetails(map[string]string{"kind": string(in.Kind)})
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return nil, errors.NewValidationError("value must be a finite number", nil)
	}

	ts := s.now().UTC()
	if in.Timestamp != nil {
		if in.Timestamp.IsZero() {
			return nil, errors.NewValidationError("timestamp must not be zero", nil)
		}
		ts = in.Timestamp.UTC()
	}

	return &models.Sample{
		IncubatorID: in.IncubatorID,
		ComponentID: in.ComponentID,
		Kind:        in.Kind,
		Value:       in.Value,
		Timestamp:   ts,
	}, nil
}
