package hubservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// CheckThreshold decides whether sample violates cfg. The range is inclusive:
// a value equal to min or max is in range. The returned record has no ID yet.
func CheckThreshold(sample *models.Sample, cfg *models.ThresholdConfig) *models.AlertRecord {
	low, high, ok := cfg.Range(sample.Kind)
	if !ok {
		return nil
	}

	var direction models.AlertDirection
	var threshold float64
	switch {
	case sample.Value > high:
		direction, threshold = models.DirectionExceeds, high
	case sample.Value < low:
		direction, threshold = models.DirectionBelow, low
	default:
		return nil
	}

	return &models.AlertRecord{
		IncubatorID: sample.IncubatorID,
		ComponentID: sample.ComponentID,
		Kind:        sample.Kind,
		Value:       sample.Value,
		Threshold:   threshold,
		Direction:   direction,
		Timestamp:   sample.Timestamp,
	}
}

// EvaluateSample checks one stored sample against the incubator's current
// range and persists the alert when it is out of range. A missing range is
// returned as NotFound.
func (s *HubService) EvaluateSample(ctx context.Context, sample *models.Sample) (*models.AlertRecord, error) {
	cfg, err := s.Thresholds.GetThreshold(ctx, sample.IncubatorID)
	if err != nil {
		return nil, storeError("failed to load threshold config", err)
	}

	alert := CheckThreshold(sample, cfg)
	if alert == nil {
		return nil, nil
	}
	alert.ID = uuid.NewString()

	if err := s.Alerts.InsertAlert(ctx, alert); err != nil {
		return nil, storeError("failed to store alert", err)
	}
	nuts.L.Infof("[Evaluator] Alert %s: incubator %d component %d %s %.2f %s %.2f",
		alert.ID, alert.IncubatorID, alert.ComponentID, alert.Kind, alert.Value, alert.Direction, alert.Threshold)
	s.Events.PublishAlert(*alert)
	return alert, nil
}
