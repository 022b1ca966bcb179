package hubservice

import (
	"context"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/report"
)

// AlertHistory returns the alerts and activations logged for an incubator in
// [start, end], each in ascending time order.
func (s *HubService) AlertHistory(ctx context.Context, incubatorID int, start, end time.Time) (*models.AlertHistory, error) {
	if incubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}
	if start.IsZero() || end.IsZero() {
		return nil, errors.NewValidationError("window start and end are required", nil)
	}
	if start.After(end) {
		return nil, errors.NewValidationError("window start must not be after window end", nil)
	}
	start, end = start.UTC(), end.UTC()

	alerts, err := s.Alerts.FindAlerts(ctx, incubatorID, start, end)
	if err != nil {
		return nil, storeError("failed to load alerts", err)
	}
	activations, err := s.Activations.FindActivations(ctx, incubatorID, start, end)
	if err != nil {
		return nil, storeError("failed to load activations", err)
	}

	return &models.AlertHistory{
		IncubatorID: incubatorID,
		Start:       start,
		End:         end,
		Alerts:      alerts,
		Activations: activations,
		Totals: models.AlertTotals{
			Alerts:      len(alerts),
			Activations: len(activations),
		},
	}, nil
}

// DayWindow returns the UTC day containing t as [00:00, 23:59:59.999].
func DayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Millisecond)
}

// ExportHistory collects the raw samples and logs of a window for the
// spreadsheet export.
func (s *HubService) ExportHistory(ctx context.Context, incubatorID int, start, end time.Time) (*report.History, error) {
	history, err := s.AlertHistory(ctx, incubatorID, start, end)
	if err != nil {
		return nil, err
	}

	out := &report.History{
		IncubatorID: incubatorID,
		Start:       history.Start,
		End:         history.End,
		Alerts:      history.Alerts,
		Activations: history.Activations,
	}
	for _, kind := range []models.ReadingKind{models.KindTemperature, models.KindHumidity} {
		samples, err := s.Samples.FindSamples(ctx, models.SampleQuery{
			IncubatorID: incubatorID,
			Kind:        kind,
			Start:       history.Start,
			End:         history.End,
		})
		if err != nil {
			return nil, storeError("failed to load samples", err)
		}
		if kind == models.KindTemperature {
			out.Temperature = samples
		} else {
			out.Humidity = samples
		}
	}
	return out, nil
}
