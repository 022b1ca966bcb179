package hubservice

import (
	"context"
	"math"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// GetThreshold returns the active range of an incubator or NotFound.
func (s *HubService) GetThreshold(ctx context.Context, incubatorID int) (*models.ThresholdConfig, error) {
	if incubatorID <= 0 {
		return nil, errors.NewValidationError("incubator id must be positive", nil)
	}
	cfg, err := s.Thresholds.GetThreshold(ctx, incubatorID)
	if err != nil {
		return nil, storeError("failed to load threshold config", err)
	}
	return cfg, nil
}

// SetThreshold replaces the active range of an incubator. An invalid range is
// rejected before anything is written.
func (s *HubService) SetThreshold(ctx context.Context, incubatorID int, tempMin, tempMax, humidityMin, humidityMax float64) (*models.ThresholdConfig, error) {
	cfg := &models.ThresholdConfig{
		IncubatorID: incubatorID,
		TempMin:     tempMin,
		TempMax:     tempMax,
		HumidityMin: humidityMin,
		HumidityMax: humidityMax,
		UpdatedAt:   s.now().UTC(),
	}
	if err := ValidateThreshold(cfg); err != nil {
		return nil, err
	}

	if err := s.Thresholds.UpsertThreshold(ctx, cfg); err != nil {
		return nil, storeError("failed to save threshold config", err)
	}
	nuts.L.Infof("[Thresholds] Incubator %d range set: temp %.2f..%.2f, humidity %.2f..%.2f",
		incubatorID, tempMin, tempMax, humidityMin, humidityMax)
	return cfg, nil
}

// ValidateThreshold enforces finite values and min < max for both ranges.
func ValidateThreshold(cfg *models.ThresholdConfig) error {
	if cfg.IncubatorID <= 0 {
		return errors.NewValidationError("incubator id must be positive", nil)
	}
	values := map[string]float64{
		"temp_min":     cfg.TempMin,
		"temp_max":     cfg.TempMax,
		"humidity_min": cfg.HumidityMin,
		"humidity_max": cfg.HumidityMax,
	}
	for field, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewValidationError("threshold values must be finite numbers", nil).
				WithDetails(map[string]string{"field": field})
		}
	}
	if cfg.TempMin >= cfg.TempMax {
		return errors.NewValidationError("temp_min must be lower than temp_max", nil)
	}
	if cfg.HumidityMin >= cfg.HumidityMax {
		return errors.NewValidationError("humidity_min must be lower than humidity_max", nil)
	}
	return nil
}

// SeedThresholds stores template for every incubator that has no range yet.
func (s *HubService) SeedThresholds(ctx context.Context, incubatorIDs []int, template models.ThresholdConfig) error {
	for _, id := range incubatorIDs {
		_, err := s.Thresholds.GetThreshold(ctx, id)
		if err == nil {
			continue
		}
		if !errors.IsNotFound(err) {
			return storeError("failed to load threshold config", err)
		}
		cfg := template
		cfg.IncubatorID = id
		cfg.UpdatedAt = s.now().UTC()
		if err := ValidateThreshold(&cfg); err != nil {
			return err
		}
		if err := s.Thresholds.UpsertThreshold(ctx, &cfg); err != nil {
			return storeError("failed to seed threshold config", err)
		}
		nuts.L.Infof("[Thresholds] Seeded default range for incubator %d", id)
	}
	return nil
}
