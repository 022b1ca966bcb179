package models

import "time"

// ThresholdConfig is the accepted operating range for one incubator. There is
// exactly one active config per incubator.
type ThresholdConfig struct {
	IncubatorID int       `json:"incubator_id" db:"incubator_id"`
	TempMin     float64   `json:"temp_min" db:"temp_min"`
	TempMax     float64   `json:"temp_max" db:"temp_max"`
	HumidityMin float64   `json:"humidity_min" db:"humidity_min"`
	HumidityMax float64   `json:"humidity_max" db:"humidity_max"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Range returns the min/max pair that applies to kind.
func (c *ThresholdConfig) Range(kind ReadingKind) (min, max float64, ok bool) {
	switch kind {
	case KindTemperature:
		return c.TempMin, c.TempMax, true
	case KindHumidity:
		return c.HumidityMin, c.HumidityMax, true
	}
	return 0, 0, false
}
