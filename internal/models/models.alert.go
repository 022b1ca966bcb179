package models

import "time"

// AlertDirection tells which side of the range a sample fell on.
type AlertDirection string

const (
	DirectionExceeds AlertDirection = "exceeds"
	DirectionBelow   AlertDirection = "below"
)

// AlertRecord is evidence that a sample violated the threshold in effect when it
// was evaluated. Timestamp is the violating sample's own timestamp.
type AlertRecord struct {
	ID          string         `json:"id" db:"id"`
	IncubatorID int            `json:"incubator_id" db:"incubator_id"`
	ComponentID int            `json:"component_id" db:"component_id"`
	Kind        ReadingKind    `json:"kind" db:"kind"`
	Value       float64        `json:"value" db:"value"`
	Threshold   float64        `json:"threshold" db:"threshold"`
	Direction   AlertDirection `json:"direction" db:"direction"`
	Timestamp   time.Time      `json:"timestamp" db:"timestamp"`
}

// ActivationRecord is evidence that an actuator went from off to on.
type ActivationRecord struct {
	ID          string    `json:"id" db:"id"`
	IncubatorID int       `json:"incubator_id" db:"incubator_id"`
	ComponentID int       `json:"component_id" db:"component_id"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// AlertTotals counts the records in an AlertHistory.
type AlertTotals struct {
	Alerts      int `json:"alerts"`
	Activations int `json:"activations"`
}

// AlertHistory is the alert log for one incubator over a window.
type AlertHistory struct {
	IncubatorID int                `json:"incubator_id"`
	Start       time.Time          `json:"window_start"`
	End         time.Time          `json:"window_end"`
	Alerts      []AlertRecord      `json:"alerts"`
	Activations []ActivationRecord `json:"activations"`
	Totals      AlertTotals        `json:"totals"`
}
