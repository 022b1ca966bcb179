package models

import "time"

// AggregateQuery describes a chart request.
type AggregateQuery struct {
	IncubatorID   int
	ComponentID   int
	Kind          ReadingKind
	Start         time.Time
	End           time.Time
	BucketMinutes int
}

// AggregateBucket is a derived average over the samples of one bucket. Never stored.
type AggregateBucket struct {
	Start   time.Time `json:"start"`
	Average float64   `json:"average"`
	Count   int       `json:"count"`
}

// SensorReading is the latest value one sensor reported.
type SensorReading struct {
	ComponentID int       `json:"component_id"`
	Value       float64   `json:"value"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReadingSummary groups the latest readings of one kind across sensors.
type ReadingSummary struct {
	Kind    ReadingKind     `json:"kind"`
	Sensors []SensorReading `json:"sensors"`
	Average *float64        `json:"average,omitempty"`
}

// IncubatorStatus is the dashboard view of one incubator.
type IncubatorStatus struct {
	IncubatorID int            `json:"incubator_id"`
	Temperature ReadingSummary `json:"temperature"`
	Humidity    ReadingSummary `json:"humidity"`
	Actuators   []Component    `json:"actuators"`
	Degraded    bool           `json:"degraded"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ActuatorStates is the compact view polled by incubator firmware.
type ActuatorStates struct {
	IncubatorID int  `json:"incubator_id"`
	Fan         bool `json:"fan"`
	Heater      bool `json:"heater"`
	Humidifier  bool `json:"humidifier"`
}
