package models

import "time"

// ReadingKind is the physical quantity a sensor sample measures.
type ReadingKind string

const (
	KindTemperature ReadingKind = "temperature"
	KindHumidity    ReadingKind = "humidity"
)

// Valid reports whether k is a supported reading kind.
func (k ReadingKind) Valid() bool {
	return k == KindTemperature || k == KindHumidity
}

// Sample is one reading from one sensor at one instant. Samples are immutable
// once recorded; Timestamp is always stored as UTC.
type Sample struct {
	ID          string      `json:"id" db:"id"`
	IncubatorID int         `json:"incubator_id" db:"incubator_id"`
	ComponentID int         `json:"component_id" db:"component_id"`
	Kind        ReadingKind `json:"kind" db:"kind"`
	Value       float64     `json:"value" db:"value"`
	Timestamp   time.Time   `json:"timestamp" db:"timestamp"`
}

// SampleInput is an inbound reading before validation. A nil Timestamp means
// the reading is stamped with the ingestion time.
type SampleInput struct {
	IncubatorID int         `json:"incubator_id"`
	ComponentID int         `json:"component_id"`
	Kind        ReadingKind `json:"kind"`
	Value       float64     `json:"value"`
	Timestamp   *time.Time  `json:"timestamp,omitempty"`
}

// SensorPair is the paired temperature/humidity payload a DHT-style sensor
// reports. Both values are pointers so an absent reading stays absent.
type SensorPair struct {
	ComponentID int      `json:"component_id"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// Missing names the first reading the pair lacks, or "" when both are present.
func (p SensorPair) Missing() string {
	switch {
	case p.Temperature == nil:
		return "temperature"
	case p.Humidity == nil:
		return "humidity"
	}
	return ""
}

// SampleQuery selects samples of one kind for one incubator within [Start, End].
// ComponentID 0 matches every sensor.
type SampleQuery struct {
	IncubatorID int
	ComponentID int
	Kind        ReadingKind
	Start       time.Time
	End         time.Time
}

// IngestResult is what ingestion hands back: the stored sample and, when the
// sample was out of range, the alert it produced.
type IngestResult struct {
	Sample          *Sample      `json:"sample"`
	Alert           *AlertRecord `json:"alert,omitempty"`
	EvaluationError string       `json:"evaluation_error,omitempty"`
}
