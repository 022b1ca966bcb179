package models

import (
	"strings"
	"time"
)

type ComponentKind string

const (
	ComponentSensor   ComponentKind = "sensor"
	ComponentActuator ComponentKind = "actuator"
)

// ActuatorRole is the normalized function of an actuator.
type ActuatorRole string

const (
	RoleHeater     ActuatorRole = "heater"
	RoleFan        ActuatorRole = "fan"
	RoleHumidifier ActuatorRole = "humidifier"
	RoleUnknown    ActuatorRole = ""
)

// Component is a physical sensor or actuator attached to an incubator. State is
// only meaningful for actuators.
type Component struct {
	ID          int           `json:"id" db:"id" mapstructure:"id"`
	IncubatorID int           `json:"incubator_id" db:"incubator_id" mapstructure:"incubator_id"`
	Name        string        `json:"name" db:"name" mapstructure:"name"`
	Kind        ComponentKind `json:"kind" db:"kind" mapstructure:"kind"`
	State       bool          `json:"state" db:"state" mapstructure:"state"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at" mapstructure:"-"`
}

// IsActuator reports whether the component carries a switchable state.
func (c *Component) IsActuator() bool {
	return c.Kind == ComponentActuator
}

// Role maps the display name to an actuator role. Firmware and older clients
// use Spanish names, so both spellings resolve.
func (c *Component) Role() ActuatorRole {
	name := strings.ToLower(strings.TrimSpace(c.Name))
	switch {
	case strings.Contains(name, "heater"), strings.Contains(name, "calefactor"):
		return RoleHeater
	case strings.Contains(name, "fan"), strings.Contains(name, "ventilador"):
		return RoleFan
	case strings.Contains(name, "humidifier"), strings.Contains(name, "humificador"), strings.Contains(name, "humidificador"):
		return RoleHumidifier
	}
	return RoleUnknown
}

// ComponentList is a listing that may come from the fallback snapshot.
type ComponentList struct {
	Components []Component `json:"components"`
	Degraded   bool        `json:"degraded"`
}

// ActuatorAck confirms a state change.
type ActuatorAck struct {
	ComponentID int               `json:"component_id"`
	IncubatorID int               `json:"incubator_id"`
	State       bool              `json:"state"`
	Previous    bool              `json:"previous"`
	Activation  *ActivationRecord `json:"activation,omitempty"`
}
