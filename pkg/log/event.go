package log

import (
	"time"
)

// Event represents a bring-up trace event captured by any component.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// TraceID identifies one bring-up run (UUID).
	TraceID string `cbor:"2,keyasint,omitempty"`

	// Component that captured the event.
	Component Component `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// DeviceID is the accessory identifier (populated once known).
	DeviceID string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Dispatch    *DispatchEvent    `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Component identifies the part of the bring-up that captured an event.
type Component uint8

const (
	ComponentRouter       Component = 0
	ComponentNetwork      Component = 1
	ComponentProvisioning Component = 2
	ComponentAccessory    Component = 3
	ComponentServer       Component = 4
	ComponentOrchestrator Component = 5
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentRouter:
		return "ROUTER"
	case ComponentNetwork:
		return "NETWORK"
	case ComponentProvisioning:
		return "PROVISIONING"
	case ComponentAccessory:
		return "ACCESSORY"
	case ComponentServer:
		return "SERVER"
	case ComponentOrchestrator:
		return "ORCHESTRATOR"
	default:
		return "UNKNOWN"
	}
}

// ParseComponent returns the component with the given name.
func ParseComponent(s string) (Component, bool) {
	for c := ComponentRouter; c <= ComponentOrchestrator; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDispatch indicates a notification delivered by the event router.
	CategoryDispatch Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDispatch:
		return "DISPATCH"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryDispatch; c <= CategoryError; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// DispatchEvent captures one notification delivered by the event router.
type DispatchEvent struct {
	// Source is the event source (e.g. WIFI_EVENT).
	Source string `cbor:"1,keyasint"`

	// ID is the source-specific event identifier.
	ID int32 `cbor:"2,keyasint"`

	// Name is a readable name for ID, if the source registered one.
	Name string `cbor:"3,keyasint,omitempty"`

	// Seq is the router-wide posting sequence number.
	Seq uint64 `cbor:"4,keyasint"`

	// Handlers is the number of handlers the event was delivered to.
	Handlers int `cbor:"5,keyasint"`

	// Latency is the time between posting and delivery.
	Latency time.Duration `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent captures lifecycle transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	StateEntityProvisioning StateEntity = 0
	StateEntityStation      StateEntity = 1
	StateEntityServer       StateEntity = 2
	StateEntityAccessory    StateEntity = 3
	StateEntityBringup      StateEntity = 4
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityProvisioning:
		return "PROVISIONING"
	case StateEntityStation:
		return "STATION"
	case StateEntityServer:
		return "SERVER"
	case StateEntityAccessory:
		return "ACCESSORY"
	case StateEntityBringup:
		return "BRINGUP"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors reported by any component.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Operation describes what was being performed.
	Operation string `cbor:"2,keyasint,omitempty"`

	// Code is a collaborator status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Fatal marks errors that abort the bring-up.
	Fatal bool `cbor:"4,keyasint,omitempty"`
}

// NewStateEvent builds a state change event stamped with the current time.
func NewStateEvent(component Component, entity StateEntity, oldState, newState, reason string) Event {
	return Event{
		Timestamp: time.Now(),
		Component: component,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	}
}

// NewErrorEvent builds an error event stamped with the current time.
func NewErrorEvent(component Component, operation string, err error, fatal bool) Event {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Event{
		Timestamp: time.Now(),
		Component: component,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Message:   msg,
			Operation: operation,
			Fatal:     fatal,
		},
	}
}
