// Package mqtt publishes traffic light transitions with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/gpio-trafficlight/internal/logic"
)

// Topic is the MQTT topic for state transitions.
const Topic = "gpio/trafficlight/events"

// TopicSystem is the MQTT topic for process lifecycle events.
const TopicSystem = "gpio/trafficlight/system"

// EventStateChanged is the event name carried by transition payloads.
const EventStateChanged = "STATE_CHANGED"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a transition event to the broker.
	// Returns error if publishing fails (should not stop the control loop).
	Publish(event logic.Event) error

	// PublishSystem sends a lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event (STARTUP, SHUTDOWN, OFFLINE).
type SystemEvent struct {
	Timestamp time.Time
	Event     string
	Reason    string // e.g. "interrupt" (shutdown only)
	Program   string
	State     logic.State
	Presses   int
	Retained  bool // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload for a transition.
type Payload struct {
	TrafficLight TransitionPayload `json:"trafficlight"`
}

// TransitionPayload contains the transition details.
type TransitionPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	From      string `json:"from"`
	To        string `json:"to"`
	Presses   int    `json:"presses"`
}

// FormatPayload creates the JSON payload for a transition.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		TrafficLight: TransitionPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     EventStateChanged,
			From:      string(event.From),
			To:        string(event.To),
			Presses:   event.Presses,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
	Program   string `json:"program,omitempty"`
	State     string `json:"state,omitempty"`
	Presses   int    `json:"presses"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Program:   event.Program,
			State:     string(event.State),
			Presses:   event.Presses,
		},
	}
	return json.Marshal(payload)
}

// Disabled is used when no broker is configured. Every call succeeds and
// nothing is sent.
type Disabled struct{}

func (Disabled) Publish(logic.Event) error       { return nil }
func (Disabled) PublishSystem(SystemEvent) error { return nil }
func (Disabled) Close() error                    { return nil }
