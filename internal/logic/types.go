// Package logic contains the pure control logic for the traffic light demos.
// This package has NO external dependencies (no GPIO, D-Bus, MQTT, or time.Sleep).
// Side effects go through the Switch and Outputs interfaces.
package logic

import (
	"errors"
	"time"
)

// State is a state of the traffic light machine.
type State string

const (
	StateRed    State = "RED"
	StateYellow State = "YELLOW"
	StateGreen  State = "GREEN"
)

// Light identifies one of the output lines.
type Light string

const (
	LightRed    Light = "red"
	LightYellow Light = "yellow"
	LightGreen  Light = "green"
)

// Title returns the light name as shown to the user, e.g. "Yellow".
func (l Light) Title() string {
	switch l {
	case LightRed:
		return "Red"
	case LightYellow:
		return "Yellow"
	case LightGreen:
		return "Green"
	}
	return string(l)
}

// Lights returns the output lights in wiring order.
func Lights() []Light {
	return []Light{LightRed, LightYellow, LightGreen}
}

// Input is a symbol accepted by the machine.
type Input string

// InputButton is a rising edge on the button line.
const InputButton Input = "BUTTON"

// Op is an output operation.
type Op int

const (
	TurnOn Op = iota
	TurnOff
	Notify
)

func (o Op) String() string {
	switch o {
	case TurnOn:
		return "turn_on"
	case TurnOff:
		return "turn_off"
	case Notify:
		return "notify"
	}
	return "unknown"
}

// Action is a single output fired during a transition.
type Action struct {
	Op    Op
	Light Light
}

// Transition describes a state change and the outputs it fires, in order.
type Transition struct {
	From    State
	To      State
	Actions []Action
}

// Event is a completed transition, ready to be published.
type Event struct {
	Timestamp time.Time
	From      State
	To        State
	Presses   int
}

// Switch drives output lights on and off.
type Switch interface {
	TurnOn(l Light) error
	TurnOff(l Light) error
}

// Outputs is everything a transition can touch. Notify is best-effort and
// has no error to report.
type Outputs interface {
	Switch
	Notify(l Light)
}

// ErrUnknownInput is returned when no transition exists for an input.
var ErrUnknownInput = errors.New("logic: unknown input")
