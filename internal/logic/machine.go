package logic

import (
	"fmt"
	"slices"
)

// transitions is the full state table: current state -> input -> transition.
// Actions run in the listed order.
var transitions = map[State]map[Input]Transition{
	StateRed: {
		InputButton: {
			From: StateRed,
			To:   StateYellow,
			Actions: []Action{
				{TurnOn, LightYellow},
				{Notify, LightYellow},
				{TurnOff, LightRed},
				{TurnOff, LightGreen},
			},
		},
	},
	StateYellow: {
		InputButton: {
			From: StateYellow,
			To:   StateGreen,
			Actions: []Action{
				{TurnOn, LightGreen},
				{Notify, LightGreen},
				{TurnOff, LightRed},
				{TurnOff, LightYellow},
			},
		},
	},
	StateGreen: {
		InputButton: {
			From: StateGreen,
			To:   StateRed,
			Actions: []Action{
				{TurnOn, LightRed},
				{Notify, LightRed},
				{TurnOff, LightYellow},
				{TurnOff, LightGreen},
			},
		},
	},
}

// lightFor maps each state to the one light that is on in that state.
var lightFor = map[State]Light{
	StateRed:    LightRed,
	StateYellow: LightYellow,
	StateGreen:  LightGreen,
}

// LightFor returns the light that is on in state s.
func LightFor(s State) Light {
	return lightFor[s]
}

// Next returns the state that follows s on a button press.
func Next(s State) State {
	return transitions[s][InputButton].To
}

// Machine is the cyclic RED -> YELLOW -> GREEN -> RED state machine.
// It has no terminal state.
type Machine struct {
	state   State
	presses int
}

// NewMachine creates a machine in the initial state, RED.
func NewMachine() *Machine {
	return &Machine{state: StateRed}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Presses returns the number of completed transitions.
func (m *Machine) Presses() int {
	return m.presses
}

// Lookup returns the transition for in from the current state without firing it.
func (m *Machine) Lookup(in Input) (Transition, bool) {
	t, ok := transitions[m.state][in]
	if !ok {
		return Transition{}, false
	}
	t.Actions = slices.Clone(t.Actions)
	return t, true
}

// Fire applies the transition for in, running its actions against out in
// table order. If an action fails the state is left unchanged and the error
// is returned; actions already applied are not undone.
func (m *Machine) Fire(in Input, out Outputs) (Transition, error) {
	t, ok := m.Lookup(in)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q in state %s", ErrUnknownInput, in, m.state)
	}

	for _, a := range t.Actions {
		switch a.Op {
		case TurnOn:
			if err := out.TurnOn(a.Light); err != nil {
				return Transition{}, fmt.Errorf("%s -> %s: turn on %s: %w", t.From, t.To, a.Light, err)
			}
		case TurnOff:
			if err := out.TurnOff(a.Light); err != nil {
				return Transition{}, fmt.Errorf("%s -> %s: turn off %s: %w", t.From, t.To, a.Light, err)
			}
		case Notify:
			out.Notify(a.Light)
		}
	}

	m.state = t.To
	m.presses++
	return t, nil
}
