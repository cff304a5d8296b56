package logic

import "fmt"

// Sequencer lights a fixed list of lights one at a time, wrapping around.
type Sequencer struct {
	lights  []Light
	current int
	started bool
}

// NewSequencer creates a sequencer over lights, in order.
func NewSequencer(lights ...Light) *Sequencer {
	return &Sequencer{lights: lights}
}

// Current returns the light that is on.
func (s *Sequencer) Current() Light {
	if len(s.lights) == 0 {
		return ""
	}
	return s.lights[s.current]
}

// Start turns on the first light.
func (s *Sequencer) Start(sw Switch) error {
	if len(s.lights) == 0 {
		return fmt.Errorf("sequencer: no lights")
	}
	s.current = 0
	if err := sw.TurnOn(s.lights[0]); err != nil {
		return fmt.Errorf("turn on %s: %w", s.lights[0], err)
	}
	s.started = true
	return nil
}

// Advance turns off the current light and turns on the next one.
func (s *Sequencer) Advance(sw Switch) error {
	if !s.started {
		return s.Start(sw)
	}
	cur := s.lights[s.current]
	if err := sw.TurnOff(cur); err != nil {
		return fmt.Errorf("turn off %s: %w", cur, err)
	}
	s.current = (s.current + 1) % len(s.lights)
	next := s.lights[s.current]
	if err := sw.TurnOn(next); err != nil {
		return fmt.Errorf("turn on %s: %w", next, err)
	}
	return nil
}
