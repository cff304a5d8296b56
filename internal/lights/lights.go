// Package lights binds the logical lights of the demo board to GPIO lines.
package lights

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sweeney/gpio-trafficlight/internal/config"
	"github.com/sweeney/gpio-trafficlight/internal/gpio"
	"github.com/sweeney/gpio-trafficlight/internal/logic"
	"github.com/sweeney/gpio-trafficlight/internal/notify"
)

// Board drives the red, yellow and green output lines. It implements
// logic.Outputs.
type Board struct {
	lines    map[logic.Light]*gpio.Line
	notifier notify.Notifier
	icon     string
	log      *zap.SugaredLogger
}

// Acquire claims the three light lines as outputs, initially off, in wiring
// order. It stops at the first failure; lines already acquired stay owned by
// m and are released when m is closed.
func Acquire(m *gpio.Manager, pins config.Pins, notifier notify.Notifier, icon string, logger *zap.SugaredLogger) (*Board, error) {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	offsets := map[logic.Light]int{
		logic.LightRed:    pins.Red,
		logic.LightYellow: pins.Yellow,
		logic.LightGreen:  pins.Green,
	}

	b := &Board{
		lines:    make(map[logic.Light]*gpio.Line, len(offsets)),
		notifier: notifier,
		icon:     icon,
		log:      logger.Named("lights"),
	}
	for _, l := range logic.Lights() {
		line, err := m.Acquire(string(l), offsets[l], gpio.Output, 0)
		if err != nil {
			return nil, fmt.Errorf("acquire %s light: %w", l, err)
		}
		b.lines[l] = line
	}
	return b, nil
}

func (b *Board) line(l logic.Light) (*gpio.Line, error) {
	line, ok := b.lines[l]
	if !ok {
		return nil, fmt.Errorf("no line for light %q", l)
	}
	return line, nil
}

// TurnOn drives the light's line high.
func (b *Board) TurnOn(l logic.Light) error {
	line, err := b.line(l)
	if err != nil {
		return err
	}
	b.log.Debugw("Turning light on", "light", l, "offset", line.Offset())
	return line.SetValue(1)
}

// TurnOff drives the light's line low.
func (b *Board) TurnOff(l logic.Light) error {
	line, err := b.line(l)
	if err != nil {
		return err
	}
	b.log.Debugw("Turning light off", "light", l, "offset", line.Offset())
	return line.SetValue(0)
}

// Notify shows a desktop notification naming the light.
func (b *Board) Notify(l logic.Light) {
	b.notifier.Show(l.Title(), l.Title(), b.icon)
}

// Levels returns the last value written to each light.
func (b *Board) Levels() map[logic.Light]int {
	out := make(map[logic.Light]int, len(b.lines))
	for l, line := range b.lines {
		out[l] = line.LastValue()
	}
	return out
}
