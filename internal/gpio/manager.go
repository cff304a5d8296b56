package gpio

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Manager owns a chip and every line acquired through it.
// Not safe for concurrent use.
type Manager struct {
	chipName string
	chip     Chip
	lines    []*Line
	closed   bool
	log      *zap.SugaredLogger
}

// Open opens the named chip through d.
func Open(d Driver, chipName, consumer string, logger *zap.SugaredLogger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger = logger.Named("gpio")

	chip, err := d.Open(chipName, consumer)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", chipName, ErrControllerUnavailable, err)
	}
	logger.Debugw("opened chip", "chip", chipName, "consumer", consumer)

	return &Manager{
		chipName: chipName,
		chip:     chip,
		log:      logger,
	}, nil
}

// WithSession opens the chip, runs fn, and closes the manager on every exit
// path, releasing each acquired line exactly once. Close errors are joined
// with the error returned by fn.
func WithSession(d Driver, chipName, consumer string, logger *zap.SugaredLogger, fn func(*Manager) error) (err error) {
	m, err := Open(d, chipName, consumer, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return fn(m)
}

// ChipName returns the name the chip was opened with.
func (m *Manager) ChipName() string {
	return m.chipName
}

// Acquire claims the line at offset with the given direction.
// initial is the value driven onto an output line at request time.
func (m *Manager) Acquire(name string, offset int, dir Direction, initial int) (*Line, error) {
	if m.closed {
		return nil, fmt.Errorf("acquire %s: %w", name, ErrControllerUnavailable)
	}
	if offset < 0 {
		return nil, fmt.Errorf("acquire %s offset %d: %w", name, offset, ErrLineUnavailable)
	}
	if initial != 0 && initial != 1 {
		return nil, fmt.Errorf("acquire %s initial %d: %w", name, initial, ErrInvalidValue)
	}

	raw, err := m.chip.RequestLine(offset, dir, initial)
	if err != nil {
		return nil, fmt.Errorf("acquire %s offset %d: %w: %w", name, offset, ErrLineUnavailable, err)
	}

	l := &Line{
		name:   name,
		chip:   m.chipName,
		offset: offset,
		dir:    dir,
		raw:    raw,
	}
	if dir == Output {
		l.value = initial
	}
	m.lines = append(m.lines, l)

	m.log.Debugw("acquired line", "line", name, "offset", offset, "direction", dir)
	return l, nil
}

// Lines returns the lines acquired so far, in acquisition order.
func (m *Manager) Lines() []*Line {
	out := make([]*Line, len(m.lines))
	copy(out, m.lines)
	return out
}

// Close releases every acquired line in reverse order, then the chip.
// Calling Close more than once is a no-op.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	for i := len(m.lines) - 1; i >= 0; i-- {
		if err := m.lines[i].Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w: %w", m.chipName, ErrIO, err))
	}

	m.log.Debugw("closed chip", "chip", m.chipName, "lines", len(m.lines))
	return errors.Join(errs...)
}
