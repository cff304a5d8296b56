package gpio

import "fmt"

// Line is a single acquired GPIO line.
type Line struct {
	name     string
	chip     string
	offset   int
	dir      Direction
	raw      RawLine
	value    int
	released bool
}

func (l *Line) Name() string         { return l.name }
func (l *Line) Chip() string         { return l.chip }
func (l *Line) Offset() int          { return l.offset }
func (l *Line) Direction() Direction { return l.dir }
func (l *Line) Released() bool       { return l.released }

// LastValue returns the value most recently written or read.
func (l *Line) LastValue() int { return l.value }

// SetValue drives an output line to 0 or 1.
func (l *Line) SetValue(v int) error {
	if l.released {
		return fmt.Errorf("set %s: %w", l.name, ErrReleased)
	}
	if l.dir != Output {
		return fmt.Errorf("set %s: %w", l.name, ErrInvalidDirection)
	}
	if v != 0 && v != 1 {
		return fmt.Errorf("set %s to %d: %w", l.name, v, ErrInvalidValue)
	}
	if err := l.raw.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w: %w", l.name, ErrIO, err)
	}
	l.value = v
	return nil
}

// Value reads the current value of the line.
func (l *Line) Value() (int, error) {
	if l.released {
		return 0, fmt.Errorf("read %s: %w", l.name, ErrReleased)
	}
	v, err := l.raw.Value()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w: %w", l.name, ErrIO, err)
	}
	l.value = v
	return v, nil
}

// Release returns the line to the kernel. Subsequent calls do nothing.
func (l *Line) Release() error {
	if l.released {
		return nil
	}
	l.released = true
	if err := l.raw.Close(); err != nil {
		return fmt.Errorf("release %s: %w: %w", l.name, ErrIO, err)
	}
	return nil
}
