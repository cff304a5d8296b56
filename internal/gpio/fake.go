package gpio

import (
	"errors"
	"fmt"
)

// FakeDriver is a test double that hands out a single scripted FakeChip.
type FakeDriver struct {
	// Chip is returned by every successful Open.
	Chip *FakeChip

	// OpenError, if set, will be returned by Open.
	OpenError error

	// Opens counts calls to Open.
	Opens int
}

// NewFakeDriver creates a FakeDriver whose chip has numLines lines.
func NewFakeDriver(numLines int) *FakeDriver {
	return &FakeDriver{Chip: NewFakeChip(numLines)}
}

// Open returns the driver's chip.
func (d *FakeDriver) Open(name, consumer string) (Chip, error) {
	d.Opens++
	if d.OpenError != nil {
		return nil, d.OpenError
	}
	d.Chip.Name = name
	d.Chip.Consumer = consumer
	return d.Chip, nil
}

// Write records a single value written to an output line.
type Write struct {
	Offset int
	Value  int
}

// FakeChip records line requests and values written to it.
type FakeChip struct {
	Name     string
	Consumer string
	NumLines int

	// Busy offsets fail RequestLine as if claimed by another consumer.
	Busy map[int]bool

	// Samples contains scripted values for input lines, keyed by offset.
	// Each Value() call consumes the next sample; once exhausted the last
	// sample repeats.
	Samples map[int][]int

	// Requested contains every offset passed to RequestLine, in order.
	Requested []int

	// Writes contains every successful SetValue across all lines, in order.
	Writes []Write

	// Lines contains the lines handed out, keyed by offset.
	Lines map[int]*FakeLine

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeChip creates a FakeChip with numLines lines.
func NewFakeChip(numLines int) *FakeChip {
	return &FakeChip{
		NumLines: numLines,
		Busy:     map[int]bool{},
		Samples:  map[int][]int{},
		Lines:    map[int]*FakeLine{},
	}
}

// RequestLine hands out a FakeLine for offset.
func (c *FakeChip) RequestLine(offset int, dir Direction, initial int) (RawLine, error) {
	c.Requested = append(c.Requested, offset)

	if offset >= c.NumLines {
		return nil, fmt.Errorf("offset %d out of range (chip has %d lines)", offset, c.NumLines)
	}
	if c.Busy[offset] {
		return nil, errors.New("device or resource busy")
	}
	if l, ok := c.Lines[offset]; ok && !l.Closed {
		return nil, errors.New("device or resource busy")
	}

	l := &FakeLine{
		chip:      c,
		Offset:    offset,
		Direction: dir,
		Samples:   c.Samples[offset],
	}
	if dir == Output {
		l.Level = initial
	}
	c.Lines[offset] = l
	return l, nil
}

// Close marks the chip as closed.
func (c *FakeChip) Close() error {
	c.Closed = true
	return nil
}

// Level returns the current level of the line at offset, or -1 if the
// offset was never requested.
func (c *FakeChip) Level(offset int) int {
	l, ok := c.Lines[offset]
	if !ok {
		return -1
	}
	return l.Level
}

// FakeLine is a scripted line handed out by FakeChip.
type FakeLine struct {
	chip *FakeChip

	Offset    int
	Direction Direction

	// Level is the value last driven (outputs) or read (inputs).
	Level int

	// Samples contains scripted values returned by Value.
	Samples []int
	index   int

	// Reads counts calls to Value.
	Reads int

	// ReadError, if set, will be returned by Value.
	ReadError error

	// WriteError, if set, will be returned by SetValue.
	WriteError error

	// CloseError, if set, will be returned by Close.
	CloseError error

	// Closed tracks if Close was called; CloseCount how many times.
	Closed     bool
	CloseCount int
}

// Value returns the next scripted sample, or the current level if no
// samples were scripted.
func (l *FakeLine) Value() (int, error) {
	l.Reads++
	if l.ReadError != nil {
		return 0, l.ReadError
	}
	if len(l.Samples) == 0 {
		return l.Level, nil
	}

	v := l.Samples[l.index]
	if l.index < len(l.Samples)-1 {
		l.index++
	}
	l.Level = v
	return v, nil
}

// SetValue records the written value.
func (l *FakeLine) SetValue(v int) error {
	if l.WriteError != nil {
		return l.WriteError
	}
	l.Level = v
	l.chip.Writes = append(l.chip.Writes, Write{Offset: l.Offset, Value: v})
	return nil
}

// Close marks the line as closed.
func (l *FakeLine) Close() error {
	l.CloseCount++
	l.Closed = true
	return l.CloseError
}
