// Package gpio manages GPIO lines on a single controller.
// The real driver uses the Linux GPIO character device.
// The fake driver allows testing without hardware.
package gpio

import "errors"

// Direction is the configured direction of a line.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "in"
	case Output:
		return "out"
	}
	return "unknown"
}

var (
	// ErrControllerUnavailable means the named chip could not be opened
	// (missing, permission denied, busy) or the session is already closed.
	ErrControllerUnavailable = errors.New("gpio: controller unavailable")

	// ErrLineUnavailable means the offset is invalid or the line is
	// already claimed by another consumer.
	ErrLineUnavailable = errors.New("gpio: line unavailable")

	// ErrInvalidDirection means a value was written to an input line.
	ErrInvalidDirection = errors.New("gpio: invalid direction")

	// ErrIO is a driver-level read or write failure.
	ErrIO = errors.New("gpio: i/o error")

	// ErrInvalidValue means a value other than 0 or 1 was written.
	ErrInvalidValue = errors.New("gpio: invalid value")

	// ErrReleased means the line was used after Release.
	ErrReleased = errors.New("gpio: line released")
)

// Driver opens GPIO controllers by name.
type Driver interface {
	// Open opens the named chip. Lines requested through the returned
	// Chip are labelled with consumer.
	Open(name, consumer string) (Chip, error)
}

// Chip is an open controller handle.
type Chip interface {
	// RequestLine claims a single line. initial is only used for outputs.
	RequestLine(offset int, dir Direction, initial int) (RawLine, error)

	// Close releases the chip handle.
	Close() error
}

// RawLine is a claimed line as exposed by a driver.
type RawLine interface {
	Value() (int, error)
	SetValue(v int) error
	Close() error
}
