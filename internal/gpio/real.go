//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// CdevDriver opens chips through the Linux GPIO character device.
type CdevDriver struct{}

// Open opens /dev/<name>.
func (CdevDriver) Open(name, consumer string) (Chip, error) {
	chip, err := gpiocdev.NewChip(name, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &cdevChip{chip: chip}, nil
}

type cdevChip struct {
	chip *gpiocdev.Chip
}

func (c *cdevChip) RequestLine(offset int, dir Direction, initial int) (RawLine, error) {
	if n := c.chip.Lines(); offset >= n {
		return nil, fmt.Errorf("offset %d out of range (chip has %d lines)", offset, n)
	}

	var opt gpiocdev.LineReqOption = gpiocdev.AsInput
	if dir == Output {
		opt = gpiocdev.AsOutput(initial)
	}

	line, err := c.chip.RequestLine(offset, opt)
	if err != nil {
		return nil, fmt.Errorf("request line %d: %w", offset, err)
	}
	return &cdevLine{line: line, dir: dir}, nil
}

func (c *cdevChip) Close() error {
	return c.chip.Close()
}

type cdevLine struct {
	line *gpiocdev.Line
	dir  Direction
}

func (l *cdevLine) Value() (int, error) {
	return l.line.Value()
}

func (l *cdevLine) SetValue(v int) error {
	return l.line.SetValue(v)
}

// Close reconfigures outputs back to input before releasing them so an LED
// is not left driven after the process exits.
func (l *cdevLine) Close() error {
	var errs []error
	if l.dir == Output {
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure as input: %w", err))
		}
	}
	if err := l.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close line: %w", err))
	}
	return errors.Join(errs...)
}
