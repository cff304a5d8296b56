//go:build !linux

package gpio

import "errors"

// CdevDriver is not available on non-Linux platforms.
type CdevDriver struct{}

// Open returns an error on non-Linux platforms.
func (CdevDriver) Open(name, consumer string) (Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}
