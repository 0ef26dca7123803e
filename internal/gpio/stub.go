//go:build !linux && !tinygo

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealPins is not available on non-Linux platforms.
type RealPins struct{}

// NewRealPins returns an error on non-Linux platforms.
func NewRealPins(cfg Config) (*RealPins, error) {
	return nil, errUnsupported
}

// Button is not implemented on non-Linux platforms.
func (r *RealPins) Button() (bool, error) {
	return false, errUnsupported
}

// OnPress is not implemented on non-Linux platforms.
func (r *RealPins) OnPress(fn func()) error {
	return errUnsupported
}

// SetLED is not implemented on non-Linux platforms.
func (r *RealPins) SetLED(on bool) error {
	return errUnsupported
}

// SetIR is not implemented on non-Linux platforms.
func (r *RealPins) SetIR(on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealPins) Close() error {
	return nil
}
