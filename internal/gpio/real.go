//go:build linux && !tinygo

package gpio

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// RealPins drives actual hardware through the Linux GPIO character device.
// The IR line gates an external 38kHz carrier oscillator.
type RealPins struct {
	chip   *gpiocdev.Chip
	button *gpiocdev.Line
	led    *gpiocdev.Line
	ir     *gpiocdev.Line

	onPress atomic.Pointer[func()]
}

// NewRealPins requests the three lines described by cfg.
func NewRealPins(cfg Config) (*RealPins, error) {
	chip, err := gpiocdev.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealPins{chip: chip}

	// Button is active-high, so pull down and watch rising edges only.
	r.button, err = chip.RequestLine(cfg.Button,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(r.handleEvent))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", cfg.Button, err)
	}

	r.led, err = chip.RequestLine(cfg.LED, gpiocdev.AsOutput(0))
	if err != nil {
		r.button.Close()
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", cfg.LED, err)
	}

	r.ir, err = chip.RequestLine(cfg.IR, gpiocdev.AsOutput(0))
	if err != nil {
		r.led.Close()
		r.button.Close()
		chip.Close()
		return nil, fmt.Errorf("request IR pin %d: %w", cfg.IR, err)
	}

	return r, nil
}

func (r *RealPins) handleEvent(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventRisingEdge {
		return
	}
	if fn := r.onPress.Load(); fn != nil {
		(*fn)()
	}
}

// Button returns true while the button is held.
func (r *RealPins) Button() (bool, error) {
	v, err := r.button.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v == 1, nil
}

// OnPress registers the rising-edge handler. Events are delivered on the
// gpiocdev watcher goroutine.
func (r *RealPins) OnPress(fn func()) error {
	if fn == nil {
		return errors.New("nil press handler")
	}
	r.onPress.Store(&fn)
	return nil
}

// SetLED drives the status LED.
func (r *RealPins) SetLED(on bool) error {
	if err := r.led.SetValue(level(on)); err != nil {
		return fmt.Errorf("set LED pin: %w", err)
	}
	return nil
}

// SetIR keys the IR carrier.
func (r *RealPins) SetIR(on bool) error {
	if err := r.ir.SetValue(level(on)); err != nil {
		return fmt.Errorf("set IR pin: %w", err)
	}
	return nil
}

// Close drives the outputs low and reconfigures them to input with pull-down
// (matching Pi boot defaults) before releasing the lines, so the IR LED is
// never left keyed.
func (r *RealPins) Close() error {
	var errs []error

	for _, out := range []struct {
		name string
		line *gpiocdev.Line
	}{{"LED", r.led}, {"IR", r.ir}} {
		if out.line == nil {
			continue
		}
		if err := out.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", out.name, err))
		}
		if err := out.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", out.name, err))
		}
		if err := out.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", out.name, err))
		}
	}
	if r.button != nil {
		if err := r.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}
