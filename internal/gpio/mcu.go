//go:build tinygo

package gpio

import (
	"errors"
	"fmt"
	"machine"

	"github.com/sparques/pwm"

	"github.com/sweeney/virtual-wall/internal/ir"
)

// MCUPins drives the pins of a TinyGo microcontroller. The IR output is a
// PWM channel running at the carrier frequency; keying sets a 50% duty.
type MCUPins struct {
	button machine.Pin
	led    machine.Pin
	ir     pwm.Group
	ch     uint8
	duty   uint32
}

// NewMCUPins configures the button, LED and IR pins.
func NewMCUPins(button, led, irPin machine.Pin) (*MCUPins, error) {
	button.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()

	irPin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	group := pwm.Get(irPin)
	if err := group.Configure(machine.PWMConfig{Period: uint64(1e9) / uint64(ir.CarrierHz)}); err != nil {
		return nil, fmt.Errorf("configure pwm: %w", err)
	}
	ch, err := group.Channel(irPin)
	if err != nil {
		return nil, fmt.Errorf("pwm channel: %w", err)
	}
	group.Set(ch, 0)

	return &MCUPins{
		button: button,
		led:    led,
		ir:     group,
		ch:     ch,
		duty:   group.Top() / 2,
	}, nil
}

// Button returns true while the button is held.
func (p *MCUPins) Button() (bool, error) {
	return p.button.Get(), nil
}

// OnPress installs fn as the rising-edge interrupt handler.
func (p *MCUPins) OnPress(fn func()) error {
	if fn == nil {
		return errors.New("nil press handler")
	}
	return p.button.SetInterrupt(machine.PinRising, func(machine.Pin) {
		fn()
	})
}

// SetLED drives the status LED.
func (p *MCUPins) SetLED(on bool) error {
	p.led.Set(on)
	return nil
}

// SetIR keys the carrier.
func (p *MCUPins) SetIR(on bool) error {
	if on {
		p.ir.Set(p.ch, p.duty)
	} else {
		p.ir.Set(p.ch, 0)
	}
	return nil
}

// Close silences the carrier and the LED and removes the interrupt.
func (p *MCUPins) Close() error {
	p.ir.Set(p.ch, 0)
	p.led.Low()
	return p.button.SetInterrupt(machine.PinRising, nil)
}
