// Package device wires the pins, the IR transmitter and the power halt into
// the run-state machine, and drives the tick source and control loop.
package device

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sweeney/virtual-wall/internal/gpio"
	"github.com/sweeney/virtual-wall/internal/ir"
	"github.com/sweeney/virtual-wall/internal/logic"
	"github.com/sweeney/virtual-wall/internal/power"
	"github.com/sweeney/virtual-wall/internal/status"
)

// Device implements logic.Hardware on top of gpio.Pins.
type Device struct {
	pins    gpio.Pins
	halter  power.Halter
	tx      *ir.Transmitter
	machine *logic.Machine
	tracker *status.Tracker

	sleep  func(time.Duration)
	locker sync.Locker
}

// Option configures a Device.
type Option func(*Device)

// WithSleep replaces time.Sleep for every blocking delay, IR pacing included.
func WithSleep(fn func(time.Duration)) Option {
	return func(d *Device) { d.sleep = fn }
}

// WithTracker publishes the machine state to t after every pass.
func WithTracker(t *status.Tracker) Option {
	return func(d *Device) { d.tracker = t }
}

// WithLocker sets the critical section guarding the shared state.
// Firmware builds pass an interrupt-masking locker.
func WithLocker(l sync.Locker) Option {
	return func(d *Device) { d.locker = l }
}

// New creates a Device and registers its press handler with pins.
func New(pins gpio.Pins, halter power.Halter, cfg logic.Config, opts ...Option) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if pins == nil || halter == nil {
		return nil, errors.New("pins and halter are required")
	}

	d := &Device{
		pins:   pins,
		halter: halter,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.tx = ir.NewTransmitter(pins, d.sleep)
	d.machine = logic.NewMachine(cfg, d, d.locker)

	if err := pins.OnPress(d.OnPress); err != nil {
		return nil, fmt.Errorf("register press handler: %w", err)
	}
	d.publish()
	return d, nil
}

// Machine exposes the state machine, mainly for inspection.
func (d *Device) Machine() *logic.Machine {
	return d.machine
}

// OnPress is the button edge handler. Only an edge that leaves Sleeping wakes
// the halted loop; a wake latched from any other state would end the next halt
// without a press.
func (d *Device) OnPress() {
	if prev, ok := d.machine.Edge(); ok && prev == logic.Sleeping {
		d.halter.Wake()
	}
}

// Tick is the timer handler: it samples the button level and advances the
// counters. A failed read counts as released so the countdown keeps running.
func (d *Device) Tick() {
	pressed, err := d.pins.Button()
	if err != nil {
		log.Printf("tick: button read error: %v", err)
		pressed = false
	}
	d.machine.Tick(pressed)
}

// TickLoop calls Tick for every value received on tick until ctx is done.
func (d *Device) TickLoop(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			d.Tick()
		}
	}
}

// Run executes main-loop passes until ctx is done.
func (d *Device) Run(ctx context.Context) error {
	for {
		if err := d.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Step executes one main-loop pass, logging its transitions.
func (d *Device) Step(ctx context.Context) error {
	events, err := d.machine.Step(ctx)
	for _, e := range events {
		log.Printf("state: %s -> %s (%s, tick=%d)", e.From, e.To, e.Cause, e.Ticks)
	}
	d.publish()
	return err
}

func (d *Device) publish() {
	if d.tracker == nil {
		return
	}
	d.tracker.Update(d.machine.Snapshot(), d.machine.Counts())
}

// SetLED drives the status LED. Write failures are logged, not fatal.
func (d *Device) SetLED(on bool) {
	if err := d.pins.SetLED(on); err != nil {
		log.Printf("led: %v", err)
	}
}

// Transmit sends the code as a three-repeat burst.
func (d *Device) Transmit(code uint8) {
	if err := d.tx.Send(code); err != nil {
		log.Printf("ir: send %d: %v", code, err)
		// never leave the carrier keyed
		d.pins.SetIR(false)
	}
}

// Delay blocks the control loop.
func (d *Device) Delay(dur time.Duration) {
	d.sleep(dur)
}

// Halt blocks until the button wakes the device.
func (d *Device) Halt(ctx context.Context) error {
	log.Printf("power: halting until button press")
	if err := d.halter.Halt(ctx); err != nil {
		return err
	}
	if d.machine.Snapshot().State == logic.Sleeping {
		log.Printf("power: spurious wake")
		return nil
	}
	log.Printf("power: woken")
	return nil
}
