//go:build tinygo

// Firmware for the microcontroller build of the virtual wall.
//
//	tinygo flash -target=pico ./firmware
package main

import (
	"context"
	"machine"
	"runtime/interrupt"
	"time"

	"github.com/sweeney/virtual-wall/internal/device"
	"github.com/sweeney/virtual-wall/internal/gpio"
	"github.com/sweeney/virtual-wall/internal/logic"
	"github.com/sweeney/virtual-wall/internal/power"
)

const (
	pinButton = machine.GP2
	pinLED    = machine.LED
	pinIR     = machine.GP3

	variant = logic.VariantV3
	unit    = logic.QuarterHour
)

// critical masks interrupts while the shared state is touched, so the button
// interrupt cannot observe a half-applied pass.
type critical struct {
	state interrupt.State
}

func (c *critical) Lock() {
	c.state = interrupt.Disable()
}

func (c *critical) Unlock() {
	interrupt.Restore(c.state)
}

func main() {
	cfg, err := logic.ConfigFor(variant, unit)
	if err != nil {
		halt("config", err)
	}

	pins, err := gpio.NewMCUPins(pinButton, pinLED, pinIR)
	if err != nil {
		halt("pins", err)
	}

	dev, err := device.New(pins, power.NewWaker(), cfg, device.WithLocker(&critical{}))
	if err != nil {
		halt("device", err)
	}

	ctx := context.Background()
	ticker := time.NewTicker(cfg.TickPeriod)
	go dev.TickLoop(ctx, ticker.C)

	println("virtual wall started:", string(variant))
	if err := dev.Run(ctx); err != nil {
		halt("run", err)
	}
}

// halt reports a setup failure and blinks the LED forever.
func halt(action string, err error) {
	println("failed to " + action + ": " + err.Error())
	pinLED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		pinLED.High()
		time.Sleep(100 * time.Millisecond)
		pinLED.Low()
		time.Sleep(900 * time.Millisecond)
	}
}
