// Command virtual-wall drives a Roomba Virtual Wall IR emitter with a
// button-programmable auto-shutoff timer from Linux GPIO.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/virtual-wall/internal/device"
	"github.com/sweeney/virtual-wall/internal/gpio"
	"github.com/sweeney/virtual-wall/internal/logic"
	"github.com/sweeney/virtual-wall/internal/power"
	"github.com/sweeney/virtual-wall/internal/status"
)

func main() {
	variant := flag.String("variant", string(logic.VariantV3), "Hardware variant: v2, v3 or barrier")
	unit := flag.String("unit", "15m", "Shutdown time per programmed count (15m or 30m)")
	chip := flag.String("chip", gpio.DefaultChip, "GPIO chip name")
	pinButton := flag.Int("pin-button", gpio.DefaultPinButton, "BCM pin number for the push-button")
	pinLED := flag.Int("pin-led", gpio.DefaultPinLED, "BCM pin number for the status LED")
	pinIR := flag.Int("pin-ir", gpio.DefaultPinIR, "BCM pin number gating the IR carrier")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Status log interval (0 to disable)")
	printState := flag.Bool("print-state", false, "Print button level and configuration and exit")

	flag.Parse()

	v, cfg, err := buildConfig(*variant, *unit)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	pins := gpio.Config{Chip: *chip, Button: *pinButton, LED: *pinLED, IR: *pinIR}

	if err := run(v, cfg, pins, *heartbeat, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// buildConfig resolves the -variant and -unit flags into a state machine config.
func buildConfig(variant, unit string) (logic.Variant, logic.Config, error) {
	v, err := logic.ParseVariant(variant)
	if err != nil {
		return "", logic.Config{}, err
	}
	u, err := logic.ParseUnit(unit)
	if err != nil {
		return "", logic.Config{}, err
	}
	cfg, err := logic.ConfigFor(v, u)
	if err != nil {
		return "", logic.Config{}, err
	}
	return v, cfg, nil
}

func statusConfig(v logic.Variant, cfg logic.Config, pins gpio.Config, heartbeat time.Duration) status.Config {
	return status.Config{
		Variant:     string(v),
		UnitMs:      (time.Duration(cfg.TicksPerUnit) * cfg.TickPeriod).Milliseconds(),
		TxDelayMs:   cfg.TxDelay.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		TickMs:      cfg.TickPeriod.Milliseconds(),
		PinButton:   pins.Button,
		PinLED:      pins.LED,
		PinIR:       pins.IR,
	}
}

func run(v logic.Variant, cfg logic.Config, pinCfg gpio.Config, heartbeat time.Duration, printState bool) error {
	// Initialize GPIO
	pins, err := gpio.NewRealPins(pinCfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	tracker := status.NewTracker(time.Now(), statusConfig(v, cfg, pinCfg, heartbeat))

	// Print state mode
	if printState {
		pressed, err := pins.Button()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("button: %s\n", buttonString(pressed))
		fmt.Printf("%s\n", status.FormatJSON(tracker.Snapshot()))
		return nil
	}

	dev, err := device.New(pins, power.NewWaker(), cfg, device.WithTracker(tracker))
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""))
	log.Printf("started: variant=%s unit=%v tx-delay=%v heartbeat=%v",
		v, time.Duration(cfg.TicksPerUnit)*cfg.TickPeriod, cfg.TxDelay, heartbeat)

	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	var hb <-chan time.Time
	if heartbeat > 0 {
		hbTicker := time.NewTicker(heartbeat)
		defer hbTicker.Stop()
		hb = hbTicker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(dev, tracker, ticker.C, hb, sigCh)
}

// runLoop runs the control loop in the background and serves the timer ticks,
// heartbeat log and signals in the foreground.
func runLoop(dev *device.Device, tracker *status.Tracker, tick, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- dev.Run(ctx)
	}()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			cancel()
			// the pass in flight finishes its delay first
			err := <-errCh
			log.Printf("%s", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName(s)))
			return err

		case err := <-errCh:
			if err == nil {
				return nil
			}
			return fmt.Errorf("control loop: %w", err)

		case <-tick:
			dev.Tick()

		case <-heartbeat:
			snap := tracker.Snapshot()
			log.Printf("heartbeat: state=%s remaining=%v uptime=%v bursts=%d wakes=%d",
				snap.State, snap.Remaining(), snap.Uptime().Truncate(time.Second), snap.Counts.Bursts, snap.Counts.Wakes)
			log.Printf("%s", status.FormatStatusEvent(snap, "HEARTBEAT", ""))
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

func buttonString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
