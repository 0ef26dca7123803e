package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/virtual-wall/internal/ir"
)

// TickPeriod is the cadence of the hardware timer tick.
const TickPeriod = 500 * time.Millisecond

// Per-unit shutdown durations a single programmed count is worth.
const (
	QuarterHour = 15 * time.Minute
	HalfHour    = 30 * time.Minute
)

// DefaultRunDuration applies when the user taps instead of holding.
const DefaultRunDuration = 3 * time.Hour

// MaxProgrammedUnits caps the dialed count.
const MaxProgrammedUnits = 255

// Variant selects one of the hardware revisions.
type Variant string

const (
	VariantV2      Variant = "v2"      // always-on at power up, slow repeat
	VariantV3      Variant = "v3"      // sleeps at power up
	VariantBarrier Variant = "barrier" // always-on at power up, fast repeat
)

// Config holds the build-time constants of the state machine.
type Config struct {
	TickPeriod            time.Duration
	TicksPerUnit          int32
	DefaultTicks          int32
	HoldToShutdownTicks   uint32
	ReleaseToConfirmTicks uint32
	// TxDelay is the pause between full three-repeat bursts while Running.
	TxDelay      time.Duration
	InitialState RunState
	Code         uint8
}

// tenMicros converts the firmware's 10µs delay units.
func tenMicros(n int) time.Duration {
	return time.Duration(n) * 10 * time.Microsecond
}

// ConfigFor returns the configuration of a hardware variant with the given
// shutdown time per programmed unit.
func ConfigFor(v Variant, unit time.Duration) (Config, error) {
	cfg := Config{
		TickPeriod:            TickPeriod,
		TicksPerUnit:          TicksFor(unit),
		DefaultTicks:          TicksFor(DefaultRunDuration),
		HoldToShutdownTicks:   4, // 2s
		ReleaseToConfirmTicks: 2, // 1s
		Code:                  ir.VirtualWall,
	}

	switch v {
	case VariantV2:
		cfg.TxDelay = tenMicros(50000)
		cfg.InitialState = Running
	case VariantV3:
		cfg.TxDelay = tenMicros(25000)
		cfg.InitialState = Sleeping
	case VariantBarrier:
		cfg.TxDelay = tenMicros(10000)
		cfg.InitialState = Running
	default:
		return Config{}, fmt.Errorf("unknown variant %q", v)
	}

	return cfg, cfg.Validate()
}

// DefaultConfig is the v3 board with a quarter hour per count.
func DefaultConfig() Config {
	cfg, _ := ConfigFor(VariantV3, QuarterHour)
	return cfg
}

// TicksFor converts a duration to whole timer ticks.
func TicksFor(d time.Duration) int32 {
	return int32(d / TickPeriod)
}

// ParseVariant parses a variant name (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantV2, VariantV3, VariantBarrier:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q (want v2, v3 or barrier)", s)
}

// ParseUnit parses the per-count duration. Only 15m and 30m boards exist.
func ParseUnit(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse unit: %w", err)
	}
	if d != QuarterHour && d != HalfHour {
		return 0, fmt.Errorf("unit %v not supported (want 15m or 30m)", d)
	}
	return d, nil
}

// Validate checks that every constant is usable.
func (c Config) Validate() error {
	var errs []error
	if c.TickPeriod <= 0 {
		errs = append(errs, errors.New("tick period must be positive"))
	}
	if c.TicksPerUnit <= 0 {
		errs = append(errs, errors.New("ticks per unit must be positive"))
	}
	if c.DefaultTicks <= 0 {
		errs = append(errs, errors.New("default ticks must be positive"))
	}
	if c.HoldToShutdownTicks == 0 {
		errs = append(errs, errors.New("hold-to-shutdown threshold must be positive"))
	}
	if c.ReleaseToConfirmTicks == 0 {
		errs = append(errs, errors.New("release-to-confirm threshold must be positive"))
	}
	if c.TxDelay < 0 {
		errs = append(errs, errors.New("tx delay must not be negative"))
	}
	if c.InitialState != Sleeping && c.InitialState != Running {
		errs = append(errs, fmt.Errorf("initial state %s not allowed", c.InitialState))
	}
	if int64(c.TicksPerUnit)*MaxProgrammedUnits > int64(^uint32(0)>>1) {
		errs = append(errs, errors.New("ticks per unit overflows the countdown"))
	}
	return errors.Join(errs...)
}

// InitialCountdown is the countdown loaded at power up.
func (c Config) InitialCountdown() int32 {
	if c.InitialState == Running {
		return c.DefaultTicks
	}
	return 0
}
