// Package gpio provides the emitter's pin I/O with hardware abstraction.
// The real implementation uses the Linux GPIO character device; the MCU
// implementation uses TinyGo's machine package with a PWM carrier.
// The fake implementation allows testing without hardware.
package gpio

// Pins drives the button, status LED and IR output.
type Pins interface {
	// Button returns the current button level: true = pressed (active-high).
	Button() (bool, error)

	// OnPress registers the rising-edge handler. It may run in interrupt
	// or event-goroutine context and must not block.
	OnPress(fn func()) error

	// SetLED drives the status LED (active-high).
	SetLED(on bool) error

	// SetIR keys the 38kHz carrier on the IR output.
	SetIR(on bool) error

	// Close drives outputs low and releases GPIO resources.
	Close() error
}

// Config names the GPIO chip and line offsets (BCM numbering on a Pi).
type Config struct {
	Chip   string
	Button int
	LED    int
	IR     int
}

// Default pin assignments.
const (
	DefaultChip      = "gpiochip0"
	DefaultPinButton = 17
	DefaultPinLED    = 27
	DefaultPinIR     = 22
)

// DefaultConfig returns the default wiring.
func DefaultConfig() Config {
	return Config{
		Chip:   DefaultChip,
		Button: DefaultPinButton,
		LED:    DefaultPinLED,
		IR:     DefaultPinIR,
	}
}
