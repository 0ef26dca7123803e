package ir

import (
	"fmt"
	"time"
)

// Keyer switches the modulated carrier on the IR output.
type Keyer interface {
	SetIR(on bool) error
}

// Transmitter sends frames through a Keyer.
type Transmitter struct {
	keyer   Keyer
	sleep   func(time.Duration)
	repeats int
	gap     time.Duration
}

// NewTransmitter creates a Transmitter. sleep paces the marks and spaces;
// nil selects time.Sleep.
func NewTransmitter(k Keyer, sleep func(time.Duration)) *Transmitter {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Transmitter{
		keyer:   k,
		sleep:   sleep,
		repeats: Repeats,
		gap:     RepeatGap,
	}
}

// Send transmits a command code.
func (t *Transmitter) Send(code uint8) error {
	return t.SendFrame(Frame{Code: code})
}

// SendFrame transmits the frame Repeats times, each followed by RepeatGap.
// The last space of a frame is not timed: the gap follows it directly.
func (t *Transmitter) SendFrame(fm FrameMarshaller) error {
	pairs := fm.MarshalFrame()
	for r := 0; r < t.repeats; r++ {
		if err := t.sendPairs(pairs); err != nil {
			return fmt.Errorf("repeat %d: %w", r, err)
		}
		t.sleep(t.gap)
	}
	return nil
}

func (t *Transmitter) sendPairs(pairs []TimePair) error {
	for i, p := range pairs {
		if err := t.keyer.SetIR(true); err != nil {
			return fmt.Errorf("key on: %w", err)
		}
		t.sleep(p[0])
		if err := t.keyer.SetIR(false); err != nil {
			return fmt.Errorf("key off: %w", err)
		}
		if i < len(pairs)-1 {
			t.sleep(p[1])
		}
	}
	return nil
}
