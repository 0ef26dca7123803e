// Package ir encodes and transmits Roomba IR commands.
//
// A Roomba command is one byte sent most-significant bit first. Each bit is a
// (mark, space) pair: a one is a long mark and a short space, a zero the
// reverse. The frame is repeated three times with a 50ms gap.
package ir

import "time"

// CarrierHz is the modulation frequency of the marks.
const CarrierHz = 38000

const (
	// Repeats is how many times one transmission repeats the frame.
	Repeats = 3
	// RepeatGap is the idle time after each frame.
	RepeatGap = 50 * time.Millisecond
)

// TimePair encodes two durations: how long the carrier is keyed on, then off.
type TimePair [2]time.Duration

// FrameMarshaller defines an interface for marshalling data to a slice of TimePairs.
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

var (
	OnePair  = TimePair{3000 * time.Microsecond, 1000 * time.Microsecond}
	ZeroPair = TimePair{1000 * time.Microsecond, 3000 * time.Microsecond}
)

// Frame is a single Roomba command byte.
type Frame struct {
	Code uint8
}

// MarshalFrame returns eight pairs, most-significant bit first.
func (f Frame) MarshalFrame() []TimePair {
	out := make([]TimePair, 8)
	for i := 0; i < 8; i++ {
		if f.Code&(0x80>>i) != 0 {
			out[i] = OnePair
		} else {
			out[i] = ZeroPair
		}
	}
	return out
}

// Duration is the on-air time of the pairs, trailing space included.
func Duration(pairs []TimePair) time.Duration {
	var d time.Duration
	for _, p := range pairs {
		d += p[0] + p[1]
	}
	return d
}
