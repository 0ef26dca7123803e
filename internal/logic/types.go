// Package logic contains the run-state machine of the virtual wall emitter.
// This package has NO hardware dependencies (no GPIO, no OS timers, no time.Sleep).
// Hardware effects go through the Hardware interface; time is counted in ticks.
package logic

import (
	"context"
	"time"
)

// RunState is the current phase of device operation.
type RunState int

const (
	Sleeping        RunState = iota // halted, waiting for a button edge
	Running                         // transmitting the wall code
	RunningShutdown                 // transmitting, button held: may shut down
	InitCounter                     // priming a duration-programming gesture
	Counter                         // user is holding the button to dial a duration
	TimeSet                         // confirming the dialed duration
)

func (s RunState) String() string {
	switch s {
	case Sleeping:
		return "SLEEPING"
	case Running:
		return "RUNNING"
	case RunningShutdown:
		return "RUNNING_SHUTDOWN"
	case InitCounter:
		return "INIT_COUNTER"
	case Counter:
		return "COUNTER"
	case TimeSet:
		return "TIME_SET"
	default:
		return "UNKNOWN"
	}
}

// Transmitting reports whether the state emits the IR code on each pass.
func (s RunState) Transmitting() bool {
	return s == Running || s == RunningShutdown
}

// Cause explains why a transition happened.
type Cause string

const (
	CauseEdge    Cause = "EDGE"    // button edge handler moved the state
	CauseHold    Cause = "HOLD"    // button held past the shutdown threshold
	CauseTimeout Cause = "TIMEOUT" // shutdown countdown expired
	CausePrime   Cause = "PRIME"   // programming gesture primed
	CauseRelease Cause = "RELEASE" // button released, duration computed
	CauseDefault Cause = "DEFAULT" // tap too short, default duration applied
	CauseConfirm Cause = "CONFIRM" // programmed duration confirmed
)

// Event represents a state transition observed by the main loop.
type Event struct {
	Ticks uint32
	From  RunState
	To    RunState
	Cause Cause
}

// EventCounts tracks notable occurrences since boot.
type EventCounts struct {
	Bursts           int // full three-repeat IR transmissions
	Wakes            int
	TimerShutdowns   int
	ButtonShutdowns  int
	DefaultStarts    int
	ProgrammedStarts int
}

// Snapshot is a point-in-time copy of the shared state block.
type Snapshot struct {
	State              RunState
	Ticks              uint32
	Baseline           uint32
	Countdown          int32
	PressDebounce      uint32
	ReleaseDebounce    uint32
	LoopCounter        int
	ProgrammedDuration int
}

// Hardware is everything the state machine drives.
// Delay blocks the whole control loop, like a busy-wait on the target.
// Halt blocks until a button edge wakes the device or ctx is done.
type Hardware interface {
	SetLED(on bool)
	Transmit(code uint8)
	Delay(d time.Duration)
	Halt(ctx context.Context) error
}
