// Package status provides a thread-safe status tracker for the virtual-wall daemon.
// It is read by the heartbeat and shutdown log lines and by -print-state.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/virtual-wall/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Variant     string
	UnitMs      int64
	TxDelayMs   int64
	HeartbeatMs int64
	TickMs      int64
	PinButton   int
	PinLED      int
	PinIR       int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State              logic.RunState
	Countdown          int32
	ProgrammedDuration int
	Ticks              uint32
	Counts             logic.EventCounts
	StartTime          time.Time
	Now                time.Time
	Config             Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Remaining returns the time left before auto power-down, or zero when the
// device is not transmitting or the countdown has expired.
func (s Snapshot) Remaining() time.Duration {
	if !s.State.Transmitting() || s.Countdown <= 0 {
		return 0
	}
	return time.Duration(s.Countdown) * time.Duration(s.Config.TickMs) * time.Millisecond
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update copies the state machine view and event counts.
// Called from the control loop after every pass.
func (t *Tracker) Update(s logic.Snapshot, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.State = s.State
	t.snap.Countdown = s.Countdown
	t.snap.ProgrammedDuration = s.ProgrammedDuration
	t.snap.Ticks = s.Ticks
	t.snap.Counts = counts
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
