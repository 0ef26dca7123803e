package logic

import "sync"

// Shared is the state block touched by both the main loop and the handlers
// (timer tick, button edge). Every access runs inside the injected critical
// section: a mutex on a hosted OS, an interrupt mask on a microcontroller.
type Shared struct {
	mu sync.Locker

	state      RunState
	ticks      uint32 // wraps; only deltas are used
	baseline   uint32 // tick count at the last accepted edge
	countdown  int32
	press      uint32
	release    uint32
	loop       int
	programmed int

	// gen increments on every accepted edge so a main-loop pass can tell
	// that the state changed underneath it.
	gen uint32
}

func newShared(mu sync.Locker, cfg Config) *Shared {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Shared{
		mu:        mu,
		state:     cfg.InitialState,
		countdown: cfg.InitialCountdown(),
		loop:      -1,
	}
}

// tick applies one timer interrupt.
func (s *Shared) tick(pressed bool) {
	s.mu.Lock()
	s.ticks++
	s.countdown--
	if pressed {
		s.press++
	} else {
		s.release++
	}
	s.mu.Unlock()
}

// edge applies one rising button edge. It returns the state before the edge
// and whether the edge was accepted.
func (s *Shared) edge() (RunState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	var next RunState
	switch prev {
	case Running:
		next = RunningShutdown
	case InitCounter, Counter, RunningShutdown:
		// a gesture is already in progress
		return prev, false
	default:
		next = InitCounter
	}

	s.loop = 0
	s.press = 0
	s.release = 0
	s.baseline = s.ticks
	s.state = next
	s.gen++
	return prev, true
}

func (s *Shared) load() (Snapshot, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), s.gen
}

func (s *Shared) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Shared) snapshotLocked() Snapshot {
	return Snapshot{
		State:              s.state,
		Ticks:              s.ticks,
		Baseline:           s.baseline,
		Countdown:          s.countdown,
		PressDebounce:      s.press,
		ReleaseDebounce:    s.release,
		LoopCounter:        s.loop,
		ProgrammedDuration: s.programmed,
	}
}

// pass is the set of writes one main-loop pass wants to persist.
type pass struct {
	state        RunState
	loop         int
	programmed   int
	countdown    int32
	setCountdown bool
}

// commit persists a pass unless an edge was accepted since gen was read.
// The edge's transition wins: its resets already describe the new gesture.
func (s *Shared) commit(gen uint32, p pass) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return false
	}
	s.state = p.state
	s.loop = p.loop
	s.programmed = p.programmed
	if p.setCountdown {
		s.countdown = p.countdown
	}
	return true
}
