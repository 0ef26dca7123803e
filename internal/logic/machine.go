package logic

import (
	"context"
	"sync"
	"time"
)

const (
	// heartbeatSteps is the length of the Running LED cycle in passes.
	heartbeatSteps = 5
	// countBlinkTicks is how often the Counter phase blinks while held.
	countBlinkTicks = 2
	// confirmPasses is how many TimeSet passes elapse before Running.
	confirmPasses = 2
	confirmDelay  = 2 * time.Second
	defaultSolid  = time.Second

	fastBlink = 50 * time.Millisecond
	slowBlink = 200 * time.Millisecond
)

// Machine is the run-state machine. Step is called from the main loop only;
// Tick and Edge are the handler entry points and may run concurrently with it.
type Machine struct {
	cfg    Config
	hw     Hardware
	shared *Shared

	// main-loop owned
	observed  RunState
	lastBlink uint32
	counts    EventCounts
}

// NewMachine creates a state machine in cfg.InitialState.
// mu guards the shared state block; nil selects a sync.Mutex.
func NewMachine(cfg Config, hw Hardware, mu sync.Locker) *Machine {
	return &Machine{
		cfg:      cfg,
		hw:       hw,
		shared:   newShared(mu, cfg),
		observed: cfg.InitialState,
	}
}

// Tick is the half-second timer handler. pressed is the button level
// sampled at this instant.
func (m *Machine) Tick(pressed bool) {
	m.shared.tick(pressed)
}

// Edge is the rising button edge handler. It returns the state the edge found
// and whether it started a transition; ignored edges still force the LED off.
func (m *Machine) Edge() (RunState, bool) {
	prev, accepted := m.shared.edge()
	m.hw.SetLED(false)
	return prev, accepted
}

// Snapshot returns the current shared state.
func (m *Machine) Snapshot() Snapshot {
	return m.shared.snapshot()
}

// Counts returns the event counts. Call from the main loop only.
func (m *Machine) Counts() EventCounts {
	return m.counts
}

// Config returns the machine configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Step runs one main-loop pass and returns the transitions it observed,
// including any made by the edge handler since the previous pass.
// It returns an error only when halting was interrupted by ctx.
func (m *Machine) Step(ctx context.Context) ([]Event, error) {
	snap, gen := m.shared.load()

	var events []Event
	if snap.State != m.observed {
		events = append(events, m.record(Event{
			Ticks: snap.Ticks,
			From:  m.observed,
			To:    snap.State,
			Cause: CauseEdge,
		}))
		m.observed = snap.State
	}

	p := pass{
		state:      snap.State,
		loop:       snap.LoopCounter,
		programmed: snap.ProgrammedDuration,
	}

	var cause Cause
	switch snap.State {
	case Sleeping:
		p.programmed = 0
		m.shared.commit(gen, p)
		// the edge handler moves the state before Halt returns
		return events, m.hw.Halt(ctx)

	case Running, RunningShutdown:
		cause = m.run(&p, snap, snap.State == RunningShutdown)

	case InitCounter:
		m.lastBlink = snap.Baseline
		p.state = Counter
		cause = CausePrime

	case Counter:
		cause = m.count(&p, snap)

	case TimeSet:
		cause = m.timeSet(&p, snap)
	}

	if m.shared.commit(gen, p) && p.state != snap.State {
		events = append(events, m.record(Event{
			Ticks: snap.Ticks,
			From:  snap.State,
			To:    p.state,
			Cause: cause,
		}))
		m.observed = p.state
	}
	return events, nil
}

// run is the Running body. shuttingDown marks the provisional shutdown overlay:
// the device powers down once the hold threshold is reached, but until then it
// keeps transmitting exactly like Running. Further edges are ignored, so held
// ticks keep accumulating across releases.
func (m *Machine) run(p *pass, snap Snapshot, shuttingDown bool) Cause {
	var cause Cause
	if shuttingDown && snap.PressDebounce >= m.cfg.HoldToShutdownTicks {
		m.blink(3, fastBlink)
		p.state = Sleeping
		p.loop = 0
		cause = CauseHold
	}

	if snap.Countdown <= 0 {
		p.state = Sleeping
		if cause != CauseHold {
			cause = CauseTimeout
		}
	}

	p.programmed = 0
	p.loop++
	switch p.loop {
	case 0:
		m.hw.SetLED(true)
	case 1:
		m.hw.SetLED(false)
	}
	if p.loop >= heartbeatSteps-1 {
		p.loop = -1
	}

	m.hw.Transmit(m.cfg.Code)
	m.counts.Bursts++
	m.hw.SetLED(false)
	m.hw.Delay(m.cfg.TxDelay)
	return cause
}

func (m *Machine) count(p *pass, snap Snapshot) Cause {
	p.loop++
	if snap.Ticks-m.lastBlink >= countBlinkTicks {
		m.lastBlink = snap.Ticks
		m.blink(1, fastBlink)
	}

	if snap.ReleaseDebounce < m.cfg.ReleaseToConfirmTicks {
		return ""
	}
	p.programmed = ProgrammedDuration(snap.Ticks - snap.Baseline)
	p.state = TimeSet
	p.loop = 0
	return CauseRelease
}

func (m *Machine) timeSet(p *pass, snap Snapshot) Cause {
	if snap.ProgrammedDuration < 1 {
		p.countdown, p.setCountdown = m.cfg.DefaultTicks, true
		p.state = Running
		m.hw.SetLED(true)
		m.hw.Delay(defaultSolid)
		m.hw.SetLED(false)
		return CauseDefault
	}

	var cause Cause
	p.loop++
	if p.loop >= confirmPasses {
		p.loop = -1
		p.state = Running
		m.blink(snap.ProgrammedDuration, slowBlink)
		cause = CauseConfirm
	}
	m.hw.Delay(confirmDelay)
	p.countdown, p.setCountdown = int32(snap.ProgrammedDuration)*m.cfg.TicksPerUnit, true
	return cause
}

// blink flashes the LED n times with the given on and off time.
func (m *Machine) blink(n int, d time.Duration) {
	m.hw.SetLED(false)
	for i := 0; i < n; i++ {
		m.hw.Delay(d)
		m.hw.SetLED(true)
		m.hw.Delay(d)
		m.hw.SetLED(false)
	}
}

func (m *Machine) record(e Event) Event {
	switch {
	case e.From == Sleeping && e.Cause == CauseEdge:
		m.counts.Wakes++
	case e.Cause == CauseHold:
		m.counts.ButtonShutdowns++
	case e.Cause == CauseTimeout:
		m.counts.TimerShutdowns++
	case e.Cause == CauseDefault:
		m.counts.DefaultStarts++
	case e.Cause == CauseConfirm:
		m.counts.ProgrammedStarts++
	}
	return e
}

// ProgrammedDuration converts the ticks elapsed between the button edge and
// the confirmed release into programmed units: two ticks per unit, minus one
// unit for the release debounce. Results below zero clamp to zero.
func ProgrammedDuration(elapsed uint32) int {
	n := int64(elapsed/2) - 1
	if n < 0 {
		return 0
	}
	if n > MaxProgrammedUnits {
		return MaxProgrammedUnits
	}
	return int(n)
}
