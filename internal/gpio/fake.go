package gpio

import "sync"

// FakePins is a test double that scripts the button and records outputs.
// It is safe for concurrent use: tests drive it from tick and loop goroutines.
type FakePins struct {
	mu sync.Mutex

	pressed bool
	onPress func()

	// LEDWrites and IRWrites record every value written, in order.
	LEDWrites []bool
	IRWrites  []bool

	// ReadError, if set, will be returned by Button().
	ReadError error

	// WriteError, if set, will be returned by SetLED() and SetIR().
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePins creates a FakePins with the button released.
func NewFakePins() *FakePins {
	return &FakePins{}
}

// Button returns the scripted button level.
func (f *FakePins) Button() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.pressed, nil
}

// OnPress records the edge handler.
func (f *FakePins) OnPress(fn func()) error {
	f.mu.Lock()
	f.onPress = fn
	f.mu.Unlock()
	return nil
}

// Press sets the button level high and fires the rising-edge handler,
// like a real press.
func (f *FakePins) Press() {
	f.mu.Lock()
	f.pressed = true
	fn := f.onPress
	f.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Release sets the button level low. No edge fires.
func (f *FakePins) Release() {
	f.mu.Lock()
	f.pressed = false
	f.mu.Unlock()
}

// SetLED records the LED level.
func (f *FakePins) SetLED(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.LEDWrites = append(f.LEDWrites, on)
	return nil
}

// SetIR records the IR key level.
func (f *FakePins) SetIR(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.IRWrites = append(f.IRWrites, on)
	return nil
}

// LED returns the last LED level written.
func (f *FakePins) LED() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.LEDWrites) == 0 {
		return false
	}
	return f.LEDWrites[len(f.LEDWrites)-1]
}

// LEDBlinks counts off-to-on transitions of the LED.
func (f *FakePins) LEDBlinks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return risingEdges(f.LEDWrites)
}

// IRMarks counts off-to-on transitions of the IR key.
func (f *FakePins) IRMarks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return risingEdges(f.IRWrites)
}

// Close marks the pins as closed.
func (f *FakePins) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Reset clears recorded writes and errors.
func (f *FakePins) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LEDWrites = nil
	f.IRWrites = nil
	f.ReadError = nil
	f.WriteError = nil
	f.Closed = false
}

func risingEdges(writes []bool) int {
	n := 0
	last := false
	for _, w := range writes {
		if w && !last {
			n++
		}
		last = w
	}
	return n
}
