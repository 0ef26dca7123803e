// Package power implements the low-power halt of the emitter: the control loop
// stops until the button wakes it.
package power

import "context"

// Halter blocks the control loop until woken.
type Halter interface {
	// Wake releases a pending or the next Halt. Safe from handler context.
	Wake()
	// Halt blocks until Wake is called or ctx is done.
	Halt(ctx context.Context) error
}
