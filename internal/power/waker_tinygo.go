//go:build tinygo

package power

import (
	"context"
	"sync/atomic"
	"time"
)

// pollInterval is short enough that a press feels instant; time.Sleep lets
// the scheduler put the core to sleep in between.
const pollInterval = 20 * time.Millisecond

// Waker is a Halter backed by an atomic flag, since channel operations are
// not allowed from interrupt handlers.
type Waker struct {
	woken atomic.Bool
}

// NewWaker creates a Waker with no pending wake.
func NewWaker() *Waker {
	return &Waker{}
}

// Wake is safe from an interrupt handler.
func (w *Waker) Wake() {
	w.woken.Store(true)
}

// Halt polls the flag until woken or ctx is done.
func (w *Waker) Halt(ctx context.Context) error {
	for !w.woken.Swap(false) {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(pollInterval)
	}
	return nil
}
