//go:build !tinygo

package power

import "context"

// Waker is a Halter backed by a one-slot channel. A Wake that arrives before
// Halt is latched, so a press between the state check and the halt is not lost.
type Waker struct {
	ch chan struct{}
}

// NewWaker creates a Waker with no pending wake.
func NewWaker() *Waker {
	return &Waker{ch: make(chan struct{}, 1)}
}

// Wake never blocks.
func (w *Waker) Wake() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Halt blocks until woken or ctx is done.
func (w *Waker) Halt(ctx context.Context) error {
	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
