package eventbus

import (
	"sync/atomic"

	"github.com/creachadair/taskgroup"
)

// Dispatcher schedules a published batch to run independently of the
// publisher. Implementations must not run batch on the caller's stack.
type Dispatcher interface {
	Dispatch(batch func()) error
	Close() error
}

// Async runs every batch on its own goroutine.
type Async struct {
	g      taskgroup.Group
	closed atomic.Bool
}

// NewAsync returns an Async dispatcher.
func NewAsync() *Async {
	return &Async{}
}

// Dispatch starts batch on a new goroutine.
func (a *Async) Dispatch(batch func()) error {
	if a.closed.Load() {
		return ErrClosed
	}
	a.g.Go(func() error {
		batch()
		return nil
	})
	return nil
}

// Close stops accepting batches and waits for the running ones, including
// the chains they started before Close was called.
// Close must not race with publishes from outside running handlers.
func (a *Async) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	return a.g.Wait()
}
