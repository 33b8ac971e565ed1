package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TickedConfig configures a Ticked dispatcher.
type TickedConfig struct {
	TickRate   time.Duration // Interval between ticks in Run (default: 1ms)
	MaxBatches int           // Queue capacity (default: 1000)
}

// Ticked queues batches and runs them at tick boundaries, in the order they
// were dispatched. Batches dispatched while a tick is running wait for the
// next tick, so a handler chain advances one step per tick.
type Ticked struct {
	tickRate time.Duration

	mu      sync.Mutex
	batches []func()
	limit   int
	tickNum uint64
	closed  bool

	stopped chan struct{}
}

// NewTicked returns a Ticked dispatcher. Drive it with Tick or Run.
func NewTicked(cfg TickedConfig) *Ticked {
	if cfg.MaxBatches == 0 {
		cfg.MaxBatches = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = time.Millisecond
	}
	return &Ticked{
		tickRate: cfg.TickRate,
		batches:  make([]func(), 0, cfg.MaxBatches),
		limit:    cfg.MaxBatches,
		stopped:  make(chan struct{}),
	}
}

// Dispatch queues batch for the next tick.
func (t *Ticked) Dispatch(batch func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if len(t.batches) >= t.limit {
		return errors.New("eventbus: tick queue full")
	}
	t.batches = append(t.batches, batch)
	return nil
}

// Tick runs every batch queued before the call and returns how many ran.
func (t *Ticked) Tick() int {
	batches := t.collect()
	for _, batch := range batches {
		batch()
	}

	t.mu.Lock()
	t.tickNum++
	t.mu.Unlock()
	return len(batches)
}

// RunUntilIdle ticks until the queue is empty or maxTicks ticks have run. It
// reports the number of ticks and whether the queue drained.
func (t *Ticked) RunUntilIdle(maxTicks int) (ticks int, idle bool) {
	for ticks < maxTicks {
		if t.Pending() == 0 {
			return ticks, true
		}
		t.Tick()
		ticks++
	}
	return ticks, t.Pending() == 0
}

// Run ticks at the configured rate until ctx is done or Close is called.
func (t *Ticked) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.stopped:
			return nil
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Pending returns the number of queued batches.
func (t *Ticked) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.batches)
}

// TickNumber returns the number of completed ticks.
func (t *Ticked) TickNumber() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tickNum
}

// Close stops accepting batches and stops Run. Queued batches are discarded.
func (t *Ticked) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.batches = nil
	close(t.stopped)
	return nil
}

// collect atomically retrieves and clears the queue.
func (t *Ticked) collect() []func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	batches := t.batches
	t.batches = make([]func(), 0, t.limit)
	return batches
}
