package testutil

import (
	"testing"
	"time"

	"github.com/comalice/tennisx"
	"github.com/comalice/tennisx/eventbus"
)

// Harness wraps a bus running on one of the two dispatchers, so the same
// scenario can be checked with asynchronous and with serialized delivery.
type Harness struct {
	Name    string
	Bus     *eventbus.Bus
	Timeout time.Duration // Async wait limit (default: 5s)
	Ticks   int           // Ticked budget per Play (default: 1,000,000)

	ticked *eventbus.Ticked
}

// NewAsyncHarness returns a harness on the Async dispatcher.
func NewAsyncHarness(t testing.TB) *Harness {
	b := eventbus.New()
	t.Cleanup(func() { b.Close() })
	return &Harness{Name: "Async", Bus: b}
}

// NewTickedHarness returns a harness on a Ticked dispatcher driven by Play.
func NewTickedHarness(t testing.TB) *Harness {
	d := eventbus.NewTicked(eventbus.TickedConfig{MaxBatches: 64})
	b := eventbus.New(eventbus.WithDispatcher(d))
	t.Cleanup(func() { b.Close() })
	return &Harness{Name: "Ticked", Bus: b, ticked: d}
}

// Harnesses returns one fresh harness per dispatcher.
func Harnesses(t testing.TB) []*Harness {
	return []*Harness{NewAsyncHarness(t), NewTickedHarness(t)}
}

// Ticked returns the dispatcher of a Ticked harness, or nil.
func (h *Harness) Ticked() *eventbus.Ticked { return h.ticked }

// Play starts u and waits until it publishes UnitFinished, returning the
// winning record carried by the event.
func (h *Harness) Play(t testing.TB, u tennisx.Unit) *tennisx.Score {
	t.Helper()

	done := make(chan *tennisx.Score, 1)
	h.Bus.Subscribe(u, eventbus.KindOf[tennisx.UnitFinished](), eventbus.Func(func(_, event any) {
		done <- event.(tennisx.UnitFinished).Winner
	}))
	u.Play()

	if h.ticked != nil {
		budget := h.Ticks
		if budget == 0 {
			budget = 1_000_000
		}
		if ticks, idle := h.ticked.RunUntilIdle(budget); !idle {
			t.Fatalf("%s: %s still busy after %d ticks", h.Name, u.Kind(), ticks)
		}
	}

	timeout := h.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	select {
	case w := <-done:
		return w
	case <-time.After(timeout):
		t.Fatalf("%s: %s did not finish within %v", h.Name, u.Kind(), timeout)
		return nil
	}
}

// Players creates one player per hit rate, each drawing from a fixed value
// so that hit rate 100 always returns and 0 never does.
func (h *Harness) Players(t testing.TB, names []string, hitRates ...int) []*tennisx.Player {
	t.Helper()
	players := make([]*tennisx.Player, len(hitRates))
	for i, rate := range hitRates {
		p, err := tennisx.NewPlayer(h.Bus, names[i], rate, Fixed(50))
		if err != nil {
			t.Fatalf("NewPlayer(%q, %d): %v", names[i], rate, err)
		}
		players[i] = p
	}
	return players
}
