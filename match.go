package tennisx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comalice/tennisx/eventbus"
	"github.com/comalice/tennisx/internal/random"
)

// Match counts sets won and is won by the first player to reach SetsToWin.
type Match struct {
	composite
	setsToWin int
}

var _ Unit = (*Match)(nil)

// NewMatch creates a match between exactly two distinct players. The first
// server is drawn with the WithDrawer option, or a randomly seeded source.
func NewMatch(bus *eventbus.Bus, players []*Player, setsToWin int, opts ...Option) (*Match, error) {
	if setsToWin < 1 {
		return nil, fmt.Errorf("match: sets to win %d: %w", setsToWin, ErrInvalidConfig)
	}
	m := &Match{setsToWin: setsToWin}
	if err := m.init(KindMatch, bus, players, opts); err != nil {
		return nil, err
	}
	if m.opts.drawer == nil {
		m.opts.drawer = random.New(0)
	}
	return m, nil
}

// SetsToWin returns the number of sets needed to win.
func (m *Match) SetsToWin() int { return m.setsToWin }

// HandleEvent credits the winner of the current set.
func (m *Match) HandleEvent(source, event any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.creditLocked(source, event); ok {
		m.setLocked(i)
	}
}

// AddScore awards one set to s and starts the next set unless the match
// is won. A set still in progress is retired.
func (m *Match) AddScore(s *Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.scorableLocked(s)
	if err != nil {
		return err
	}
	m.setLocked(i)
	return nil
}

func (m *Match) setLocked(i int) {
	me := m.scores[i]
	me.points++
	m.log.Debug("set won",
		slog.String("player", me.player.name),
		slog.Int("sets", me.points),
		slog.Int("opponent", m.scores[1-i].points))

	if me.points == m.setsToWin {
		m.retireChildLocked()
		m.finishLocked(m, i)
		return
	}
	m.playLocked()
}

// playLocked starts the next set. The first server is drawn; after that the
// player who received in the last game of the previous set serves first.
func (m *Match) playLocked() {
	var server int
	if prev, ok := m.currentLocked().(*Set); ok {
		server = 1 - prev.LastServer()
	} else {
		server = mod(m.opts.drawer.Draw(), 2)
	}

	set, err := NewSet(m.bus, m.players(), server, inherit(m.opts))
	if err != nil {
		m.log.Error("cannot start set", slog.Any("error", err))
		return
	}
	m.startLocked(m, set)
}

// Winner returns the record that reached SetsToWin, or nil.
func (m *Match) Winner() *Score {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.scores {
		if s.points == m.setsToWin {
			return s
		}
	}
	return nil
}

// Play starts the next set unless one is in progress.
func (m *Match) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doneLocked() || m.liveChildLocked() {
		return
	}
	m.playLocked()
}

// Run plays the match to completion and returns the winner's match record.
// The bus dispatcher must be running; with a Ticked dispatcher someone has
// to drive it. If ctx ends first Run returns its error and the match keeps
// going in the background.
func (m *Match) Run(ctx context.Context) (*Score, error) {
	done := make(chan *Score, 1)
	waiter := eventbus.Func(func(_, event any) {
		if fin, ok := event.(UnitFinished); ok {
			done <- fin.Winner
		}
	})
	// Subscribe before checking, so a finish in between reaches the waiter
	// or shows up in Finished.
	m.bus.Subscribe(m, kindUnitFinished, waiter)
	if m.Finished() {
		m.bus.Unsubscribe(m, kindUnitFinished, waiter)
		return m.Winner(), nil
	}
	m.Play()

	select {
	case w := <-done:
		return w, nil
	case <-ctx.Done():
		m.bus.Unsubscribe(m, kindUnitFinished, waiter)
		return nil, ctx.Err()
	}
}

// Snapshot returns the match and every set played so far.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	server := 0
	if len(m.children) > 0 {
		server = m.children[0].(*Set).FirstServer()
	}
	return m.snapshotTreeLocked(server)
}
