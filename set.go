package tennisx

import (
	"fmt"
	"log/slog"

	"github.com/comalice/tennisx/eventbus"
)

// Set counts games won. It is won at six games with a lead of two, or at
// seven; a TieBreak is played instead of a Game at six games all.
type Set struct {
	composite
	server int
}

var _ Unit = (*Set)(nil)

// NewSet creates a set whose first game is served by players[server].
func NewSet(bus *eventbus.Bus, players []*Player, server int, opts ...Option) (*Set, error) {
	if err := validateServer(server); err != nil {
		return nil, fmt.Errorf("set: %w", err)
	}
	s := &Set{server: server}
	if err := s.init(KindSet, bus, players, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// FirstServer returns the index of the player serving the first game.
func (s *Set) FirstServer() int { return s.server }

// LastServer returns the index of the player who opened the most recent
// game, or the first server if no game was started.
func (s *Set) LastServer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.currentLocked().(servingUnit); ok {
		return prev.FirstServer()
	}
	return s.server
}

// HandleEvent credits the winner of the current game.
func (s *Set) HandleEvent(source, event any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.creditLocked(source, event); ok {
		s.gameLocked(i)
	}
}

// AddScore awards one game to sc and starts the next game unless the set
// is won. A game still in progress is retired.
func (s *Set) AddScore(sc *Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.scorableLocked(sc)
	if err != nil {
		return err
	}
	s.gameLocked(i)
	return nil
}

func (s *Set) gameLocked(i int) {
	me, other := s.scores[i], s.scores[1-i]
	me.points++
	s.log.Debug("game won",
		slog.String("player", me.player.name),
		slog.Int("games", me.points),
		slog.Int("opponent", other.points))

	if setWon(me.points, other.points) {
		s.retireChildLocked()
		s.finishLocked(s, i)
		return
	}
	s.playLocked()
}

func setWon(games, opponent int) bool {
	return games == 7 || games == 6 && games-opponent >= 2
}

// playLocked starts the next game. Servers alternate from game to game.
func (s *Set) playLocked() {
	server := s.server
	if prev, ok := s.currentLocked().(servingUnit); ok {
		server = 1 - prev.FirstServer()
	}

	var child Unit
	var err error
	if s.scores[0].points == 6 && s.scores[1].points == 6 {
		child, err = NewTieBreak(s.bus, s.players(), server, inherit(s.opts))
	} else {
		child, err = NewGame(s.bus, s.players(), server, inherit(s.opts))
	}
	if err != nil {
		// Players and server were validated when the set was built.
		s.log.Error("cannot start game", slog.Any("error", err))
		return
	}
	s.startLocked(s, child)
}

// Winner returns the record that won the set, or nil.
func (s *Set) Winner() *Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range s.scores {
		if setWon(sc.points, s.scores[1-i].points) {
			return sc
		}
	}
	return nil
}

// Play starts the next game unless one is in progress.
func (s *Set) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doneLocked() || s.liveChildLocked() {
		return
	}
	s.playLocked()
}

func (s *Set) retire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retireLocked(s)
}

// Snapshot returns the set and the games played so far.
func (s *Set) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotTreeLocked(s.server)
}
