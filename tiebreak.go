package tennisx

import (
	"fmt"
	"log/slog"

	"github.com/comalice/tennisx/eventbus"
)

// TieBreak is the game played at six games all: first to seven points with
// a lead of two. The serve changes after every point that does not end it.
type TieBreak struct {
	leaf
	firstServer int
}

var _ Unit = (*TieBreak)(nil)

// NewTieBreak creates a tie-break opened by players[server].
func NewTieBreak(bus *eventbus.Bus, players []*Player, server int, opts ...Option) (*TieBreak, error) {
	if err := validateServer(server); err != nil {
		return nil, fmt.Errorf("tiebreak: %w", err)
	}
	tb := &TieBreak{firstServer: server}
	if err := tb.init(KindTieBreak, bus, players, opts); err != nil {
		return nil, err
	}
	tb.server = server
	tb.subscribe(tb)
	return tb, nil
}

// FirstServer returns the index of the player who served the first point.
func (tb *TieBreak) FirstServer() int { return tb.firstServer }

// HandleEvent reacts to the players' rally outcomes.
func (tb *TieBreak) HandleEvent(source, event any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.rallyLocked(source, event, tb.pointLocked)
}

// AddScore awards one point to s and hands the serve over.
func (tb *TieBreak) AddScore(s *Score) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	i, err := tb.scorableLocked(s)
	if err != nil {
		return err
	}
	tb.pointLocked(i)
	return nil
}

func (tb *TieBreak) pointLocked(i int) {
	me := tb.scores[i]
	tb.opts.recorder.PointWon(KindTieBreak, me.player)
	me.points++
	tb.log.Debug("point won",
		slog.String("player", me.player.name),
		slog.Int("score", me.points),
		slog.Int("opponent", tb.scores[1-i].points))

	if tieBreakWon(me.points, tb.scores[1-i].points) {
		tb.teardownLocked(tb, i)
		return
	}
	tb.server = 1 - tb.server
	tb.serveLocked()
}

func tieBreakWon(points, opponent int) bool {
	return points >= 7 && points-opponent >= 2
}

// Winner returns the record with at least seven points and a lead of two, or nil.
func (tb *TieBreak) Winner() *Score {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for i, s := range tb.scores {
		if tieBreakWon(s.points, tb.scores[1-i].points) {
			return s
		}
	}
	return nil
}

// Play serves a ball from the current server.
func (tb *TieBreak) Play() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.doneLocked() {
		return
	}
	tb.serveLocked()
}

func (tb *TieBreak) retire() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.retireLocked(tb)
}

// Snapshot returns the points and the current server.
func (tb *TieBreak) Snapshot() Snapshot {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.snapshotLocked(tb.server)
}
