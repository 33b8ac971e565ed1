package tennisx

import (
	"fmt"
	"log/slog"

	"github.com/comalice/tennisx/eventbus"
)

// Game is an ordinary game: 0, 15, 30, 40, then deuce and advantage rules.
// The server is fixed for the whole game.
type Game struct {
	leaf
}

var _ Unit = (*Game)(nil)

// NewGame creates a game between players, served by players[server]. The
// game subscribes to both players' rally outcomes right away; call Play to
// serve the first ball.
func NewGame(bus *eventbus.Bus, players []*Player, server int, opts ...Option) (*Game, error) {
	if err := validateServer(server); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g := &Game{}
	if err := g.init(KindGame, bus, players, opts); err != nil {
		return nil, err
	}
	g.server = server
	g.subscribe(g)
	return g, nil
}

// FirstServer returns the index of the player serving this game.
func (g *Game) FirstServer() int {
	return g.Server()
}

// HandleEvent reacts to the players' rally outcomes.
func (g *Game) HandleEvent(source, event any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rallyLocked(source, event, g.pointLocked)
}

// AddScore awards one point to s on the ladder and serves the next ball.
func (g *Game) AddScore(s *Score) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, err := g.scorableLocked(s)
	if err != nil {
		return err
	}
	g.pointLocked(i)
	return nil
}

// pointLocked moves record i one step up the ladder. From 40 the step depends
// on the opponent: below 40 wins, 40 gives advantage, advantage goes back to
// deuce.
func (g *Game) pointLocked(i int) {
	me, other := g.scores[i], g.scores[1-i]
	g.opts.recorder.PointWon(KindGame, me.player)

	switch me.points {
	case 0:
		me.points = 15
	case 15:
		me.points = 30
	case 30:
		me.points = 40
	case 40:
		switch {
		case other.points < 40:
			me.points = GameWon
		case other.points == 40:
			me.points = Advantage
		default:
			other.points = 40
		}
	case Advantage:
		me.points = GameWon
	}
	g.log.Debug("point won",
		slog.String("player", me.player.name),
		slog.Int("score", me.points),
		slog.Int("opponent", other.points))

	if me.points == GameWon {
		g.teardownLocked(g, i)
		return
	}
	g.serveLocked()
}

// Winner returns the record that reached GameWon, or nil.
func (g *Game) Winner() *Score {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.scores {
		if s.points == GameWon {
			return s
		}
	}
	return nil
}

// Play serves a ball from the server.
func (g *Game) Play() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.doneLocked() {
		return
	}
	g.serveLocked()
}

func (g *Game) retire() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.retireLocked(g)
}

// Snapshot returns the game score and server.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked(g.server)
}
