package tennisx

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/comalice/tennisx/eventbus"
)

// Kind names a unit variant.
type Kind string

const (
	KindGame     Kind = "game"
	KindTieBreak Kind = "tiebreak"
	KindSet      Kind = "set"
	KindMatch    Kind = "match"
)

// Unit is a node of the scoring hierarchy.
type Unit interface {
	ID() uuid.UUID
	Kind() Kind
	// Scores returns the unit's own records, in player order.
	Scores() [2]*Score
	// AddScore applies one scoring increment to s and enacts the unit's
	// win/advance rule.
	AddScore(s *Score) error
	// Winner returns the record satisfying the win condition, or nil.
	Winner() *Score
	// Play starts or resumes the unit: serves a ball or starts the next child.
	Play()
	Finished() bool
	Snapshot() Snapshot
}

// unit holds what every variant shares. Its mutex guards the records and all
// variant state; methods ending in Locked expect it held.
type unit struct {
	mu       sync.Mutex
	id       uuid.UUID
	kind     Kind
	bus      *eventbus.Bus
	scores   [2]*Score
	finished bool
	retired  bool
	winner   *Score
	opts     options
	log      *slog.Logger
}

func (u *unit) init(kind Kind, bus *eventbus.Bus, players []*Player, opts []Option) error {
	if err := validatePlayers(bus, players); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	u.id = uuid.New()
	u.kind = kind
	u.bus = bus
	u.scores = [2]*Score{{player: players[0]}, {player: players[1]}}
	u.opts = buildOptions(opts)
	u.log = u.opts.logger.With(slog.String("unit", u.id.String()), slog.String("kind", string(kind)))
	return nil
}

func validatePlayers(bus *eventbus.Bus, players []*Player) error {
	switch {
	case bus == nil:
		return fmt.Errorf("nil bus: %w", ErrInvalidConfig)
	case len(players) != 2:
		return fmt.Errorf("need 2 players, got %d: %w", len(players), ErrInvalidConfig)
	case players[0] == nil || players[1] == nil:
		return fmt.Errorf("nil player: %w", ErrInvalidConfig)
	case players[0] == players[1]:
		return fmt.Errorf("player %s listed twice: %w", players[0], ErrInvalidConfig)
	}
	return nil
}

func validateServer(server int) error {
	if server != 0 && server != 1 {
		return fmt.Errorf("server index %d: %w", server, ErrInvalidConfig)
	}
	return nil
}

// ID returns the unit's generated identifier.
func (u *unit) ID() uuid.UUID { return u.id }

// Kind returns the variant.
func (u *unit) Kind() Kind { return u.kind }

// Scores returns the unit's own records, in player order. See Score.Points
// for when they may be read.
func (u *unit) Scores() [2]*Score { return u.scores }

// Finished reports whether the unit has been won.
func (u *unit) Finished() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.finished
}

// doneLocked reports whether the unit no longer takes part in play, either
// because it was won or because its parent moved on without it.
func (u *unit) doneLocked() bool {
	return u.finished || u.retired
}

func (u *unit) players() []*Player {
	return []*Player{u.scores[0].player, u.scores[1].player}
}

// indexOf returns the position of one of the unit's own records, or -1.
func (u *unit) indexOf(s *Score) int {
	for i, own := range u.scores {
		if own == s {
			return i
		}
	}
	return -1
}

// indexOfPlayer returns the position of p's record, or -1.
func (u *unit) indexOfPlayer(p *Player) int {
	for i, own := range u.scores {
		if own.player == p {
			return i
		}
	}
	return -1
}

// scorableLocked checks that s can be scored and returns its index.
func (u *unit) scorableLocked(s *Score) (int, error) {
	if u.finished {
		return -1, fmt.Errorf("%s %s: %w", u.kind, u.id, ErrFinished)
	}
	if u.retired {
		return -1, fmt.Errorf("%s %s retired: %w", u.kind, u.id, ErrFinished)
	}
	i := u.indexOf(s)
	if i < 0 {
		return -1, fmt.Errorf("%s %s: %w", u.kind, u.id, ErrUnknownScore)
	}
	return i, nil
}

// finishLocked marks record i as the winner and announces it from self, the
// variant embedding u. Registrations on self as a source are dropped in the
// same step as the publish.
func (u *unit) finishLocked(self Unit, i int) {
	winner := u.scores[i]
	u.finished = true
	u.winner = winner
	u.log.Debug("unit finished",
		slog.String("player", winner.player.name),
		slog.Int("score", winner.points),
		slog.Int("opponent", u.scores[1-i].points))
	u.opts.recorder.UnitFinished(u.kind, winner)
	u.bus.PublishAndForget(self, UnitFinished{Winner: winner})
}
