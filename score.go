package tennisx

import "fmt"

// Game ladder values past 40.
const (
	Advantage = 41
	GameWon   = 42
)

// Score is one player's record inside one unit. Its meaning depends on the
// unit: ladder points in a Game, points in a TieBreak, games in a Set, sets in
// a Match. Records are owned and mutated by their unit only, under the
// unit's lock.
type Score struct {
	player *Player
	points int
}

// Player returns the player the record belongs to.
func (s *Score) Player() *Player { return s.player }

// Points returns the current value. Reading it races with play while the
// owning unit is live; read it once the unit has finished, from a Recorder
// callback, or take a Snapshot of the unit instead.
func (s *Score) Points() int { return s.points }


func (s *Score) String() string {
	return fmt.Sprintf("%s:%d", s.player, s.points)
}
