package tennisx

import "github.com/comalice/tennisx/eventbus"

// BallReturned is published by a Player that kept the rally going.
type BallReturned struct{}

// ReturnFailed is published by a Player that lost the rally.
type ReturnFailed struct{}

// UnitFinished is published by a unit, from itself, when it is won.
type UnitFinished struct {
	Winner *Score
}

var (
	kindBallReturned = eventbus.KindOf[BallReturned]()
	kindReturnFailed = eventbus.KindOf[ReturnFailed]()
	kindUnitFinished = eventbus.KindOf[UnitFinished]()
)
