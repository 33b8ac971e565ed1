// Package tennisx simulates a tennis match point by point.
//
// Scoring is a hierarchy of units that share two players but keep their own
// score records: a Match plays Sets, a Set plays Games (or a TieBreak at six
// games all), and a Game drives rallies between the players. Units never call
// their parents. A finishing unit publishes UnitFinished from itself on the
// event bus, and the parent, subscribed to that child, credits the player
// whose identity matches the winning record.
//
// Rallies are event driven as well: a leaf unit asks a Player to handle the
// ball, the player publishes BallReturned or ReturnFailed, and the unit
// reacts by passing the ball to the opponent or awarding the point.
//
//	bus := eventbus.New()
//	defer bus.Close()
//	alice, _ := tennisx.NewPlayer(bus, "Alice", 60, drawer)
//	bob, _ := tennisx.NewPlayer(bus, "Bob", 55, drawer)
//	m, _ := tennisx.NewMatch(bus, []*tennisx.Player{alice, bob}, 2)
//	winner, err := m.Run(ctx)
package tennisx
