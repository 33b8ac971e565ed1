package tennisx

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/comalice/tennisx/eventbus"
)

// Drawer draws uniform non-negative integers.
type Drawer interface {
	Draw() int
}

// Player is a rally participant. A Player is shared by reference between all
// units of a match; its pointer is its identity.
type Player struct {
	id      uuid.UUID
	name    string
	hitRate int
	drawer  Drawer
	bus     *eventbus.Bus
}

// NewPlayer creates a player publishing on bus. hitRate is the chance, in
// percent, that the player returns a ball.
func NewPlayer(bus *eventbus.Bus, name string, hitRate int, drawer Drawer) (*Player, error) {
	switch {
	case bus == nil:
		return nil, fmt.Errorf("player %q: nil bus: %w", name, ErrInvalidConfig)
	case drawer == nil:
		return nil, fmt.Errorf("player %q: nil drawer: %w", name, ErrInvalidConfig)
	case hitRate < 0 || hitRate > 100:
		return nil, fmt.Errorf("player %q: hit rate %d outside [0,100]: %w", name, hitRate, ErrInvalidConfig)
	}
	return &Player{
		id:      uuid.New(),
		name:    name,
		hitRate: hitRate,
		drawer:  drawer,
		bus:     bus,
	}, nil
}

// ID returns the player's generated identifier.
func (p *Player) ID() uuid.UUID { return p.id }

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// HitRate returns the return probability in percent.
func (p *Player) HitRate() int { return p.hitRate }

func (p *Player) String() string { return p.name }

// HandleBall plays one shot: the player publishes BallReturned from itself if
// the draw falls under its hit rate, and ReturnFailed otherwise.
func (p *Player) HandleBall() {
	if mod(p.drawer.Draw(), 100) < p.hitRate {
		p.bus.Publish(p, BallReturned{})
		return
	}
	p.bus.Publish(p, ReturnFailed{})
}

// mod is the non-negative remainder of d / n.
func mod(d, n int) int {
	return ((d % n) + n) % n
}
