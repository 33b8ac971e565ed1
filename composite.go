package tennisx

import (
	"log/slog"
	"slices"

	"github.com/comalice/tennisx/eventbus"
)

// servingUnit is implemented by units that know who opened them.
type servingUnit interface {
	FirstServer() int
}

// retirer is implemented by units that can be played as children.
type retirer interface {
	retire()
}

// composite is the part shared by Set and Match: an append-only history of
// children of which only the last one is live.
type composite struct {
	unit
	children []Unit
}

// Children returns the children started so far, in play order.
func (c *composite) Children() []Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.children)
}

// Current returns the most recently started child, or nil.
func (c *composite) Current() Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *composite) currentLocked() Unit {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// liveChildLocked reports whether the current child is still being played.
func (c *composite) liveChildLocked() bool {
	cur := c.currentLocked()
	return cur != nil && !cur.Finished()
}

// startLocked makes child the current one, subscribes self to its finish
// event and starts it. A current child still in play is retired first, so
// only the newest child ever receives rally events.
func (c *composite) startLocked(self eventbus.Handler, child Unit) {
	c.retireChildLocked()
	c.children = append(c.children, child)
	c.bus.Subscribe(child, kindUnitFinished, self)
	c.log.Debug("unit started",
		slog.String("child", child.ID().String()),
		slog.String("child_kind", string(child.Kind())),
		slog.Int("number", len(c.children)))
	child.Play()
}

// creditLocked maps a finish event from the current child to the index of
// this unit's own record for the same player. Events from earlier children
// and unknown players are rejected.
func (c *composite) creditLocked(source, event any) (int, bool) {
	if c.doneLocked() {
		return -1, false
	}
	fin, ok := event.(UnitFinished)
	if !ok || fin.Winner == nil {
		return -1, false
	}
	cur := c.currentLocked()
	if cur == nil || source != any(cur) {
		return -1, false
	}
	i := c.indexOfPlayer(fin.Winner.player)
	return i, i >= 0
}

// retireChildLocked retires the current child if it is still in play.
func (c *composite) retireChildLocked() {
	if !c.liveChildLocked() {
		return
	}
	if r, ok := c.currentLocked().(retirer); ok {
		r.retire()
	}
}

// retireLocked takes an unfinished composite out of play along with its
// live child, and drops its parent's subscription.
func (c *composite) retireLocked(self eventbus.Handler) {
	if c.doneLocked() {
		return
	}
	c.retired = true
	c.retireChildLocked()
	c.bus.ForgetSource(self)
	c.log.Debug("unit retired")
}

func (c *composite) snapshotTreeLocked(server int) Snapshot {
	snap := c.snapshotLocked(server)
	for _, child := range c.children {
		snap.Children = append(snap.Children, child.Snapshot())
	}
	return snap
}
