package tennisx

import "github.com/comalice/tennisx/eventbus"

// leaf is the rally-driving part shared by Game and TieBreak.
type leaf struct {
	unit
	server int
}

// subscribe registers self for both players' rally outcomes.
func (l *leaf) subscribe(self eventbus.Handler) {
	for _, s := range l.scores {
		l.bus.Subscribe(s.player, kindBallReturned, self)
		l.bus.Subscribe(s.player, kindReturnFailed, self)
	}
}

// serveLocked hands the ball to the player at the server index.
func (l *leaf) serveLocked() {
	l.scores[l.server].player.HandleBall()
}

// rallyLocked reacts to one rally outcome from source. A return passes the
// ball to the opponent; a failed return calls point with the opponent's index.
func (l *leaf) rallyLocked(source, event any, point func(i int)) {
	if l.doneLocked() {
		return
	}
	p, ok := source.(*Player)
	if !ok {
		return
	}
	i := l.indexOfPlayer(p)
	if i < 0 {
		return
	}
	switch event.(type) {
	case BallReturned:
		l.scores[1-i].player.HandleBall()
	case ReturnFailed:
		point(1 - i)
	}
}

func (l *leaf) unsubscribe(self eventbus.Handler) {
	for _, s := range l.scores {
		l.bus.Unsubscribe(s.player, kindBallReturned, self)
		l.bus.Unsubscribe(s.player, kindReturnFailed, self)
	}
}

// teardownLocked unregisters self from both players and announces record i
// as the winner.
func (l *leaf) teardownLocked(self interface {
	Unit
	eventbus.Handler
}, i int) {
	l.unsubscribe(self)
	l.finishLocked(self, i)
}

// retireLocked takes an unfinished leaf out of play without a winner. Rally
// events already in flight are ignored once it is retired.
func (l *leaf) retireLocked(self eventbus.Handler) {
	if l.doneLocked() {
		return
	}
	l.retired = true
	l.unsubscribe(self)
	l.bus.ForgetSource(self)
	l.log.Debug("unit retired")
}

// Server returns the index of the player currently serving.
func (l *leaf) Server() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.server
}
