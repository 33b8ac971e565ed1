// Package testutil provides deterministic drawers, a recording Recorder and
// a dispatcher harness for scenario tests.
package testutil

import (
	"slices"
	"sync"

	"github.com/comalice/tennisx"
)

// Fixed is a drawer that always draws the same value.
type Fixed int

func (f Fixed) Draw() int { return int(f) }

// Script is a drawer that replays its values in order, then starts over.
type Script struct {
	mu    sync.Mutex
	draws []int
	next  int
}

// NewScript returns a Script over draws. It panics on an empty script.
func NewScript(draws ...int) *Script {
	if len(draws) == 0 {
		panic("testutil: empty script")
	}
	return &Script{draws: draws}
}

func (s *Script) Draw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draws[s.next%len(s.draws)]
	s.next++
	return d
}

// Calls returns how many draws were made.
func (s *Script) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Point is a PointWon call seen by a Recorder.
type Point struct {
	Kind   tennisx.Kind
	Player string
}

// Finish is a UnitFinished call seen by a Recorder.
type Finish struct {
	Kind   tennisx.Kind
	Player string
	Score  int
}

// Recorder is a tennisx.Recorder that keeps every call.
type Recorder struct {
	mu       sync.Mutex
	points   []Point
	finishes []Finish
}

func (r *Recorder) PointWon(kind tennisx.Kind, p *tennisx.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, Point{Kind: kind, Player: p.Name()})
}

func (r *Recorder) UnitFinished(kind tennisx.Kind, winner *tennisx.Score) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishes = append(r.finishes, Finish{Kind: kind, Player: winner.Player().Name(), Score: winner.Points()})
}

// Points returns the recorded points.
func (r *Recorder) Points() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Point(nil), r.points...)
}

// Finishes returns the recorded finished units, of the given kinds if any.
func (r *Recorder) Finishes(kinds ...tennisx.Kind) []Finish {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Finish
	for _, f := range r.finishes {
		if len(kinds) == 0 || slices.Contains(kinds, f.Kind) {
			out = append(out, f)
		}
	}
	return out
}

