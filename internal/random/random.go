// Package random provides the seeded draws behind rallies and server choice.
package random

import (
	"math"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Source draws uniform non-negative integers and player names from one
// seeded generator. Equal seeds give equal sequences; seed 0 picks a random
// seed. Safe for concurrent use.
type Source struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New returns a Source seeded with seed.
func New(seed uint64) *Source {
	return &Source{faker: gofakeit.New(seed)}
}

// Draw returns a uniform integer in [0, math.MaxInt32].
func (s *Source) Draw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(0, math.MaxInt32)
}

// Name returns a generated first name.
func (s *Source) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.FirstName()
}

// Names returns n distinct generated first names.
func (s *Source) Names(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(names) < n {
		name := s.faker.FirstName()
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
