// Package benchmarks measures full-match throughput and footprint.
package benchmarks

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/comalice/tennisx"
	"github.com/comalice/tennisx/eventbus"
	"github.com/comalice/tennisx/internal/random"
)

func newMatch(b *testing.B, bus *eventbus.Bus, seed uint64) *tennisx.Match {
	b.Helper()
	a, err := tennisx.NewPlayer(bus, "Ana", 70, random.New(seed))
	if err != nil {
		b.Fatal(err)
	}
	c, err := tennisx.NewPlayer(bus, "Bea", 70, random.New(seed+1))
	if err != nil {
		b.Fatal(err)
	}
	m, err := tennisx.NewMatch(bus, []*tennisx.Player{a, c}, 2, tennisx.WithDrawer(random.New(seed+2)))
	if err != nil {
		b.Fatal(err)
	}
	return m
}

func BenchmarkMatchTicked(b *testing.B) {
	b.ReportAllocs()
	var ticks int
	seed := uint64(1)
	for b.Loop() {
		d := eventbus.NewTicked(eventbus.TickedConfig{MaxBatches: 16})
		bus := eventbus.New(eventbus.WithDispatcher(d))
		m := newMatch(b, bus, seed)
		m.Play()
		n, idle := d.RunUntilIdle(1_000_000)
		if !idle || !m.Finished() {
			b.Fatalf("match not finished after %d ticks", n)
		}
		ticks += n
		bus.Close()
		seed += 3
	}
	b.ReportMetric(float64(ticks)/float64(b.N), "ticks/match")
}

func BenchmarkMatchAsync(b *testing.B) {
	bus := eventbus.New()
	defer bus.Close()
	ctx := context.Background()

	b.ReportAllocs()
	seed := uint64(1)
	for b.Loop() {
		if _, err := newMatch(b, bus, seed).Run(ctx); err != nil {
			b.Fatal(err)
		}
		seed += 3
	}
}

func BenchmarkConcurrentMatches(b *testing.B) {
	bus := eventbus.New()
	defer bus.Close()
	ctx := context.Background()

	const workers = 8
	b.ReportAllocs()
	for b.Loop() {
		var wg sync.WaitGroup
		for w := range workers {
			m := newMatch(b, bus, uint64(3*w+1))
			wg.Go(func() {
				if _, err := m.Run(ctx); err != nil {
					b.Error(err)
				}
			})
		}
		wg.Wait()
	}
	b.ReportMetric(workers, "matches/op")
}

func BenchmarkMatchFootprint(b *testing.B) {
	const n = 1000
	for b.Loop() {
		bus := eventbus.New()
		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)
		matches := make([]*tennisx.Match, n)
		for i := range matches {
			matches[i] = newMatch(b, bus, uint64(i))
		}
		runtime.ReadMemStats(&after)
		b.ReportMetric(float64(after.TotalAlloc-before.TotalAlloc)/n/1024, "KB/match")
		runtime.KeepAlive(matches)
		bus.Close()
	}
}
