package tennisx_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tennisx"
	"github.com/comalice/tennisx/eventbus"
	"github.com/comalice/tennisx/internal/random"
	"github.com/comalice/tennisx/testutil"
)

func newIdleMatch(t *testing.T, setsToWin int, opts ...tennisx.Option) *tennisx.Match {
	t.Helper()
	h := testutil.NewTickedHarness(t)
	m, err := tennisx.NewMatch(h.Bus, h.Players(t, names, 50, 50), setsToWin, opts...)
	require.NoError(t, err)
	return m
}

func TestNewMatchValidation(t *testing.T) {
	h := testutil.NewTickedHarness(t)
	ps := h.Players(t, names, 50, 50)

	tests := []struct {
		name      string
		bus       *eventbus.Bus
		players   []*tennisx.Player
		setsToWin int
	}{
		{"zero sets", h.Bus, ps, 0},
		{"negative sets", h.Bus, ps, -2},
		{"nil bus", nil, ps, 2},
		{"no players", h.Bus, nil, 2},
		{"same player twice", h.Bus, []*tennisx.Player{ps[1], ps[1]}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tennisx.NewMatch(tt.bus, tt.players, tt.setsToWin)
			assert.ErrorIs(t, err, tennisx.ErrInvalidConfig)
		})
	}
}

func TestMatchBestOfThree(t *testing.T) {
	m := newIdleMatch(t, 2, tennisx.WithDrawer(testutil.Fixed(0)))
	assert.Equal(t, 2, m.SetsToWin())

	score(t, m, "ab")
	assert.Nil(t, m.Winner())
	assert.Len(t, m.Children(), 2)

	score(t, m, "a")
	assert.Equal(t, [2]int{2, 1}, points(m))
	assert.True(t, m.Finished())
	assert.Same(t, m.Scores()[0], m.Winner())
	assert.Len(t, m.Children(), 2)
	assert.ErrorIs(t, m.AddScore(m.Scores()[0]), tennisx.ErrFinished)
}

func TestMatchFirstServerIsDrawn(t *testing.T) {
	tests := []struct {
		draw int
		want int
	}{
		{draw: 3, want: 1},
		{draw: 4, want: 0},
		{draw: -7, want: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.draw), func(t *testing.T) {
			m := newIdleMatch(t, 3, tennisx.WithDrawer(testutil.Fixed(tt.draw)))
			m.Play()
			set := m.Current().(*tennisx.Set)
			assert.Equal(t, tt.want, set.FirstServer())
			assert.Equal(t, tt.want, m.Snapshot().Server)
		})
	}
}

func TestMatchNextSetServer(t *testing.T) {
	drawer := testutil.NewScript(3)
	m := newIdleMatch(t, 3, tennisx.WithDrawer(drawer))
	m.Play()
	first := m.Current().(*tennisx.Set)
	require.Equal(t, 1, first.FirstServer())

	// Two games into the first set, the second game was opened by player 0.
	score(t, first, "a")
	require.Equal(t, 0, first.LastServer())

	score(t, m, "a")
	second := m.Current().(*tennisx.Set)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, second.FirstServer(), "receiver of the last game serves next")
	assert.Equal(t, 1, drawer.Calls(), "only the first server is drawn")

	m.Play()
	assert.Same(t, second, m.Current(), "Play with a live set")
}

func TestMatchRun(t *testing.T) {
	b := eventbus.New()
	t.Cleanup(func() { b.Close() })
	h := &testutil.Harness{Bus: b}
	rec := &testutil.Recorder{}
	m, err := tennisx.NewMatch(b, h.Players(t, names, 100, 0), 2, tennisx.WithRecorder(rec))
	require.NoError(t, err)

	winner, err := m.Run(t.Context())
	require.NoError(t, err)
	assert.Same(t, m.Scores()[0], winner)
	assert.Equal(t, [2]int{2, 0}, points(m))
	assert.Len(t, rec.Finishes(tennisx.KindSet), 2)
	assert.Equal(t, []testutil.Finish{{Kind: tennisx.KindMatch, Player: "Ana", Score: 2}}, rec.Finishes(tennisx.KindMatch))
	assert.Zero(t, b.Len())

	again, err := m.Run(t.Context())
	require.NoError(t, err)
	assert.Same(t, winner, again)
}

func TestMatchRunTicked(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := eventbus.NewTicked(eventbus.TickedConfig{})
		b := eventbus.New(eventbus.WithDispatcher(d))
		h := &testutil.Harness{Bus: b}
		m, err := tennisx.NewMatch(b, h.Players(t, names, 0, 100), 1)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		go d.Run(ctx)

		winner, err := m.Run(ctx)
		require.NoError(t, err)
		assert.Same(t, m.Scores()[1], winner)
		assert.Zero(t, b.Len())
		require.NoError(t, b.Close())
	})
}

func TestMatchRunCanceled(t *testing.T) {
	m := newIdleMatch(t, 2)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	winner, err := m.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, winner)
	assert.False(t, m.Finished())
}

// checkTree walks a finished snapshot and checks the scoring rules at every
// level.
func checkTree(t *testing.T, snap tennisx.Snapshot, setsToWin int) {
	t.Helper()
	require.True(t, snap.Finished, "%s %s", snap.Kind, snap.ID)
	w := snap.WinnerIndex()
	require.GreaterOrEqual(t, w, 0)
	me, other := snap.Scores[w], snap.Scores[1-w]

	switch snap.Kind {
	case tennisx.KindMatch:
		assert.Equal(t, setsToWin, me)
		assert.Less(t, other, setsToWin)
		assert.Len(t, snap.Children, me+other)
	case tennisx.KindSet:
		assert.True(t, me == 7 || me == 6 && me-other >= 2, "set %d-%d", me, other)
		assert.Len(t, snap.Children, me+other)
		for k, c := range snap.Children {
			want := tennisx.KindGame
			if k == 12 {
				want = tennisx.KindTieBreak
			}
			assert.Equal(t, want, c.Kind, "game %d", k+1)
			if k > 0 && c.Kind == tennisx.KindGame {
				assert.NotEqual(t, snap.Children[k-1].Server, c.Server, "game %d server", k+1)
			}
		}
	case tennisx.KindGame:
		assert.Equal(t, tennisx.GameWon, me)
		assert.LessOrEqual(t, other, 40)
	case tennisx.KindTieBreak:
		assert.GreaterOrEqual(t, me, 7)
		assert.GreaterOrEqual(t, me-other, 2)
		assert.True(t, me == 7 || me-other == 2, "tie-break %d-%d", me, other)
	}

	for _, c := range snap.Children {
		checkTree(t, c, setsToWin)
	}
	if n := len(snap.Children); n > 0 {
		assert.Equal(t, snap.Winner, snap.Children[n-1].Winner, "last child decides %s", snap.Kind)
	}
}

func TestMatchSeeded(t *testing.T) {
	for seed := range uint64(4) {
		for _, h := range testutil.Harnesses(t) {
			t.Run(fmt.Sprintf("%s/seed=%d", h.Name, seed+1), func(t *testing.T) {
				a, err := tennisx.NewPlayer(h.Bus, "Ana", 72, random.New(seed+1))
				require.NoError(t, err)
				b, err := tennisx.NewPlayer(h.Bus, "Bea", 68, random.New(seed+100))
				require.NoError(t, err)

				m, err := tennisx.NewMatch(h.Bus, []*tennisx.Player{a, b}, 2, tennisx.WithDrawer(random.New(seed+1)))
				require.NoError(t, err)

				winner := h.Play(t, m)
				require.NotNil(t, winner)
				assert.Same(t, m.Winner(), winner)
				checkTree(t, m.Snapshot(), 2)
				assert.Zero(t, h.Bus.Len())
			})
		}
	}
}

func TestConcurrentMatchesShareBus(t *testing.T) {
	b := eventbus.New()
	t.Cleanup(func() { b.Close() })
	rec := &testutil.Recorder{}

	const n = 8
	var wg sync.WaitGroup
	winners := make([]*tennisx.Score, n)
	matches := make([]*tennisx.Match, n)
	for i := range n {
		a, err := tennisx.NewPlayer(b, fmt.Sprintf("A%d", i), 70, random.New(uint64(2*i+1)))
		require.NoError(t, err)
		c, err := tennisx.NewPlayer(b, fmt.Sprintf("B%d", i), 70, random.New(uint64(2*i+2)))
		require.NoError(t, err)
		m, err := tennisx.NewMatch(b, []*tennisx.Player{a, c}, 1, tennisx.WithRecorder(rec))
		require.NoError(t, err)
		matches[i] = m

		wg.Go(func() {
			winners[i], _ = m.Run(t.Context())
		})
	}
	wg.Wait()

	for i, m := range matches {
		require.NotNil(t, winners[i], "match %d", i)
		assert.Same(t, m.Winner(), winners[i])
		checkTree(t, m.Snapshot(), 1)
	}
	assert.Len(t, rec.Finishes(tennisx.KindMatch), n)
	assert.Zero(t, b.Len())
}

func TestMatchAddScoreRetiresLiveSet(t *testing.T) {
	h := testutil.NewTickedHarness(t)
	rec := &testutil.Recorder{}
	m, err := tennisx.NewMatch(h.Bus, h.Players(t, names, 100, 0), 2,
		tennisx.WithDrawer(testutil.Fixed(0)), tennisx.WithRecorder(rec))
	require.NoError(t, err)

	m.Play()
	first := m.Current().(*tennisx.Set)
	require.NoError(t, m.AddScore(m.Scores()[0]))

	_, idle := h.Ticked().RunUntilIdle(100_000)
	require.True(t, idle)
	assert.True(t, m.Finished())
	assert.Equal(t, [2]int{2, 0}, points(m))

	snap := first.Snapshot()
	assert.True(t, snap.Retired)
	assert.Equal(t, []int{0, 0}, snap.Scores)
	require.Len(t, snap.Children, 1)
	assert.True(t, snap.Children[0].Retired)
	assert.Equal(t, []int{0, 0}, snap.Children[0].Scores)

	assert.Len(t, rec.Points(), 24, "only the second set was played")
	assert.Len(t, rec.Finishes(tennisx.KindSet), 1)
	assert.Zero(t, h.Bus.Len())
}

func TestMatchRunAfterPlayedElsewhere(t *testing.T) {
	h := testutil.NewTickedHarness(t)
	m, err := tennisx.NewMatch(h.Bus, h.Players(t, names, 100, 0), 1)
	require.NoError(t, err)

	m.Play()
	_, idle := h.Ticked().RunUntilIdle(100_000)
	require.True(t, idle)
	require.True(t, m.Finished())

	winner, err := m.Run(t.Context())
	require.NoError(t, err)
	assert.Same(t, m.Scores()[0], winner)
	assert.Zero(t, h.Bus.Handlers(m, eventbus.KindOf[tennisx.UnitFinished]()))
	assert.Zero(t, h.Bus.Len())
}

func TestMatchSnapshotDuringPlay(t *testing.T) {
	b := eventbus.New()
	t.Cleanup(func() { b.Close() })
	a, err := tennisx.NewPlayer(b, "Ana", 70, random.New(7))
	require.NoError(t, err)
	c, err := tennisx.NewPlayer(b, "Bea", 70, random.New(8))
	require.NoError(t, err)
	m, err := tennisx.NewMatch(b, []*tennisx.Player{a, c}, 1)
	require.NoError(t, err)

	m.Play()
	// Snapshots read the records under each unit's lock while play goes on.
	require.Eventually(t, func() bool {
		return m.Snapshot().Finished
	}, 10*time.Second, time.Millisecond)
	checkTree(t, m.Snapshot(), 1)
}
