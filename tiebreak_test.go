package tennisx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tennisx"
	"github.com/comalice/tennisx/testutil"
)

func newIdleTieBreak(t *testing.T, server int) *tennisx.TieBreak {
	t.Helper()
	h := testutil.NewTickedHarness(t)
	tb, err := tennisx.NewTieBreak(h.Bus, h.Players(t, names, 50, 50), server)
	require.NoError(t, err)
	return tb
}

func TestTieBreakServerAlternates(t *testing.T) {
	tb := newIdleTieBreak(t, 1)
	assert.Equal(t, 1, tb.Server())

	want := 1
	for i, c := range "abbaabab" {
		score(t, tb, string(c))
		want = 1 - want
		assert.Equal(t, want, tb.Server(), "after point %d", i+1)
	}
	assert.Equal(t, 1, tb.FirstServer())
	assert.Equal(t, [2]int{4, 4}, points(tb))
}

func TestTieBreakNeedsTwoPointLead(t *testing.T) {
	tb := newIdleTieBreak(t, 0)

	score(t, tb, "aaaaaabbbbbb")
	assert.Equal(t, [2]int{6, 6}, points(tb))

	score(t, tb, "a")
	assert.Nil(t, tb.Winner(), "7-6 is not a win")
	score(t, tb, "b")
	assert.Nil(t, tb.Winner(), "7-7 is not a win")
	score(t, tb, "bb")
	assert.Equal(t, [2]int{7, 9}, points(tb))
	assert.True(t, tb.Finished())
	assert.Same(t, tb.Scores()[1], tb.Winner())

	server := tb.Server()
	assert.ErrorIs(t, tb.AddScore(tb.Scores()[0]), tennisx.ErrFinished)
	assert.Equal(t, server, tb.Server(), "finished tie-break changed server")
}

func TestTieBreakWinsAtSeven(t *testing.T) {
	tb := newIdleTieBreak(t, 0)
	score(t, tb, "aaaaabbbbb")
	score(t, tb, "a")
	assert.Nil(t, tb.Winner(), "6-5 is not a win")
	score(t, tb, "a")
	assert.Equal(t, [2]int{7, 5}, points(tb))
	assert.Same(t, tb.Scores()[0], tb.Winner())
}

func TestTieBreakToZero(t *testing.T) {
	for _, h := range testutil.Harnesses(t) {
		t.Run(h.Name, func(t *testing.T) {
			rec := &testutil.Recorder{}
			tb, err := tennisx.NewTieBreak(h.Bus, h.Players(t, names, 100, 0), 0, tennisx.WithRecorder(rec))
			require.NoError(t, err)

			winner := h.Play(t, tb)
			assert.Same(t, tb.Scores()[0], winner)
			assert.Equal(t, [2]int{7, 0}, points(tb))
			assert.Len(t, rec.Points(), 7)
			assert.Equal(t, []testutil.Finish{{Kind: tennisx.KindTieBreak, Player: "Ana", Score: 7}}, rec.Finishes())
			assert.Zero(t, h.Bus.Len())
		})
	}
}

func TestNewTieBreakValidation(t *testing.T) {
	h := testutil.NewTickedHarness(t)
	ps := h.Players(t, names, 50, 50)

	_, err := tennisx.NewTieBreak(h.Bus, ps, -1)
	assert.ErrorIs(t, err, tennisx.ErrInvalidConfig)
	_, err = tennisx.NewTieBreak(h.Bus, ps[:1], 0)
	assert.ErrorIs(t, err, tennisx.ErrInvalidConfig)
}
