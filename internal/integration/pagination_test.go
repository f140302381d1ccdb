package integration

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPager(src Source) *Pager {
	return NewPager(src, clockwork.NewRealClock(), testPagerOpts(), zerolog.Nop())
}

func TestPagerHasNext(t *testing.T) {
	src := &fakeSource{pages: [][]Row{{}, {}}}
	p := newTestPager(src)
	assert.Equal(t, StateReady, p.State())

	ok, err := p.HasNext(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StateReady, p.State())

	src.cur = 1
	ok, err = p.HasNext(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StateDone, p.State(), "a missing next control terminates pagination")
}

func TestPagerAdvance(t *testing.T) {
	src := &fakeSource{pages: [][]Row{{}, {}}}
	p := newTestPager(src)

	require.NoError(t, p.Advance(context.Background()))
	assert.Equal(t, StateReady, p.State())
	assert.Equal(t, 1, src.cur)
	assert.Equal(t, 1, src.nextClicks)
}

func TestPagerAdvanceStall(t *testing.T) {
	src := &fakeSource{pages: [][]Row{{}, {}}, stall: true}
	p := newTestPager(src)

	err := p.Advance(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaginationStalled)
	assert.Equal(t, StateStalled, p.State())
}

func TestPagerAdvanceCancelled(t *testing.T) {
	src := &fakeSource{pages: [][]Row{{}, {}}, stall: true}
	p := newTestPager(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Advance(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageStateString(t *testing.T) {
	assert.Equal(t, "READY", StateReady.String())
	assert.Equal(t, "AWAITING_ADVANCE", StateAwaitingAdvance.String())
	assert.Equal(t, "DONE", StateDone.String())
	assert.Equal(t, "STALLED", StateStalled.String())
}
