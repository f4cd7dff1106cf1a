package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binalloc/binalloc/alloc"
	"github.com/binalloc/binalloc/faultalloc"
	"github.com/binalloc/binalloc/heap"
	"github.com/binalloc/binalloc/trace"
)

func newGoodPlayer(t *testing.T) (*trace.Player, *alloc.Allocator) {
	t.Helper()
	p := heap.NewMemory(0)
	a := alloc.NewAllocator(p, nil, alloc.DefaultConfig)
	require.NoError(t, a.Init())
	return trace.NewPlayer(a, p), a
}

func TestPlayer_RunAgainstGoodAllocator(t *testing.T) {
	player, a := newGoodPlayer(t)

	ops := []trace.Op{
		{Kind: trace.OpAlloc, Index: 0, Size: 64},
		{Kind: trace.OpAlloc, Index: 1, Size: 128},
		{Kind: trace.OpRealloc, Index: 0, Size: 256},
		{Kind: trace.OpWrite, Index: 0},
		{Kind: trace.OpFree, Index: 1},
		{Kind: trace.OpFree, Index: 0},
	}
	require.NoError(t, player.Run(ops))
	require.NoError(t, a.Check())
}

func TestPlayer_DetectsFixedSizeFault(t *testing.T) {
	p := heap.NewMemory(0)
	require.NoError(t, p.Init())
	fa := faultalloc.New(p, faultalloc.FixedSize)
	player := trace.NewPlayer(fa, p)

	// A write of 200 bytes into a block the faulty allocator only sized at
	// 32 collides with the next allocation's containment check once that
	// next block is smaller than expected... instead we catch it directly:
	// seeding/verifying 200 bytes past a 32-byte grow trips containment.
	err := player.Run([]trace.Op{
		{Kind: trace.OpAlloc, Index: 0, Size: 200},
	})
	var verr *trace.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "containment", verr.Property)
}

func TestPlayer_DetectsOverlapFault(t *testing.T) {
	p := heap.NewMemory(0)
	require.NoError(t, p.Init())
	fa := faultalloc.New(p, faultalloc.Overlap)
	player := trace.NewPlayer(fa, p)

	err := player.Run([]trace.Op{
		{Kind: trace.OpAlloc, Index: 0, Size: 32},
		{Kind: trace.OpAlloc, Index: 1, Size: 32},
	})
	var verr *trace.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "non-overlap", verr.Property)
}

func TestPlayer_DetectsUnalignedFault(t *testing.T) {
	p := heap.NewMemory(0)
	require.NoError(t, p.Init())
	fa := faultalloc.New(p, faultalloc.Unaligned)
	player := trace.NewPlayer(fa, p)

	err := player.Run([]trace.Op{
		{Kind: trace.OpAlloc, Index: 0, Size: 3},
		{Kind: trace.OpAlloc, Index: 1, Size: 5},
	})
	var verr *trace.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "alignment", verr.Property)
}
