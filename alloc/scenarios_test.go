package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenario_TinyAllocateFreeReallocate covers §8 scenario 1.
func TestScenario_TinyAllocateFreeReallocate(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Allocate(1)
	require.NoError(t, err)
	require.Zero(t, p%a.cfg.G)

	header, ok := readHeader(a.provider, p-headerSize)
	require.True(t, ok)
	require.Equal(t, uint32(24), decodeSize(header, a.cfg.G))

	sizeAfterFirst := a.provider.Size()
	require.NoError(t, a.Free(p))

	p2, err := a.Allocate(1)
	require.NoError(t, err)
	require.NotZero(t, p2)

	require.Equal(t, sizeAfterFirst, a.provider.Size())
}

// TestScenario_SplitBehavior covers §8 scenario 2.
func TestScenario_SplitBehavior(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Allocate(800)
	require.NoError(t, err)
	_, err = a.Allocate(8) // anchor so freeing p doesn't just retract the tail
	require.NoError(t, err)
	require.NoError(t, a.Free(p))

	base := p - headerSize
	header, ok := readHeader(a.provider, base)
	require.True(t, ok)
	freeSize := decodeSize(header, a.cfg.G)
	require.Equal(t, uint32(808), freeSize)
	require.Equal(t, 6, binOf(freeSize, a.cfg.G))
	require.Equal(t, base, a.bins[6])

	servedPtr, err := a.Allocate(16)
	require.NoError(t, err)
	require.Equal(t, base+headerSize, servedPtr)

	leftoverBase := base + 24
	leftoverHeader, ok := readHeader(a.provider, leftoverBase)
	require.True(t, ok)
	require.True(t, decodeFree(leftoverHeader))
	require.Equal(t, uint32(784), decodeSize(leftoverHeader, a.cfg.G))
	require.Equal(t, 6, binOf(784, a.cfg.G))
	require.Equal(t, leftoverBase, a.bins[6])

	leftoverFooter, ok := readFooter(a.provider, leftoverBase, 784)
	require.True(t, ok)
	require.Equal(t, leftoverHeader, leftoverFooter)
}

// TestScenario_NoSplitBelowThreshold covers §8 scenario 3.
func TestScenario_NoSplitBelowThreshold(t *testing.T) {
	a := newTestAllocator(t)

	pa, err := a.Allocate(48) // alloc_size 56
	require.NoError(t, err)
	_, err = a.Allocate(8) // keeps pa from sitting flush against tail once freed
	require.NoError(t, err)
	require.NoError(t, a.Free(pa))

	base := pa - headerSize
	header, ok := readHeader(a.provider, base)
	require.True(t, ok)
	require.Equal(t, uint32(56), decodeSize(header, a.cfg.G))

	served, err := a.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, base+headerSize, served)

	servedHeader, ok := readHeader(a.provider, base)
	require.True(t, ok)
	require.Equal(t, uint32(56), decodeSize(servedHeader, a.cfg.G), "leftover below SPLIT_THRESHOLD must not be split off")
	require.False(t, decodeFree(servedHeader))
}

// TestScenario_RightCoalesceAndTailRetraction covers §8 scenario 4.
func TestScenario_RightCoalesceAndTailRetraction(t *testing.T) {
	a := newTestAllocator(t)
	initialTail := a.tail

	pa, err := a.Allocate(100)
	require.NoError(t, err)
	pb, err := a.Allocate(100)
	require.NoError(t, err)
	pc, err := a.Allocate(100)
	require.NoError(t, err)

	require.NoError(t, a.Free(pb))
	require.NoError(t, a.Free(pc))
	require.NoError(t, a.Free(pa))

	require.Equal(t, initialTail, a.tail, "all three blocks should coalesce and retract the tail back to its initial offset")
	require.Equal(t, -1, a.hiBin)
	require.Equal(t, a.cfg.Bins, a.loBin)
	require.NoError(t, a.Check())
}
