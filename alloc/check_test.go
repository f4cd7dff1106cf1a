package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck_PassesOnFreshHeap(t *testing.T) {
	a := newTestAllocator(t)
	require.NoError(t, a.Check())
}

func TestCheck_DetectsHeaderFooterMismatch(t *testing.T) {
	a := newTestAllocator(t)
	ptr, err := a.Allocate(100)
	require.NoError(t, err)

	// Corrupt the footer so it disagrees with the header.
	b := ptr - headerSize
	header, ok := readHeader(a.provider, b)
	require.True(t, ok)
	size := decodeSize(header, a.cfg.G)
	require.True(t, a.provider.WriteU32(b+size-headerSize, header+1))

	err = a.Check()
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestCheck_DetectsMismatchedBinBounds(t *testing.T) {
	a := newTestAllocator(t)
	ptr, err := a.Allocate(100)
	require.NoError(t, err)
	_, err = a.Allocate(8)
	require.NoError(t, err)
	require.NoError(t, a.Free(ptr))
	require.NoError(t, a.Check())

	a.hiBin = a.hiBin + 1
	require.ErrorIs(t, a.Check(), ErrInvariantViolation)
}
