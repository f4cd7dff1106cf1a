//go:build unix

package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapped_GrowAndReadWrite(t *testing.T) {
	m, err := NewMapped()
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Init())

	off, err := m.Grow(64)
	require.NoError(t, err)
	require.Equal(t, uint32(0), off)
	require.Equal(t, uint32(64), m.Size())

	require.True(t, m.WriteU32(0, 42))
	v, ok := m.ReadU32(0)
	require.True(t, ok)
	require.Equal(t, uint32(42), v)
}

func TestMapped_GrowPreservesExistingData(t *testing.T) {
	m, err := NewMapped()
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Init())

	_, err = m.Grow(16)
	require.NoError(t, err)
	require.True(t, m.WriteU32(0, 0xABCD))

	_, err = m.Grow(16)
	require.NoError(t, err)

	v, ok := m.ReadU32(0)
	require.True(t, ok)
	require.Equal(t, uint32(0xABCD), v)
}

func TestMapped_SyncRange(t *testing.T) {
	m, err := NewMapped()
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Init())

	_, err = m.Grow(16)
	require.NoError(t, err)
	require.NoError(t, m.SyncRange(0, 16))
}
