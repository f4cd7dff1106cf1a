//go:build unix

package heap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/binalloc/binalloc/internal/buf"
	"github.com/binalloc/binalloc/internal/format"
)

// logMapped gates diagnostic output behind the BINALLOC_LOG environment
// variable.
var logMapped = os.Getenv("BINALLOC_LOG") != ""

func debugMapped(format string, args ...any) {
	if !logMapped {
		return
	}
	fmt.Fprintf(os.Stderr, "[heap.Mapped] "+format+"\n", args...)
}

// Mapped is a Provider backed by a real growable memory mapping over an
// anonymous temp file. Growth truncates the file and remaps it, mirroring
// the grow-by-remap pattern used to extend a memory-mapped file in place.
type Mapped struct {
	f    *os.File
	data []byte
}

// NewMapped creates a Provider backed by a temp file that is removed as
// soon as it is opened; the mapping keeps the storage alive.
func NewMapped() (*Mapped, error) {
	f, err := os.CreateTemp("", "binalloc-heap-*")
	if err != nil {
		return nil, err
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, err
	}
	return &Mapped{f: f}, nil
}

func (m *Mapped) Init() error {
	if len(m.data) > 0 {
		if err := unix.Munmap(m.data); err != nil {
			return err
		}
		m.data = nil
	}
	return m.f.Truncate(0)
}

func (m *Mapped) Grow(n uint32) (uint32, error) {
	if n == 0 {
		return uint32(len(m.data)), nil
	}
	oldSize := int64(len(m.data))
	newSize := oldSize + int64(n)
	if newSize > 0x7FFFFFFF {
		return 0, ErrCapacity
	}

	if len(m.data) > 0 {
		if err := unix.Munmap(m.data); err != nil {
			return 0, err
		}
		m.data = nil
	}
	if err := m.f.Truncate(newSize); err != nil {
		return 0, err
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		// Best effort: fall back to the old size so the provider stays usable.
		if remapErr := m.remapOldSize(oldSize); remapErr != nil {
			debugMapped("remap to old size failed after grow failure: %v", remapErr)
		}
		return 0, err
	}
	m.data = data
	debugMapped("grew from %d to %d bytes", oldSize, newSize)
	return uint32(oldSize), nil
}

func (m *Mapped) remapOldSize(oldSize int64) error {
	if oldSize == 0 {
		return nil
	}
	data, err := unix.Mmap(int(m.f.Fd()), 0, int(oldSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *Mapped) Reset() error {
	return m.Init()
}

func (m *Mapped) Lo() uint32 { return 0 }

func (m *Mapped) Hi() uint32 {
	if len(m.data) == 0 {
		return 0
	}
	return uint32(len(m.data)) - 1
}

func (m *Mapped) Size() uint32 { return uint32(len(m.data)) }

func (m *Mapped) ReadU32(off uint32) (uint32, bool) {
	if !buf.Has(m.data, int(off), 4) {
		return 0, false
	}
	return format.ReadU32(m.data, int(off)), true
}

func (m *Mapped) WriteU32(off uint32, v uint32) bool {
	if !buf.Has(m.data, int(off), 4) {
		return false
	}
	format.PutU32(m.data, int(off), v)
	return true
}

func (m *Mapped) ReadAt(off uint32, byteCount uint32) ([]byte, bool) {
	s, ok := buf.Slice(m.data, int(off), int(byteCount))
	if !ok {
		return nil, false
	}
	p := make([]byte, byteCount)
	copy(p, s)
	return p, true
}

func (m *Mapped) WriteAt(off uint32, p []byte) bool {
	if !buf.Has(m.data, int(off), len(p)) {
		return false
	}
	copy(m.data[off:], p)
	return true
}

// SyncRange flushes [off, off+length) to the backing file via msync. It
// satisfies the optional dirty.Syncer interface; callers that don't need
// durability can ignore it entirely.
func (m *Mapped) SyncRange(off, length uint32) error {
	s, ok := buf.Slice(m.data, int(off), int(length))
	if !ok {
		return nil
	}
	return unix.Msync(s, unix.MS_SYNC)
}

// Close unmaps the region and releases the backing file descriptor.
func (m *Mapped) Close() error {
	if len(m.data) > 0 {
		if err := unix.Munmap(m.data); err != nil {
			return err
		}
		m.data = nil
	}
	return m.f.Close()
}
