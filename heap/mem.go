package heap

import (
	"github.com/binalloc/binalloc/internal/buf"
	"github.com/binalloc/binalloc/internal/format"
)

// Memory is a slice-backed Provider. It is the substitute implementation
// the allocator's own tests run against; it never touches the OS.
type Memory struct {
	buf     []byte
	maxSize uint32
}

// NewMemory returns a Memory provider that refuses to grow past maxSize
// bytes. A maxSize of 0 means unbounded.
func NewMemory(maxSize uint32) *Memory {
	return &Memory{maxSize: maxSize}
}

func (m *Memory) Init() error {
	m.buf = m.buf[:0]
	return nil
}

func (m *Memory) Grow(n uint32) (uint32, error) {
	cur := uint32(len(m.buf))
	next := cur + n
	if next < cur {
		return 0, ErrCapacity
	}
	if m.maxSize != 0 && next > m.maxSize {
		return 0, ErrCapacity
	}
	m.buf = append(m.buf, make([]byte, n)...)
	return cur, nil
}

func (m *Memory) Reset() error {
	m.buf = nil
	return nil
}

func (m *Memory) Lo() uint32 { return 0 }

func (m *Memory) Hi() uint32 {
	if len(m.buf) == 0 {
		return 0
	}
	return uint32(len(m.buf)) - 1
}

func (m *Memory) Size() uint32 { return uint32(len(m.buf)) }

func (m *Memory) ReadU32(off uint32) (uint32, bool) {
	if !buf.Has(m.buf, int(off), 4) {
		return 0, false
	}
	return format.ReadU32(m.buf, int(off)), true
}

func (m *Memory) WriteU32(off uint32, v uint32) bool {
	if !buf.Has(m.buf, int(off), 4) {
		return false
	}
	format.PutU32(m.buf, int(off), v)
	return true
}

func (m *Memory) ReadAt(off uint32, byteCount uint32) ([]byte, bool) {
	s, ok := buf.Slice(m.buf, int(off), int(byteCount))
	if !ok {
		return nil, false
	}
	p := make([]byte, byteCount)
	copy(p, s)
	return p, true
}

func (m *Memory) WriteAt(off uint32, p []byte) bool {
	if !buf.Has(m.buf, int(off), len(p)) {
		return false
	}
	copy(m.buf[off:], p)
	return true
}
