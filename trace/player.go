package trace

import (
	"fmt"

	"github.com/binalloc/binalloc/heap"
)

// Allocator is the narrow contract a Player replays a trace against. Both
// *alloc.Allocator and any reference/faulty allocator satisfy it.
type Allocator interface {
	Allocate(size uint32) (uint32, error)
	Free(ptr uint32) error
	Resize(ptr uint32, newSize uint32) (uint32, error)
	HeapLo() uint32
	HeapHi() uint32
}

// Player replays a trace against an Allocator, seeding and verifying
// payload watermark bytes and checking alignment, containment, and
// non-overlap after every ALLOC/REALLOC.
type Player struct {
	Allocator Allocator
	Provider  heap.Provider
	Alignment uint32 // external alignment constant; 0 defaults to 8

	live map[int]liveBlock
}

type liveBlock struct {
	ptr  uint32
	size uint32
}

// NewPlayer constructs a Player over alloc backed by provider for payload
// seeding/verification.
func NewPlayer(alloc Allocator, provider heap.Provider) *Player {
	return &Player{
		Allocator: alloc,
		Provider:  provider,
		Alignment: 8,
		live:      make(map[int]liveBlock),
	}
}

// Run replays ops in order, stopping at the first violated property.
func (p *Player) Run(ops []Op) error {
	for i, op := range ops {
		if err := p.step(i, op); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) step(i int, op Op) error {
	switch op.Kind {
	case OpAlloc:
		return p.doAlloc(i, op)
	case OpRealloc:
		return p.doRealloc(i, op)
	case OpFree:
		return p.doFree(i, op)
	case OpWrite:
		return nil
	default:
		return &ValidationError{Property: "op-kind", OpIndex: i, Message: fmt.Sprintf("unknown op kind %v", op.Kind)}
	}
}

func (p *Player) doAlloc(i int, op Op) error {
	ptr, err := p.Allocator.Allocate(op.Size)
	if err != nil {
		return fmt.Errorf("op #%d ALLOC(%d): %w", i, op.Size, err)
	}
	p.live[op.Index] = liveBlock{ptr: ptr, size: op.Size}
	p.seed(ptr, op.Size)
	return p.checkProperties(i, op.Index, ptr, op.Size)
}

func (p *Player) doRealloc(i int, op Op) error {
	old, ok := p.live[op.Index]
	if !ok {
		return &ValidationError{Property: "trace-contract", OpIndex: i, Message: fmt.Sprintf("REALLOC of unknown index %d", op.Index)}
	}

	overlap := old.size
	if op.Size < overlap {
		overlap = op.Size
	}
	before, beforeOK := p.Provider.ReadAt(old.ptr, overlap)

	newPtr, err := p.Allocator.Resize(old.ptr, op.Size)
	if err != nil {
		return fmt.Errorf("op #%d REALLOC(%d): %w", i, op.Size, err)
	}

	if beforeOK {
		after, ok := p.Provider.ReadAt(newPtr, overlap)
		if !ok || !bytesEqual(before, after) {
			return &ValidationError{Property: "resize-preserves-payload", OpIndex: i, Address: newPtr, Message: "payload bytes did not survive resize"}
		}
	}

	p.live[op.Index] = liveBlock{ptr: newPtr, size: op.Size}
	p.seed(newPtr, op.Size)
	return p.checkProperties(i, op.Index, newPtr, op.Size)
}

func (p *Player) doFree(i int, op Op) error {
	block, ok := p.live[op.Index]
	if !ok {
		return &ValidationError{Property: "trace-contract", OpIndex: i, Message: fmt.Sprintf("FREE of unknown index %d", op.Index)}
	}
	if err := p.Allocator.Free(block.ptr); err != nil {
		return fmt.Errorf("op #%d FREE: %w", i, err)
	}
	delete(p.live, op.Index)
	return nil
}

// seed writes a pattern derived from ptr into the payload so a later
// REALLOC can verify copy fidelity.
func (p *Player) seed(ptr, size uint32) {
	pattern := make([]byte, size)
	for i := range pattern {
		pattern[i] = byte(ptr + uint32(i))
	}
	p.Provider.WriteAt(ptr, pattern)
}

func (p *Player) checkProperties(i int, selfIndex int, ptr, size uint32) error {
	alignment := p.Alignment
	if alignment == 0 {
		alignment = 8
	}
	if ptr%alignment != 0 {
		return &ValidationError{Property: "alignment", OpIndex: i, Address: ptr, Message: fmt.Sprintf("not a multiple of %d", alignment)}
	}

	lo, hi := p.Allocator.HeapLo(), p.Allocator.HeapHi()
	if size > 0 {
		end := ptr + size - 1
		if ptr < lo || end > hi {
			return &ValidationError{Property: "containment", OpIndex: i, Address: ptr, Message: fmt.Sprintf("range [%d,%d] escapes heap [%d,%d]", ptr, end, lo, hi)}
		}
	}

	for idx, other := range p.live {
		if idx == selfIndex {
			continue
		}
		if rangesOverlap(ptr, size, other.ptr, other.size) {
			return &ValidationError{Property: "non-overlap", OpIndex: i, Address: ptr, Message: fmt.Sprintf("overlaps live block at index %d (addr %d)", idx, other.ptr)}
		}
	}
	return nil
}

func rangesOverlap(aPtr, aSize, bPtr, bSize uint32) bool {
	if aSize == 0 || bSize == 0 {
		return false
	}
	aEnd := aPtr + aSize
	bEnd := bPtr + bSize
	return aPtr < bEnd && bPtr < aEnd
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
