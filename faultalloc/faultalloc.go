// Package faultalloc implements the reference "bad" allocator named in the
// allocator's external interfaces, used solely to exercise the validator's
// fault-detection code paths.
package faultalloc

import "github.com/binalloc/binalloc/heap"

// Fault selects which way Allocator misbehaves.
type Fault int

const (
	// FixedSize overwrites the caller's requested size with a fixed
	// constant, so requests for more than fixedSize bytes silently get
	// too little room.
	FixedSize Fault = iota
	// Overlap returns the same previously allocated pointer on every
	// call, producing overlapping live blocks.
	Overlap
	// Unaligned skips alignment rounding entirely.
	Unaligned
)

const fixedSize = 32

// Allocator is deliberately broken in one selectable way. Its Free is a
// no-op; its Resize always allocates fresh without copying. Its only
// contract is that a correct validator must diagnose the fault it was
// built with.
type Allocator struct {
	provider heap.Provider
	fault    Fault
	next     uint32
	lastPtr  uint32
	hasLast  bool
}

// New constructs a faulty allocator over provider, already Init'd by the
// caller (provider.Grow is used directly; there is no block structure to
// initialize).
func New(provider heap.Provider, fault Fault) *Allocator {
	return &Allocator{provider: provider, fault: fault}
}

// Allocate misbehaves according to the configured Fault.
func (a *Allocator) Allocate(size uint32) (uint32, error) {
	switch a.fault {
	case Overlap:
		if a.hasLast {
			return a.lastPtr, nil
		}
	case FixedSize:
		size = fixedSize
	case Unaligned:
		// fall through without rounding
	}

	alignedSize := size
	if a.fault != Unaligned {
		alignedSize = alignUp(size, 8)
	}

	base, err := a.provider.Grow(alignedSize)
	if err != nil {
		return 0, err
	}
	a.lastPtr = base
	a.hasLast = true
	return base, nil
}

// Free is a no-op: the fault allocator never reclaims space.
func (a *Allocator) Free(ptr uint32) error {
	return nil
}

// Resize always allocates fresh and never copies the old payload.
func (a *Allocator) Resize(ptr uint32, newSize uint32) (uint32, error) {
	return a.Allocate(newSize)
}

// HeapLo forwards to the provider.
func (a *Allocator) HeapLo() uint32 { return a.provider.Lo() }

// HeapHi forwards to the provider.
func (a *Allocator) HeapHi() uint32 { return a.provider.Hi() }

func alignUp(n, align uint32) uint32 {
	mask := align - 1
	return (n + mask) &^ mask
}
