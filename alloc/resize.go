package alloc

import "fmt"

// Resize changes the payload size addressable through ptr, returning the
// (possibly new) payload offset. A ptr of 0 behaves like Allocate(size).
func (a *Allocator) Resize(ptr uint32, size uint32) (uint32, error) {
	if ptr == 0 {
		return a.Allocate(size)
	}

	b := ptr - headerSize
	header, ok := readHeader(a.provider, b)
	if !ok {
		return 0, fmt.Errorf("%w: resize of unreadable pointer %d", ErrContractViolation, ptr)
	}
	oldTotal := decodeSize(header, a.cfg.G)

	// new_size uses +H, not +2H, per the source's resize accounting —
	// intentionally asymmetric with Allocate's allocSizeFor; see the Open
	// Question decisions.
	newSize := alignUp(size+headerSize, a.cfg.G)

	if newSize <= oldTotal {
		debugf("resize: ptr=%d shrink/no-op old=%d new=%d", ptr, oldTotal, newSize)
		return ptr, nil
	}

	if b+oldTotal == a.tail {
		delta := newSize - oldTotal
		if _, err := a.tailGrow(delta); err != nil {
			return 0, err
		}
		if !writeTags(a.provider, b, newSize, a.cfg.G, false) {
			return 0, fmt.Errorf("%w: cannot stamp extended block at %d", ErrInvariantViolation, b)
		}
		a.markDirty(b, headerSize)
		a.markDirty(b+newSize-headerSize, headerSize)
		debugf("resize: ptr=%d extended in place old=%d new=%d", ptr, oldTotal, newSize)
		return ptr, nil
	}

	newPtr, err := a.Allocate(size)
	if err != nil {
		return 0, err
	}
	// A block's payload capacity is oldTotal-2H (header and footer both
	// bound it); copy that capacity, or size bytes if size is smaller.
	copyLen := oldTotal - 2*headerSize
	if size < copyLen {
		copyLen = size
	}
	payload, ok := a.provider.ReadAt(ptr, copyLen)
	if !ok {
		return 0, fmt.Errorf("%w: cannot read payload at %d", ErrInvariantViolation, ptr)
	}
	if !a.provider.WriteAt(newPtr, payload) {
		return 0, fmt.Errorf("%w: cannot copy payload to %d", ErrInvariantViolation, newPtr)
	}
	a.markDirty(newPtr, uint32(len(payload)))
	if err := a.Free(ptr); err != nil {
		return 0, err
	}
	debugf("resize: ptr=%d copied to %d old=%d new=%d", ptr, newPtr, oldTotal, newSize)
	return newPtr, nil
}
