package alloc

import "fmt"

// Free returns the block backing ptr to the free list (or to the tail
// cursor, or absorbs it into a coalesced neighbor). Undefined if ptr was
// not returned by a prior Allocate/Resize or has already been freed.
// Free detects a pointer below the first payload or whose block would start
// at or past the tail, and a block whose header already carries the free
// flag: with Config.Debug set these panic with ErrContractViolation,
// otherwise Free returns nil without effect. Other misuse (a block already
// merged into a free left neighbor, a pointer into the middle of a payload)
// is not detected.
func (a *Allocator) Free(ptr uint32) error {
	if ptr == 0 || ptr < a.provider.Lo()+headerSize || ptr-headerSize >= a.tail {
		if a.cfg.Debug {
			panic(fmt.Errorf("%w: free of out-of-range pointer %d", ErrContractViolation, ptr))
		}
		return nil
	}

	b := ptr - headerSize
	header, ok := readHeader(a.provider, b)
	if !ok {
		if a.cfg.Debug {
			panic(fmt.Errorf("%w: free of unreadable pointer %d", ErrContractViolation, ptr))
		}
		return nil
	}
	if decodeFree(header) {
		if a.cfg.Debug {
			panic(fmt.Errorf("%w: double free at %d", ErrContractViolation, ptr))
		}
		return nil
	}
	size := decodeSize(header, a.cfg.G)
	blockSize := size

	// Coalesce-left. The check b > provider.Lo() keeps the footer read at
	// b-H inside the region. For the first block that read lands on the
	// sentinel word Init placed at provider.Lo(); Init never writes it, so
	// its free bit reads as clear and no left neighbor is found.
	if b > a.provider.Lo() {
		if prevFooter, ok := a.provider.ReadU32(b - headerSize); ok && decodeFree(prevFooter) {
			sPrev := decodeSize(prevFooter, a.cfg.G)
			bPrev := b - sPrev
			a.removeFree(binOf(sPrev, a.cfg.G), bPrev)
			b = bPrev
			size += sPrev
		}
	}

	// Return-to-tail.
	if b+size == a.tail {
		a.tail = b
		a.stats.onFree(blockSize)
		debugf("free: ptr=%d returned to tail, new tail=%d", ptr, a.tail)
		return nil
	}

	// Coalesce-right.
	bNext := b + size
	if bNext < a.tail {
		if nextHeader, ok := readHeader(a.provider, bNext); ok && decodeFree(nextHeader) {
			sNext := decodeSize(nextHeader, a.cfg.G)
			a.removeFree(binOf(sNext, a.cfg.G), bNext)
			size += sNext
		}
	}

	if !writeTags(a.provider, b, size, a.cfg.G, true) {
		return fmt.Errorf("%w: cannot stamp freed block at %d", ErrInvariantViolation, b)
	}
	a.markDirty(b, headerSize)
	a.markDirty(b+size-headerSize, headerSize)
	if !a.insertFree(binOf(size, a.cfg.G), b) {
		return fmt.Errorf("%w: cannot insert freed block at %d", ErrInvariantViolation, b)
	}
	a.stats.onFree(blockSize)
	debugf("free: ptr=%d coalesced size=%d inserted into bin %d", ptr, size, binOf(size, a.cfg.G))
	return nil
}
