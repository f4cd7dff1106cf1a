package alloc

import "fmt"

// Allocate serves a payload of size bytes, returning a G-aligned payload
// offset. Returns ErrCapacityExceeded if size exceeds the allocator's cap,
// or ErrHeapExhausted if the provider cannot grow far enough.
func (a *Allocator) Allocate(size uint32) (uint32, error) {
	if a.bins == nil {
		return 0, ErrNotInitialized
	}
	if size > a.cfg.maxAllocSize() {
		return 0, ErrCapacityExceeded
	}

	allocSize := allocSizeFor(size, a.cfg)

	floorBin := binOf(allocSize, a.cfg.G)
	start := floorBin
	if a.loBin > start {
		start = a.loBin
	}

	for b := start; b <= a.hiBin; b++ {
		base, ok := a.searchBin(b, allocSize)
		if !ok {
			continue
		}
		ptr, err := a.serveFromFree(base, b, allocSize)
		if err != nil {
			return 0, err
		}
		a.stats.onAllocate(allocSize)
		debugf("allocate: size=%d alloc_size=%d served from bin %d at base %d -> %d", size, allocSize, b, base, ptr)
		return ptr, nil
	}

	ptr, err := a.growAtTail(allocSize)
	if err != nil {
		return 0, err
	}
	a.stats.onAllocate(allocSize)
	debugf("allocate: size=%d alloc_size=%d grew at tail -> %d", size, allocSize, ptr)
	return ptr, nil
}

// allocSizeFor computes alloc_size := max(MIN, align_up(size+2H, G)).
func allocSizeFor(size uint32, cfg Config) uint32 {
	needed := alignUp(size+2*headerSize, cfg.G)
	if needed < cfg.MinBlock {
		return cfg.MinBlock
	}
	return needed
}

// searchBin walks bin b's free list first-fit, returning the base of the
// first block whose size is at least allocSize.
func (a *Allocator) searchBin(b int, allocSize uint32) (uint32, bool) {
	base := a.bins[b]
	for base != nullLink {
		header, ok := readHeader(a.provider, base)
		if !ok {
			return 0, false
		}
		size := decodeSize(header, a.cfg.G)
		if size >= allocSize {
			return base, true
		}
		next, ok := readLinkNext(a.provider, base)
		if !ok {
			return 0, false
		}
		base = next
	}
	return 0, false
}

// serveFromFree implements §4.5 Serve-from-free: either hand the whole
// block out (leftover below SPLIT_THRESHOLD) or split it.
func (a *Allocator) serveFromFree(base uint32, b int, allocSize uint32) (uint32, error) {
	header, ok := readHeader(a.provider, base)
	if !ok {
		return 0, fmt.Errorf("%w: cannot read header at %d", ErrInvariantViolation, base)
	}
	size := decodeSize(header, a.cfg.G)
	leftover := size - allocSize

	if !a.removeFree(b, base) {
		return 0, fmt.Errorf("%w: cannot unlink free block at %d", ErrInvariantViolation, base)
	}

	if leftover <= a.cfg.SplitThreshold {
		if !writeTags(a.provider, base, size, a.cfg.G, false) {
			return 0, fmt.Errorf("%w: cannot stamp block at %d", ErrInvariantViolation, base)
		}
		a.markDirty(base, headerSize)
		a.markDirty(base+size-headerSize, headerSize)
		return base + headerSize, nil
	}

	servedBase := base
	leftoverBase := base + allocSize
	if !writeTags(a.provider, servedBase, allocSize, a.cfg.G, false) {
		return 0, fmt.Errorf("%w: cannot stamp served block at %d", ErrInvariantViolation, servedBase)
	}
	if !writeTags(a.provider, leftoverBase, leftover, a.cfg.G, true) {
		return 0, fmt.Errorf("%w: cannot stamp leftover block at %d", ErrInvariantViolation, leftoverBase)
	}
	a.markDirty(servedBase, headerSize)
	a.markDirty(servedBase+allocSize-headerSize, headerSize)
	a.markDirty(leftoverBase, headerSize)
	a.markDirty(leftoverBase+leftover-headerSize, headerSize)

	if !a.insertFree(binOf(leftover, a.cfg.G), leftoverBase) {
		return 0, fmt.Errorf("%w: cannot insert leftover block at %d", ErrInvariantViolation, leftoverBase)
	}
	return servedBase + headerSize, nil
}

// growAtTail implements §4.5 Grow-at-tail: a brand-new block served
// straight from the logical tail.
func (a *Allocator) growAtTail(allocSize uint32) (uint32, error) {
	base, err := a.tailGrow(allocSize)
	if err != nil {
		return 0, err
	}
	if !writeTags(a.provider, base, allocSize, a.cfg.G, false) {
		return 0, fmt.Errorf("%w: cannot stamp new block at %d", ErrInvariantViolation, base)
	}
	a.markDirty(base, headerSize)
	a.markDirty(base+allocSize-headerSize, headerSize)
	return base + headerSize, nil
}
