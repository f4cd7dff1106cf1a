package alloc

// Stats summarizes an allocator's activity since Init. It is a diagnostic
// surface, not part of the allocate/free/resize contract.
type Stats struct {
	LiveBlocks int
	BytesInUse uint64
	AllocCount uint64
	FreeCount  uint64
	BytesFreed uint64
}

func (s *Stats) onAllocate(sizeBytes uint32) {
	s.LiveBlocks++
	s.BytesInUse += uint64(sizeBytes)
	s.AllocCount++
}

func (s *Stats) onFree(sizeBytes uint32) {
	s.LiveBlocks--
	if uint64(sizeBytes) <= s.BytesInUse {
		s.BytesInUse -= uint64(sizeBytes)
	}
	s.FreeCount++
	s.BytesFreed += uint64(sizeBytes)
}

// Stats returns a snapshot of the allocator's activity counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// BinOccupancy returns, for each bin, the number of free blocks currently
// linked into it. Intended for tests and debugging, not the hot path.
func (a *Allocator) BinOccupancy() []int {
	occupancy := make([]int, len(a.bins))
	for b, head := range a.bins {
		base := head
		for base != nullLink {
			occupancy[b]++
			next, ok := readLinkNext(a.provider, base)
			if !ok {
				break
			}
			base = next
		}
	}
	return occupancy
}
