package dirty

import "sort"

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges,
	// chosen to avoid reallocation during a typical burst of allocator
	// operations before the next flush.
	defaultRangeCapacity = 64

	// defaultAlignment coalesced ranges are rounded to, matching the
	// granularity the allocator itself writes in.
	defaultAlignment = 8
)

// Range is a dirty byte range expressed as offsets into a heap.Provider's
// region.
type Range struct {
	Off int64
	Len int64
}

// Ledger accumulates dirty ranges reported by Add and flushes them, via an
// optional Syncer, in coalesced form.
//
// NOT thread-safe. Only one goroutine should use a Ledger at a time,
// matching the allocator it instruments.
type Ledger struct {
	syncer    Syncer
	ranges    []Range
	alignment int64
}

// NewLedger creates a dirty-range ledger. syncer may be nil, in which case
// Flush simply clears the tracked ranges without performing I/O — useful
// when instrumenting a provider that has nothing durable to flush to.
func NewLedger(syncer Syncer) *Ledger {
	return &Ledger{
		syncer:    syncer,
		ranges:    make([]Range, 0, defaultRangeCapacity),
		alignment: defaultAlignment,
	}
}

// Add records a dirty range. Very fast: it only appends to a slice.
func (l *Ledger) Add(off, length int) {
	l.ranges = append(l.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Flush coalesces all dirty ranges and, if a Syncer was configured, asks it
// to flush each one. The tracked ranges are cleared regardless of whether a
// Syncer is present.
func (l *Ledger) Flush() error {
	if len(l.ranges) == 0 {
		return nil
	}
	coalesced := l.coalesce()
	l.ranges = l.ranges[:0]

	if l.syncer == nil {
		return nil
	}
	for _, r := range coalesced {
		if err := l.syncer.SyncRange(uint32(r.Off), uint32(r.Len)); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards all tracked ranges without flushing them.
func (l *Ledger) Reset() {
	l.ranges = l.ranges[:0]
}

// DebugRanges returns a copy of the raw, uncoalesced ranges currently
// tracked.
func (l *Ledger) DebugRanges() []Range {
	result := make([]Range, len(l.ranges))
	copy(result, l.ranges)
	return result
}

// DebugCoalescedRanges returns the ranges Flush would currently hand to the
// Syncer.
func (l *Ledger) DebugCoalescedRanges() []Range {
	return l.coalesce()
}

// coalesce aligns, sorts, and merges overlapping/adjacent ranges.
func (l *Ledger) coalesce() []Range {
	if len(l.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(l.ranges))
	for i, r := range l.ranges {
		start := (r.Off / l.alignment) * l.alignment
		end := r.Off + r.Len
		if end%l.alignment != 0 {
			end = ((end / l.alignment) + 1) * l.alignment
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Off < aligned[j].Off })

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for i := 1; i < len(aligned); i++ {
		next := aligned[i]
		if next.Off <= current.Off+current.Len {
			if end := next.Off + next.Len; end > current.Off+current.Len {
				current.Len = end - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}
