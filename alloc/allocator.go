package alloc

import (
	"fmt"
	"os"

	"github.com/binalloc/binalloc/dirty"
	"github.com/binalloc/binalloc/heap"
)

const debug = false

func debugf(format string, args ...any) {
	if !debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[alloc] "+format+"\n", args...)
}

// Allocator implements the allocate/free/resize triad over a single
// heap.Provider using a binned segregated free list with boundary-tag
// coalescing.
//
// Not safe for concurrent use; not reentrant. Callers needing thread safety
// must wrap an Allocator in their own sync.Mutex.
type Allocator struct {
	provider heap.Provider
	cfg      Config
	dt       dirty.Tracker

	bins  []uint32
	loBin int
	hiBin int
	tail  uint32

	stats Stats
}

// NewAllocator constructs an Allocator over provider using cfg. dt may be
// nil; when non-nil it receives a record of every header and footer the
// allocator writes and of payload bytes copied by Resize, so a caller can
// flush a real backing store incrementally. Free-list link writes are not
// reported.
func NewAllocator(provider heap.Provider, dt dirty.Tracker, cfg Config) *Allocator {
	return &Allocator{
		provider: provider,
		cfg:      cfg,
		dt:       dt,
	}
}

// Init resets the allocator's bins and tail cursor and asks the provider
// for a fresh H-byte region, so the first block's base sits at
// provider.Lo()+H and every base+H payload pointer is G-aligned.
func (a *Allocator) Init() error {
	a.bins = make([]uint32, a.cfg.Bins)
	a.loBin = a.cfg.Bins
	a.hiBin = -1
	a.stats = Stats{}

	if err := a.provider.Init(); err != nil {
		return err
	}
	if _, err := a.provider.Grow(headerSize); err != nil {
		return fmt.Errorf("%w: %v", ErrHeapExhausted, err)
	}
	a.tail = a.provider.Hi() + 1
	debugf("init: tail=%d lo=%d hi=%d", a.tail, a.provider.Lo(), a.provider.Hi())
	return nil
}

// HeapLo forwards to the provider's Lo.
func (a *Allocator) HeapLo() uint32 { return a.provider.Lo() }

// HeapHi forwards to the provider's Hi.
func (a *Allocator) HeapHi() uint32 { return a.provider.Hi() }

// ResetBrk forwards to the provider's Reset and re-initializes the
// allocator, since a provider reset invalidates every outstanding block.
func (a *Allocator) ResetBrk() error {
	if err := a.provider.Reset(); err != nil {
		return err
	}
	return a.Init()
}

// markDirty reports a write of length bytes at off to the configured
// dirty.Tracker, if any.
func (a *Allocator) markDirty(off, length uint32) {
	if a.dt == nil {
		return
	}
	a.dt.Add(int(off), int(length))
}

// tailGrow implements §4.8: idempotent growth of the logical tail, asking
// the provider for more physical space only when the tail would otherwise
// run past it.
func (a *Allocator) tailGrow(n uint32) (uint32, error) {
	old := a.tail
	limit := a.provider.Hi() + 1
	if a.tail+n <= limit {
		a.tail += n
		return old, nil
	}
	need := (a.tail + n) - limit
	if _, err := a.provider.Grow(need); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrHeapExhausted, err)
	}
	a.tail += n
	return old, nil
}
