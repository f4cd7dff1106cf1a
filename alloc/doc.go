// Package alloc implements a general-purpose dynamic storage allocator: a
// binned segregated free list with boundary-tag coalescing over a
// monotonically-growing heap region.
//
// # Overview
//
// Allocator manages a single contiguous byte range borrowed from a
// heap.Provider. Every block carries a header and footer word encoding its
// size and free flag; free blocks additionally carry a prev/next link
// record in their payload region, so the free list costs nothing beyond
// the blocks it already tracks.
//
// # Block Layout
//
//	[ header (4B) | payload or link record | footer (4B) ]
//
// Header and footer always agree — the boundary tag that lets Free inspect
// a physical neighbor in O(1) without walking the free list.
//
// # Size Classes
//
// Free blocks are indexed into BINS (default 28) doubly-linked lists by
// floor(log2(size/G)). lo_bin/hi_bin track the occupied range so Allocate
// never has to probe an empty bin outside it.
//
// # Usage
//
//	p := heap.NewMemory(0)
//	a := alloc.NewAllocator(p, nil, alloc.DefaultConfig)
//	if err := a.Init(); err != nil {
//	    // ...
//	}
//	ptr, err := a.Allocate(128)
//
// # Thread Safety
//
// Not thread-safe. Not reentrant. Allocate/Free/Resize must not be called
// from within each other or from a signal handler.
package alloc
