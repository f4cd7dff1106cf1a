// Package trace defines the validator trace format and a Player that
// replays it.
//
// # Format
//
// A trace is a []trace.Op. Each ALLOC/REALLOC is keyed by a caller-chosen
// logical Index rather than a live pointer; the Player tracks the mapping
// from Index to the allocator's current pointer for that logical block.
//
// # Usage
//
//	p := heap.NewMemory(0)
//	a := alloc.NewAllocator(p, nil, alloc.DefaultConfig)
//	a.Init()
//	player := trace.NewPlayer(a, p)
//	err := player.Run([]trace.Op{
//	    {Kind: trace.OpAlloc, Index: 0, Size: 64},
//	    {Kind: trace.OpRealloc, Index: 0, Size: 128},
//	    {Kind: trace.OpFree, Index: 0},
//	})
package trace
