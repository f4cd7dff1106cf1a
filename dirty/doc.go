// Package dirty tracks which byte ranges of a heap.Provider's region have
// been modified and, for providers that can be flushed, coalesces and
// syncs them.
//
// # Overview
//
// A Ledger accumulates raw dirty ranges as callers report them (the
// allocator does this on every header/footer write, not on free-list link
// writes), then
// coalesces overlapping and adjacent ranges at Flush time before handing
// them to an optional Syncer.
//
// # Usage
//
//	ledger := dirty.NewLedger(mappedProvider) // or nil for no-op flushing
//	ledger.Add(blockOffset, 4)                // header write
//	ledger.Add(blockOffset+blockSize-4, 4)    // footer write
//	ledger.Flush()
//
// # Thread Safety
//
// Ledger is not thread-safe, matching the allocator it instruments.
package dirty
