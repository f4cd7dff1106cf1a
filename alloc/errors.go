package alloc

import "errors"

var (
	// ErrCapacityExceeded is returned when a requested size exceeds the
	// allocator's size cap (G · 2^BINS). No state changes.
	ErrCapacityExceeded = errors.New("alloc: requested size exceeds capacity")

	// ErrHeapExhausted is returned when the heap provider refuses to grow
	// far enough to satisfy a request. No state changes.
	ErrHeapExhausted = errors.New("alloc: heap provider refused to grow")

	// ErrInvariantViolation is returned by Check when a heap-wide
	// invariant does not hold.
	ErrInvariantViolation = errors.New("alloc: heap invariant violated")

	// ErrContractViolation marks calls outside the allocator's contract.
	// Free panics with an error wrapping it when Config.Debug is set (see
	// Free); Resize returns it for a pointer whose header cannot be read.
	ErrContractViolation = errors.New("alloc: contract violation")

	// ErrNotInitialized is returned by Allocate (and so by Resize of a 0
	// pointer) when it is called before Init. Free and Resize of a non-zero
	// pointer do not check for it.
	ErrNotInitialized = errors.New("alloc: allocator not initialized")
)
