// Package heap defines the heap-region provider contract the allocator
// borrows memory from, plus the concrete backends that satisfy it.
//
// A Provider owns a single contiguous, monotonically-growing byte range.
// It has no notion of blocks, headers, or free lists; the allocator layers
// that structure on top. Addresses are uint32 offsets from the start of the
// provider's backing storage rather than Go pointers, so a provider that
// reallocates its backing array (heap.Mapped remapping a growing file, for
// instance) never invalidates an outstanding address.
package heap

import "errors"

// ErrCapacity is returned by Grow when honoring the request would exceed
// the provider's configured maximum size.
var ErrCapacity = errors.New("heap: grow would exceed capacity")

// ErrNotInitialized is returned by operations that require a prior Init.
var ErrNotInitialized = errors.New("heap: provider not initialized")

// Provider is the external heap-region collaborator the allocator sits on.
// Implementations are not safe for concurrent use, matching the allocator's
// own single-threaded contract.
type Provider interface {
	// Init begins a fresh region of length 0.
	Init() error

	// Grow extends the region by n bytes and returns the offset of the
	// first new byte. Returns an error without changing size if n bytes
	// cannot be made available.
	Grow(n uint32) (uint32, error)

	// Reset discards every byte. Lo and Hi are undefined until the next
	// Grow.
	Reset() error

	// Lo returns the lowest valid offset.
	Lo() uint32

	// Hi returns the highest valid offset (inclusive). Hi()+1 is the
	// exclusive end of the region.
	Hi() uint32

	// Size returns the current region size in bytes.
	Size() uint32

	// ReadU32 reads a little-endian uint32 at off. ok is false if
	// [off, off+4) lies outside the region.
	ReadU32(off uint32) (v uint32, ok bool)

	// WriteU32 writes v as a little-endian uint32 at off. ok is false if
	// [off, off+4) lies outside the region.
	WriteU32(off uint32, v uint32) (ok bool)

	// ReadAt copies byteCount bytes starting at off. ok is false if the
	// range lies outside the region.
	ReadAt(off uint32, byteCount uint32) (p []byte, ok bool)

	// WriteAt copies p into the region starting at off. ok is false if the
	// range lies outside the region.
	WriteAt(off uint32, p []byte) (ok bool)
}
