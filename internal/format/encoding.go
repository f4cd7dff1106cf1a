package format

import "encoding/binary"

// Binary encoding utilities for little-endian words. The allocator's wire
// format is entirely 32-bit: block headers, footers, and free-list links
// are all single little-endian words, so this is the only width kept here.
//
// Performance note: benchmarking showed encoding/binary.LittleEndian is
// already well-optimized by the compiler; an unsafe-pointer version gave
// no measurable benefit.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
