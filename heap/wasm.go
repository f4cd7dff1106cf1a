package heap

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// wasmPageSize is the WASM linear-memory page size in bytes.
const wasmPageSize = 64 * 1024

// minimalMemoryModule is a hand-assembled WASM binary exporting a single
// growable linear memory named "mem" (min 0 pages, max 65536 pages). It
// exists only so heap.WasmLinear has something to instantiate without
// carrying a WAT-to-wasm toolchain dependency; it has no functions or code
// section.
var minimalMemoryModule = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, // magic, version
	0x05, 0x06, 0x01, 0x01, 0x00, 0x80, 0x80, 0x04, // memory section: 1 memtype, min=0, max=65536
	0x07, 0x07, 0x01, 0x03, 0x6D, 0x65, 0x6D, 0x02, 0x00, // export section: "mem" -> memory 0
}

// WasmLinear is a Provider backed by the linear memory of an instantiated
// WASM module. It exists so the allocator can run inside a WASM guest's
// address space, growing the same way guest code would.
type WasmLinear struct {
	ctx     context.Context
	rt      wazero.Runtime
	mod     api.Module
	mem     api.Memory
	maxSize uint32
}

// NewWasmLinear instantiates the minimal memory-only module and returns a
// Provider wrapping its linear memory. maxSize, if non-zero, caps Grow in
// bytes in addition to the module's own page-count limit.
func NewWasmLinear(ctx context.Context, maxSize uint32) (*WasmLinear, error) {
	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, minimalMemoryModule)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("heap: instantiate memory module: %w", err)
	}
	mem := mod.Memory()
	if mem == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("heap: instantiated module exposes no memory")
	}
	return &WasmLinear{ctx: ctx, rt: rt, mod: mod, mem: mem, maxSize: maxSize}, nil
}

func (w *WasmLinear) Init() error {
	return nil
}

func (w *WasmLinear) Grow(n uint32) (uint32, error) {
	cur := w.mem.Size()
	if w.maxSize != 0 && cur+n > w.maxSize {
		return 0, ErrCapacity
	}
	pages := (n + wasmPageSize - 1) / wasmPageSize
	if pages == 0 {
		return cur, nil
	}
	// Memory.Grow only grows in whole pages, so the region grows by up to a
	// page more than n; Size and Hi include that slack, and later requests
	// that fit inside it need no further Grow.
	if _, ok := w.mem.Grow(pages); !ok {
		return 0, ErrCapacity
	}
	return cur, nil
}

func (w *WasmLinear) Reset() error {
	return fmt.Errorf("heap: WasmLinear does not support shrinking a WASM memory; recreate the provider instead")
}

func (w *WasmLinear) Lo() uint32 { return 0 }

func (w *WasmLinear) Hi() uint32 {
	size := w.mem.Size()
	if size == 0 {
		return 0
	}
	return size - 1
}

func (w *WasmLinear) Size() uint32 { return w.mem.Size() }

func (w *WasmLinear) ReadU32(off uint32) (uint32, bool) {
	return w.mem.ReadUint32Le(off)
}

func (w *WasmLinear) WriteU32(off uint32, v uint32) bool {
	return w.mem.WriteUint32Le(off, v)
}

func (w *WasmLinear) ReadAt(off uint32, byteCount uint32) ([]byte, bool) {
	b, ok := w.mem.Read(off, byteCount)
	if !ok {
		return nil, false
	}
	p := make([]byte, len(b))
	copy(p, b)
	return p, true
}

func (w *WasmLinear) WriteAt(off uint32, p []byte) bool {
	return w.mem.Write(off, p)
}

// Close releases the underlying WASM runtime.
func (w *WasmLinear) Close() error {
	return w.rt.Close(w.ctx)
}
