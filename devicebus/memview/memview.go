// Package memview provides a flat, slice-backed implementation of
// devicebus.GuestView. It stands in for the real guest-physical-memory
// translation a hypervisor provides, which devicebus.GuestView treats as an
// opaque collaborator and which is out of scope for this module.
package memview

import (
	"fmt"
	"io"
)

// Flat is a devicebus.GuestView backed by a single contiguous byte slice,
// addressed starting at offset 0. It is sufficient for tests and for
// standalone use of devicebus/pci without a real hypervisor underneath.
type Flat struct {
	mem []byte
}

// NewFlat wraps size bytes of zeroed guest memory.
func NewFlat(size int) *Flat {
	return &Flat{mem: make([]byte, size)}
}

// ReadAt implements io.ReaderAt.
func (f *Flat) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(f.mem)) {
		return 0, fmt.Errorf("memview: read at %d out of range [0,%d]", off, len(f.mem))
	}
	n := copy(p, f.mem[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt.
func (f *Flat) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(f.mem)) {
		return 0, fmt.Errorf("memview: write at %d out of range [0,%d]", off, len(f.mem))
	}
	n := copy(f.mem[off:], p)
	if n < len(p) {
		return n, fmt.Errorf("memview: write at %d truncated, only %d of %d bytes fit", off, n, len(p))
	}
	return n, nil
}

// Bytes exposes the backing slice directly, e.g. for test assertions.
func (f *Flat) Bytes() []byte { return f.mem }
