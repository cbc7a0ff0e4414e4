package devicebus

import (
	"encoding/binary"
	"fmt"
)

// validPortWidth reports whether n is a width a legacy port access may take.
func validPortWidth(n int) bool {
	return n == 1 || n == 2 || n == 4
}

// PortReadRequest is a mutable view into the exit handler's payload buffer
// for a port read. The handler that owns the port writes the value the
// guest will observe into it.
type PortReadRequest struct {
	data []byte
}

// NewPortReadRequest wraps buf, which must be 1, 2, or 4 bytes long.
func NewPortReadRequest(buf []byte) (PortReadRequest, error) {
	if !validPortWidth(len(buf)) {
		return PortReadRequest{}, &InvalidValueError{
			Message: fmt.Sprintf("invalid port read width: %d", len(buf)),
		}
	}
	return PortReadRequest{data: buf}, nil
}

// Len reports the access width in bytes: 1, 2, or 4.
func (r PortReadRequest) Len() int { return len(r.data) }

// AsSlice returns the underlying buffer.
func (r PortReadRequest) AsSlice() []byte { return r.data }

// AsMutSlice returns the underlying buffer for in-place writes.
func (r PortReadRequest) AsMutSlice() []byte { return r.data }

// CopyFromUint32 writes the low Len() bytes of v, in big-endian order, into
// the buffer: it takes the last Len() bytes of v's big-endian
// representation. This is the sole width-aware reply primitive devices use
// to answer a port read regardless of the access width the guest asked for.
func (r PortReadRequest) CopyFromUint32(v uint32) {
	var arr [4]byte
	binary.BigEndian.PutUint32(arr[:], v)
	copy(r.data, arr[4-len(r.data):])
}

func (r PortReadRequest) String() string {
	return fmt.Sprintf("PortReadRequest(%#02x)", r.data)
}

// PortWriteRequest is an immutable view into the exit handler's payload
// buffer for a port write, carrying the value the guest wrote.
type PortWriteRequest struct {
	data []byte
}

// NewPortWriteRequest wraps buf, which must be 1, 2, or 4 bytes long.
func NewPortWriteRequest(buf []byte) (PortWriteRequest, error) {
	if !validPortWidth(len(buf)) {
		return PortWriteRequest{}, &InvalidValueError{
			Message: fmt.Sprintf("invalid port write width: %d", len(buf)),
		}
	}
	return PortWriteRequest{data: buf}, nil
}

// Len reports the access width in bytes: 1, 2, or 4.
func (r PortWriteRequest) Len() int { return len(r.data) }

// AsSlice returns the underlying buffer.
func (r PortWriteRequest) AsSlice() []byte { return r.data }

// Uint32 widens the buffer to 32 bits by big-endian interpretation,
// zero-extending 1- and 2-byte accesses. Unlike the narrowing conversions
// below, this never fails: every valid width widens cleanly.
func (r PortWriteRequest) Uint32() uint32 {
	var arr [4]byte
	copy(arr[4-len(r.data):], r.data)
	return binary.BigEndian.Uint32(arr[:])
}

// Uint8 narrows the buffer to a byte, failing unless the access was exactly
// 1 byte wide.
func (r PortWriteRequest) Uint8() (uint8, error) {
	if len(r.data) != 1 {
		return 0, &InvalidValueError{
			Message: fmt.Sprintf("value %s cannot be converted to u8", r),
		}
	}
	return r.data[0], nil
}

// Uint16 narrows the buffer to a uint16, failing unless the access was
// exactly 2 bytes wide.
func (r PortWriteRequest) Uint16() (uint16, error) {
	if len(r.data) != 2 {
		return 0, &InvalidValueError{
			Message: fmt.Sprintf("value %s cannot be converted to u16", r),
		}
	}
	return binary.BigEndian.Uint16(r.data), nil
}

// Uint32Exact narrows the buffer to a uint32, failing unless the access was
// exactly 4 bytes wide. Use Uint32 instead when zero-extension of a
// narrower access is the desired behavior.
func (r PortWriteRequest) Uint32Exact() (uint32, error) {
	if len(r.data) != 4 {
		return 0, &InvalidValueError{
			Message: fmt.Sprintf("value %s cannot be converted to u32", r),
		}
	}
	return binary.BigEndian.Uint32(r.data), nil
}

func (r PortWriteRequest) String() string {
	return fmt.Sprintf("PortWriteRequest(%#02x)", r.data)
}

// MemWriteRequest is an immutable view of a memory-mapped I/O write of
// arbitrary length; devices impose any width restriction themselves.
type MemWriteRequest struct {
	data []byte
}

// NewMemWriteRequest wraps buf; no length restriction applies at
// construction.
func NewMemWriteRequest(buf []byte) MemWriteRequest {
	return MemWriteRequest{data: buf}
}

// AsSlice returns the underlying buffer.
func (r MemWriteRequest) AsSlice() []byte { return r.data }

// Uint8 narrows the buffer to a byte, failing unless it is exactly 1 byte
// long.
func (r MemWriteRequest) Uint8() (uint8, error) {
	if len(r.data) != 1 {
		return 0, &InvalidValueError{
			Message: fmt.Sprintf("value %s cannot be converted to u8", r),
		}
	}
	return r.data[0], nil
}

func (r MemWriteRequest) String() string {
	return fmt.Sprintf("MemWriteRequest(%#02x)", r.data)
}

// MemReadRequest is a mutable view of a memory-mapped I/O read of arbitrary
// length.
type MemReadRequest struct {
	data []byte
}

// NewMemReadRequest wraps buf; no length restriction applies at
// construction.
func NewMemReadRequest(buf []byte) MemReadRequest {
	return MemReadRequest{data: buf}
}

// AsSlice returns the underlying buffer.
func (r MemReadRequest) AsSlice() []byte { return r.data }

// AsMutSlice returns the underlying buffer for in-place writes.
func (r MemReadRequest) AsMutSlice() []byte { return r.data }

func (r MemReadRequest) String() string {
	return fmt.Sprintf("MemReadRequest(%#02x)", r.data)
}
