package devicebus

import "testing"

func TestPortReadRequestCopyFromUint32RoundTrips(t *testing.T) {
	// Invariant 3: for every width, copy-then-interpret recovers v masked to
	// the width.
	cases := []struct {
		width int
		v     uint32
		want  uint32
	}{
		{1, 0x12345678, 0x78},
		{2, 0x12345678, 0x5678},
		{4, 0x12345678, 0x12345678},
	}
	for _, c := range cases {
		buf := make([]byte, c.width)
		req, err := NewPortReadRequest(buf)
		if err != nil {
			t.Fatalf("width %d: %v", c.width, err)
		}
		req.CopyFromUint32(c.v)

		var got uint32
		for _, b := range req.AsSlice() {
			got = got<<8 | uint32(b)
		}
		if got != c.want {
			t.Fatalf("width %d: got 0x%x, want 0x%x", c.width, got, c.want)
		}
	}
}

func TestPortReadRequestRejectsBadWidth(t *testing.T) {
	for _, n := range []int{0, 3, 5} {
		if _, err := NewPortReadRequest(make([]byte, n)); err == nil {
			t.Fatalf("expected error for width %d", n)
		}
	}
}

func TestPortWriteRequestUint32ZeroExtends(t *testing.T) {
	// Invariant 4.
	cases := []struct {
		buf  []byte
		want uint32
	}{
		{[]byte{0x12, 0x34, 0x56, 0x78}, 0x12345678},
		{[]byte{0x12, 0x34}, 0x1234},
		{[]byte{0x12}, 0x12},
	}
	for _, c := range cases {
		req, err := NewPortWriteRequest(c.buf)
		if err != nil {
			t.Fatalf("%v: %v", c.buf, err)
		}
		if got := req.Uint32(); got != c.want {
			t.Fatalf("Uint32(%#02x) = 0x%x, want 0x%x", c.buf, got, c.want)
		}
	}
}

func TestPortWriteRequestNarrowingWidthMismatchFails(t *testing.T) {
	// Invariant 5.
	req, err := NewPortWriteRequest([]byte{0x12, 0x34, 0x56, 0x78})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := req.Uint8(); err == nil {
		t.Fatalf("expected Uint8 on a 4-byte request to fail")
	}
	if _, err := req.Uint16(); err == nil {
		t.Fatalf("expected Uint16 on a 4-byte request to fail")
	}
	if v, err := req.Uint32Exact(); err != nil || v != 0x12345678 {
		t.Fatalf("Uint32Exact = %v, %v", v, err)
	}
}

func TestPortWriteRequestConstructionRejectsBadWidth(t *testing.T) {
	if _, err := NewPortWriteRequest([]byte{0x12, 0x34, 0x56}); err == nil {
		t.Fatalf("expected error for 3-byte buffer")
	}
	req, err := NewPortWriteRequest([]byte{0x12, 0x34, 0x56, 0x78})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Uint32(); got != 0x12345678 {
		t.Fatalf("Uint32() = 0x%x", got)
	}
}

func TestMemWriteRequestUint8Narrowing(t *testing.T) {
	req := NewMemWriteRequest([]byte{0xab})
	v, err := req.Uint8()
	if err != nil || v != 0xab {
		t.Fatalf("Uint8() = %v, %v", v, err)
	}

	req = NewMemWriteRequest([]byte{0xab, 0xcd})
	if _, err := req.Uint8(); err == nil {
		t.Fatalf("expected error for a 2-byte MemWriteRequest")
	}
}

func TestMemReadRequestAsMutSliceWritesThrough(t *testing.T) {
	buf := make([]byte, 3)
	req := NewMemReadRequest(buf)
	copy(req.AsMutSlice(), []byte{1, 2, 3})
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Fatalf("AsMutSlice did not alias the backing buffer: %v", buf)
	}
}
