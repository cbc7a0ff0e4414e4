package pci

import "testing"

func TestBdfRoundTripsThroughUint16(t *testing.T) {
	cases := []Bdf{
		{Bus: 0, Device: 0, Function: 0},
		{Bus: 0, Device: 1, Function: 0},
		{Bus: 0xff, Device: 0x1f, Function: 0x7},
	}
	for _, want := range cases {
		got := BdfFromUint16(want.Uint16())
		if got != want {
			t.Fatalf("round trip of %+v produced %+v", want, got)
		}
	}
}

func TestBdfString(t *testing.T) {
	if got, want := (Bdf{Bus: 0, Device: 1, Function: 0}).String(), "00:01.0"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
