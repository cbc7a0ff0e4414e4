// Package pci implements the PCI host bridge / root complex reference
// device: the canonical device plugged into a devicebus.DeviceMap, chosen
// because decoding its two-port indirection protocol exercises every
// contract the dispatcher offers.
package pci

import "fmt"

// Bdf identifies a PCI function by its Bus/Device/Function triple. It is
// bijective with a 16-bit integer laid out bus[15:8] | device[7:3] |
// function[2:0].
type Bdf struct {
	Bus      uint8
	Device   uint8 // 5 bits: 0-31
	Function uint8 // 3 bits: 0-7
}

// BdfFromUint16 decodes the 16-bit CONFIG_ADDRESS bus/device/function field
// into a Bdf.
func BdfFromUint16(v uint16) Bdf {
	return Bdf{
		Bus:      uint8(v >> 8),
		Device:   uint8((v >> 3) & 0x1f),
		Function: uint8(v & 0x7),
	}
}

// Uint16 encodes b back into the 16-bit field CONFIG_ADDRESS carries it in.
func (b Bdf) Uint16() uint16 {
	return uint16(b.Bus)<<8 | uint16(b.Device&0x1f)<<3 | uint16(b.Function&0x7)
}

func (b Bdf) String() string {
	return fmt.Sprintf("%02x:%02x.%x", b.Bus, b.Device, b.Function)
}
