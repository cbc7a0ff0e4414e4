package pci

import (
	"fmt"
	"log/slog"

	"github.com/ntegan/mythril/devicebus"
)

// Vendor and device IDs for the two fixtures RootComplex seeds itself with.
const (
	vendorIntel = 0x8086

	deviceP35Mch = 0x29c0 // Host bridge. QEMU calls this chipset Q35, but the
	// Q35 chipset actually integrates graphics the way this model does not;
	// P35 is the correct name for a graphics-less variant of this device ID.
	deviceICH9 = 0x2918 // ICH9 south bridge (LPC interface).
)

// Legacy PC platform ports used to access PCI configuration space by
// indirection.
const (
	configAddressPort devicebus.Port = 0xcf8
	configDataPort    devicebus.Port = 0xcfc
	configDataPortMax devicebus.Port = configDataPort + 3
)

// RootComplex emulates a PCI host bridge / root complex via the classic
// two-port CONFIG_ADDRESS/CONFIG_DATA indirection protocol. It is the
// reference device for devicebus.DeviceMap: decoding it exercises width-
// aware port access, BDF parsing, and byte-lane selection against a
// structured configuration space.
type RootComplex struct {
	devicebus.BaseDevice

	currentAddress uint32
	devices        map[uint16]*ConfigSpace
}

// NewRootComplex constructs a root complex seeded with a host bridge at BDF
// 0x0000 and an ICH9 south bridge at BDF 0x0008, matching the fixed PCI
// topology a PC platform's early boot code expects to find.
func NewRootComplex() *RootComplex {
	rc := &RootComplex{
		devices: make(map[uint16]*ConfigSpace),
	}

	hostBridge := NewType0ConfigSpace(Type0Header{
		VendorID: vendorIntel,
		DeviceID: deviceP35Mch,
	})
	rc.devices[Bdf{Bus: 0, Device: 0, Function: 0}.Uint16()] = hostBridge

	ich9 := NewType0ConfigSpace(Type0Header{
		VendorID: vendorIntel,
		DeviceID: deviceICH9,
	})
	rc.devices[Bdf{Bus: 0, Device: 1, Function: 0}.Uint16()] = ich9

	return rc
}

// Services implements devicebus.EmulatedDevice.
func (rc *RootComplex) Services() []devicebus.DeviceRegion {
	return []devicebus.DeviceRegion{
		devicebus.PortIoRegion{Lo: configAddressPort, Hi: configAddressPort},
		devicebus.PortIoRegion{Lo: configDataPort, Hi: configDataPortMax},
	}
}

// OnPortWrite implements devicebus.EmulatedDevice. A write to
// CONFIG_ADDRESS must be a full 4-byte transfer; the enable bit (bit 31) is
// dropped on write and unconditionally re-asserted on every CONFIG_ADDRESS
// read, so a guest can never observe it as clear. Writes to CONFIG_DATA are
// logged and discarded: this reference device never accepts a
// configuration-space write.
func (rc *RootComplex) OnPortWrite(port devicebus.Port, req devicebus.PortWriteRequest, _ devicebus.GuestView) error {
	switch port {
	case configAddressPort:
		addr, err := req.Uint32Exact()
		if err != nil {
			return err
		}
		rc.currentAddress = addr & 0x7fff_ffff
		return nil
	case configDataPort, configDataPort + 1, configDataPort + 2, configDataPort + 3:
		slog.Debug("pci root complex: discarding config data write",
			"port", fmt.Sprintf("0x%x", uint16(port)),
			"address", fmt.Sprintf("0x%x", rc.currentAddress),
			"value", fmt.Sprintf("0x%x", req.Uint32()))
		return nil
	default:
		return &devicebus.InvalidValueError{
			Message: fmt.Sprintf("invalid PCI port write 0x%x", uint16(port)),
		}
	}
}

// OnPortRead implements devicebus.EmulatedDevice.
//
// A CONFIG_ADDRESS read returns the stored address with the enable bit
// forced on. A CONFIG_DATA read decodes the BDF and dword register index
// from the stored address, looks the BDF up in the seeded device table,
// and shifts the selected register right by the byte offset the specific
// port within 0xCFC..0xCFF identifies before truncating to the requested
// width. An absent BDF reads back as 0xFFFFFFFF, the architectural
// "no device present" response.
func (rc *RootComplex) OnPortRead(port devicebus.Port, req devicebus.PortReadRequest, _ devicebus.GuestView) error {
	switch {
	case port == configAddressPort:
		req.CopyFromUint32(0x8000_0000 | rc.currentAddress)
		return nil
	case port >= configDataPort && port <= configDataPortMax:
		bdf := uint16((rc.currentAddress >> 8) & 0xffff)
		register := uint8((rc.currentAddress&0xff)>>2) & 0x3f
		offset := uint8(port - configDataPort)

		var value uint32
		if cfg, ok := rc.devices[bdf]; ok {
			value = cfg.ReadRegister(register) >> (offset * 8)
		} else {
			value = 0xffff_ffff
		}
		req.CopyFromUint32(value)
		return nil
	default:
		return &devicebus.InvalidValueError{
			Message: fmt.Sprintf("invalid PCI port read 0x%x", uint16(port)),
		}
	}
}

var _ devicebus.EmulatedDevice = (*RootComplex)(nil)
