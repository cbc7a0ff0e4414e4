package devicebus

import (
	"fmt"
	"io"
)

// DeviceRegion is a contiguous, inclusive range in either the port or the
// guest-physical-address space claimed by a device. A device declares the
// regions it owns through EmulatedDevice.Services; DeviceMap.Register turns
// each one into a RangeKey in the matching registry.
type DeviceRegion interface {
	isDeviceRegion()
}

// PortIoRegion claims an inclusive range of legacy I/O ports.
type PortIoRegion struct {
	Lo, Hi Port
}

func (PortIoRegion) isDeviceRegion() {}

// MemIoRegion claims an inclusive range of guest-physical addresses.
type MemIoRegion struct {
	Lo, Hi GuestPhysAddr
}

func (MemIoRegion) isDeviceRegion() {}

// GuestView is the opaque, mutable view of guest memory an exit handler
// hands to a device handler alongside the access-request value. The
// dispatcher never constructs or inspects one; it only carries it from
// caller to device. A real exit handler backs this with the VM's physical
// memory translation; devicebus/memview provides a flat-buffer
// implementation for tests and standalone use.
type GuestView interface {
	io.ReaderAt
	io.WriterAt
}

// EmulatedDevice is the capability set a device model must implement to be
// registered with a DeviceMap. Services must be pure and return a stable
// set on every call; the dispatcher calls it once, at registration, but
// nothing prevents a caller from calling it again to introspect a device it
// already holds.
//
// Each handler defaults to failing with NotImplementedError naming the
// unsupported direction; embed BaseDevice to get that default for free and
// override only the handlers a device actually implements. The dispatcher
// never invokes a handler outside the regions the device declared in
// Services.
type EmulatedDevice interface {
	Services() []DeviceRegion

	OnPortRead(port Port, req PortReadRequest, view GuestView) error
	OnPortWrite(port Port, req PortWriteRequest, view GuestView) error
	OnMemRead(addr GuestPhysAddr, req MemReadRequest, view GuestView) error
	OnMemWrite(addr GuestPhysAddr, req MemWriteRequest, view GuestView) error
}

// BaseDevice implements all four EmulatedDevice handlers as
// NotImplementedError. Concrete devices embed it and override whichever
// handlers their declared regions require.
type BaseDevice struct{}

func (BaseDevice) OnPortRead(port Port, _ PortReadRequest, _ GuestView) error {
	return &NotImplementedError{
		Message: fmt.Sprintf("port 0x%x does not support reading", uint16(port)),
	}
}

func (BaseDevice) OnPortWrite(port Port, _ PortWriteRequest, _ GuestView) error {
	return &NotImplementedError{
		Message: fmt.Sprintf("port 0x%x does not support writing", uint16(port)),
	}
}

func (BaseDevice) OnMemRead(addr GuestPhysAddr, _ MemReadRequest, _ GuestView) error {
	return &NotImplementedError{
		Message: fmt.Sprintf("address %s does not support reading", addr),
	}
}

func (BaseDevice) OnMemWrite(addr GuestPhysAddr, _ MemWriteRequest, _ GuestView) error {
	return &NotImplementedError{
		Message: fmt.Sprintf("address %s does not support writing", addr),
	}
}

var _ EmulatedDevice = (*baseDeviceNeedsServices)(nil)

// baseDeviceNeedsServices exists only so the compiler checks that embedding
// BaseDevice plus a Services method satisfies EmulatedDevice; it is never
// constructed.
type baseDeviceNeedsServices struct {
	BaseDevice
}

func (baseDeviceNeedsServices) Services() []DeviceRegion { return nil }
