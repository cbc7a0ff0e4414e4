// Package vmexit is the collaborator surface devicebus.DeviceMap expects to
// be driven through: the code that decodes a hardware virtualization exit
// into a (kind, address, width, direction, payload) tuple and hands it to
// the dispatcher. This package supplies the minimal concrete version of
// that decode-and-dispatch step needed to drive a DeviceMap end to end,
// backed by DeviceMap's range lookup instead of a linear walk over every
// registered device.
package vmexit

import (
	"fmt"

	"github.com/ntegan/mythril/devicebus"
)

// Direction is which way a single access moves data relative to the guest.
type Direction int

const (
	DirectionRead Direction = iota
	DirectionWrite
)

func (d Direction) String() string {
	if d == DirectionWrite {
		return "write"
	}
	return "read"
}

// Kind distinguishes legacy port I/O from memory-mapped I/O.
type Kind int

const (
	KindPortIO Kind = iota
	KindMMIO
)

func (k Kind) String() string {
	if k == KindMMIO {
		return "mmio"
	}
	return "portio"
}

// Access is a single guest I/O transaction the way a real exit handler
// would decode it off a hardware virtualization exit: which bus, where on
// it, which direction, and the payload buffer. Data is read from by the
// device on a write and written into by the device on a read.
type Access struct {
	Kind      Kind
	Port      devicebus.Port
	Addr      devicebus.GuestPhysAddr
	Direction Direction
	Data      []byte
}

// Handle resolves access against m and invokes the device handler it
// names: decode the exit, ask the dispatcher for the owning device,
// construct the access-request value, invoke the handler.
func Handle(m *devicebus.DeviceMap, access Access, view devicebus.GuestView) error {
	switch access.Kind {
	case KindPortIO:
		switch access.Direction {
		case DirectionRead:
			return m.DispatchPortRead(access.Port, access.Data, view)
		case DirectionWrite:
			return m.DispatchPortWrite(access.Port, access.Data, view)
		}
	case KindMMIO:
		switch access.Direction {
		case DirectionRead:
			return m.DispatchMemRead(access.Addr, access.Data, view)
		case DirectionWrite:
			return m.DispatchMemWrite(access.Addr, access.Data, view)
		}
	}
	return fmt.Errorf("vmexit: unhandled access kind %v / direction %v", access.Kind, access.Direction)
}

// Runner drives a fixed sequence of accesses against a DeviceMap in
// program order: the sequence of I/O transactions observed by a device is
// exactly the sequence of VM exits, with no reordering. Run stops at the
// first error, mirroring the surrounding VM code deciding how to turn a
// handler failure into guest-visible fault injection rather than this
// layer recovering from it.
type Runner struct {
	Devices *devicebus.DeviceMap
	View    devicebus.GuestView
}

// NewRunner builds a Runner over an existing, already-populated
// DeviceMap.
func NewRunner(devices *devicebus.DeviceMap, view devicebus.GuestView) *Runner {
	return &Runner{Devices: devices, View: view}
}

// Run processes each access in order, returning the first error
// encountered (wrapped with its index) and leaving later accesses
// unprocessed.
func (r *Runner) Run(accesses []Access) error {
	for i, access := range accesses {
		if err := Handle(r.Devices, access, r.View); err != nil {
			return fmt.Errorf("vmexit: access %d (%s %s): %w", i, access.Kind, access.Direction, err)
		}
	}
	return nil
}
