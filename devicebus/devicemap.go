package devicebus

import (
	"fmt"

	"github.com/google/btree"
)

// btreeDegree is an arbitrary, small branching factor; DeviceMap registries
// hold at most a few hundred entries over the lifetime of a VM, so tree
// shape has no measurable effect on lookup cost.
const btreeDegree = 16

type portEntry struct {
	key    RangeKey[Port]
	device EmulatedDevice
}

func lessPortEntry(a, b portEntry) bool { return a.key.Less(b.key) }

type memEntry struct {
	key    RangeKey[GuestPhysAddr]
	device EmulatedDevice
}

func lessMemEntry(a, b memEntry) bool { return a.key.Less(b.key) }

// DeviceMap is the dispatcher: a registry of emulated devices keyed by the
// port and guest-physical-address ranges they claim. A device may claim
// regions in both spaces; it is registered once and reachable from either
// registry afterward.
//
// DeviceMap performs no internal locking. Its concurrency contract mirrors
// the hypervisor's: one DeviceMap belongs to exactly one VCPU, whose
// thread holds exclusive access to it for the duration of a single vmexit.
// There is no cross-VCPU sharing to guard against inside this type, so it
// carries no sync.Mutex.
type DeviceMap struct {
	portMap *btree.BTreeG[portEntry]
	memMap  *btree.BTreeG[memEntry]
}

// NewDeviceMap constructs an empty dispatcher.
func NewDeviceMap() *DeviceMap {
	return &DeviceMap{
		portMap: btree.NewG(btreeDegree, lessPortEntry),
		memMap:  btree.NewG(btreeDegree, lessMemEntry),
	}
}

// Register claims every region dev.Services declares. It fails with
// InvalidDeviceError the first time a region overlaps one already
// registered (by this or any earlier call), naming both the offered and
// the conflicting range in hex.
//
// Registration is all-or-nothing only in spirit: a conflict aborts the
// call and returns an error, but regions from the same Services call that
// were already inserted before the conflicting one are not rolled back.
// Callers that need atomic registration should validate all of a device's
// regions against a throwaway DeviceMap before registering it for real.
func (m *DeviceMap) Register(dev EmulatedDevice) error {
	for _, region := range dev.Services() {
		switch r := region.(type) {
		case PortIoRegion:
			key := RangeKey[Port]{Lo: r.Lo, Hi: r.Hi}
			if existing, ok := m.portMap.Get(portEntry{key: key}); ok {
				return &InvalidDeviceError{Message: fmt.Sprintf(
					"I/O port range 0x%x-0x%x conflicts with existing registration 0x%x-0x%x",
					uint16(key.Lo), uint16(key.Hi), uint16(existing.key.Lo), uint16(existing.key.Hi),
				)}
			}
			m.portMap.ReplaceOrInsert(portEntry{key: key, device: dev})
		case MemIoRegion:
			key := RangeKey[GuestPhysAddr]{Lo: r.Lo, Hi: r.Hi}
			if existing, ok := m.memMap.Get(memEntry{key: key}); ok {
				return &InvalidDeviceError{Message: fmt.Sprintf(
					"memory region 0x%x-0x%x conflicts with existing registration 0x%x-0x%x",
					key.Lo.ToUint64(), key.Hi.ToUint64(), existing.key.Lo.ToUint64(), existing.key.Hi.ToUint64(),
				)}
			}
			m.memMap.ReplaceOrInsert(memEntry{key: key, device: dev})
		default:
			return &InvalidDeviceError{Message: fmt.Sprintf("unknown device region type %T", region)}
		}
	}
	return nil
}

// PortDeviceFor returns the device that claims port, if any. The lookup
// constructs the singleton range [port, port]; the overlap-coalescing
// order on RangeKey guarantees it matches whichever stored range contains
// port.
func (m *DeviceMap) PortDeviceFor(port Port) (EmulatedDevice, bool) {
	entry, ok := m.portMap.Get(portEntry{key: Point(port)})
	if !ok {
		return nil, false
	}
	return entry.device, true
}

// PortDeviceForMut returns the same device as PortDeviceFor. Go interface
// values already carry the indirection a separate mutable accessor would be
// for, so there is no distinct "mutable" representation to hand back here;
// the method exists under this name to keep the dispatcher's read and
// mutate entry points named symmetrically.
func (m *DeviceMap) PortDeviceForMut(port Port) (EmulatedDevice, bool) {
	return m.PortDeviceFor(port)
}

// MemDeviceFor returns the device that claims addr, if any.
func (m *DeviceMap) MemDeviceFor(addr GuestPhysAddr) (EmulatedDevice, bool) {
	entry, ok := m.memMap.Get(memEntry{key: Point(addr)})
	if !ok {
		return nil, false
	}
	return entry.device, true
}

// MemDeviceForMut returns the same device as MemDeviceFor; see
// PortDeviceForMut for why both names exist.
func (m *DeviceMap) MemDeviceForMut(addr GuestPhysAddr) (EmulatedDevice, bool) {
	return m.MemDeviceFor(addr)
}

// DispatchPortRead resolves the device that owns port and invokes its
// OnPortRead handler with a request wrapping buf, whose length (1, 2, or 4)
// fixes the access width.
func (m *DeviceMap) DispatchPortRead(port Port, buf []byte, view GuestView) error {
	dev, ok := m.PortDeviceForMut(port)
	if !ok {
		return &InvalidValueError{Message: fmt.Sprintf("no device claims I/O port 0x%x", uint16(port))}
	}
	req, err := NewPortReadRequest(buf)
	if err != nil {
		return err
	}
	return dev.OnPortRead(port, req, view)
}

// DispatchPortWrite resolves the device that owns port and invokes its
// OnPortWrite handler with a request wrapping buf.
func (m *DeviceMap) DispatchPortWrite(port Port, buf []byte, view GuestView) error {
	dev, ok := m.PortDeviceForMut(port)
	if !ok {
		return &InvalidValueError{Message: fmt.Sprintf("no device claims I/O port 0x%x", uint16(port))}
	}
	req, err := NewPortWriteRequest(buf)
	if err != nil {
		return err
	}
	return dev.OnPortWrite(port, req, view)
}

// DispatchMemRead resolves the device that owns addr and invokes its
// OnMemRead handler with a request wrapping buf.
func (m *DeviceMap) DispatchMemRead(addr GuestPhysAddr, buf []byte, view GuestView) error {
	dev, ok := m.MemDeviceForMut(addr)
	if !ok {
		return &InvalidValueError{Message: fmt.Sprintf("no device claims guest address %s", addr)}
	}
	return dev.OnMemRead(addr, NewMemReadRequest(buf), view)
}

// DispatchMemWrite resolves the device that owns addr and invokes its
// OnMemWrite handler with a request wrapping buf.
func (m *DeviceMap) DispatchMemWrite(addr GuestPhysAddr, buf []byte, view GuestView) error {
	dev, ok := m.MemDeviceForMut(addr)
	if !ok {
		return &InvalidValueError{Message: fmt.Sprintf("no device claims guest address %s", addr)}
	}
	return dev.OnMemWrite(addr, NewMemWriteRequest(buf), view)
}
