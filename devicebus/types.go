package devicebus

import "fmt"

// Port names a legacy x86 I/O port (the address space IN/OUT instructions
// operate on).
type Port uint16

// GuestPhysAddr is a guest-physical address. The dispatcher treats it as an
// opaque orderable scalar: no arithmetic on it is required beyond the
// comparisons RangeKey performs, and ToUint64 exists only for display and
// for collaborators that need the raw value.
type GuestPhysAddr uint64

// ToUint64 projects the address to a plain uint64, e.g. for logging or for
// indexing into a flat memory backing.
func (a GuestPhysAddr) ToUint64() uint64 { return uint64(a) }

func (a GuestPhysAddr) String() string { return fmt.Sprintf("0x%x", uint64(a)) }

func (p Port) String() string { return fmt.Sprintf("0x%x", uint16(p)) }
