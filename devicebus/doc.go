// Package devicebus is the device emulation dispatch core of a type-1
// hypervisor: a range-keyed registry of emulated devices and the typed
// request values that carry a single guest I/O transaction from the vmexit
// handler to the device model that owns it.
//
// The dispatcher (DeviceMap) never inspects guest memory or decides how a
// transaction reached it; that is the job of the caller, traditionally a
// vmexit handler (see the vmexit package for one way to wire the two
// together). DeviceMap only answers one question quickly and unambiguously:
// which registered device, if any, owns this port or guest-physical
// address.
package devicebus
