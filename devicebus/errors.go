package devicebus

// InvalidDeviceError reports a registration failure: a device offered a
// region that overlaps one already claimed, by a previously registered
// device or by an earlier region of the same device, or a region of an
// unknown type.
type InvalidDeviceError struct {
	Message string
}

func (e *InvalidDeviceError) Error() string { return e.Message }

// InvalidValueError reports a malformed access-request width, an
// unconvertible narrowing conversion, an access to a port within a
// device's claimed set that the device does not actually understand, or a
// dispatched access to a port or address that no registered device claims.
type InvalidValueError struct {
	Message string
}

func (e *InvalidValueError) Error() string { return e.Message }

// NotImplementedError reports that a device received a handler call for a
// direction or kind of access it does not support.
type NotImplementedError struct {
	Message string
}

func (e *NotImplementedError) Error() string { return e.Message }
