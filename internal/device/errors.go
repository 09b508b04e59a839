package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when creating a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrMissingField is returned when a required device field is absent or empty.
	ErrMissingField = errors.New("device: missing required field")

	// ErrUnknownType is returned when a device type is not recognised.
	ErrUnknownType = errors.New("device: unknown type")

	// ErrUnknownParameter is returned when a parameter name is not legal for
	// the device's type.
	ErrUnknownParameter = errors.New("device: unknown parameter")

	// ErrIllegalField is returned when an update carries a field outside the
	// mutable set (room, name, status).
	ErrIllegalField = errors.New("device: illegal field")

	// ErrUnknownState is returned when a status value is outside the known
	// engagement domains (on/off, locked/unlocked, open/closed).
	ErrUnknownState = errors.New("device: unknown state")
)
