package device

import "context"

// Repository defines the interface for device persistence operations.
// This abstraction allows for different implementations (MongoDB, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// List retrieves all devices.
	List(ctx context.Context) ([]*Device, error)

	// ListIDs retrieves the identifiers of all devices.
	ListIDs(ctx context.Context) ([]string, error)

	// Insert stores a new device.
	// Returns ErrDeviceExists if a device with the same ID already exists.
	Insert(ctx context.Context, device *Device) error

	// Delete removes a device by ID.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, id string) error

	// UpdateFields sets top-level fields (room, name, status) on a device.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// UpdateParameters sets individual parameter values on a device without
	// replacing parameters the command did not mention.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateParameters(ctx context.Context, id string, params map[string]any) error
}
