package device

// Device represents a synchronized smart-home device.
// The same document shape is stored in MongoDB and served over the API.
type Device struct {
	// Identity
	ID   string     `json:"id" bson:"id"`
	Type DeviceType `json:"type" bson:"type"`

	// Metadata
	Room string `json:"room" bson:"room"`
	Name string `json:"name" bson:"name"`

	// Current engagement state (on/off, locked/unlocked, open/closed).
	Status string `json:"status" bson:"status"`

	// Parameters holds type-specific settings keyed by parameter name.
	// The set of legal keys per device type is fixed by the policy table.
	Parameters map[string]any `json:"parameters" bson:"parameters"`
}

// DeepCopy creates a complete independent copy of the Device.
// The parameters map is cloned so modifications to the copy
// do not affect the original. This is essential for cache isolation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d // Shallow copy of value fields
	cpy.Parameters = deepCopyMap(d.Parameters)

	return &cpy
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, int, float64, etc.) are safe to copy by value
		return v
	}
}

// DeviceType represents the specific kind of device.
type DeviceType string //nolint:revive // device.DeviceType is clearer than device.Type in calling code

// DeviceType constants.
const (
	DeviceTypeWaterHeater    DeviceType = "water_heater"
	DeviceTypeLight          DeviceType = "light"
	DeviceTypeAirConditioner DeviceType = "air_conditioner"
	DeviceTypeDoorLock       DeviceType = "door_lock"
	DeviceTypeCurtain        DeviceType = "curtain"
)

// AllDeviceTypes returns all valid device type values.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeWaterHeater, DeviceTypeLight, DeviceTypeAirConditioner,
		DeviceTypeDoorLock, DeviceTypeCurtain,
	}
}
