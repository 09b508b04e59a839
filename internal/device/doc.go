// Package device provides the device model and parameter policy table for
// the smart-home backend.
//
// Every device in a home is one document: identity (id, type), metadata
// (room, name), an engagement status, and a bag of type-specific parameters.
// The policy table fixes which parameter names are legal per device type and
// how each value is interpreted when projected into metrics.
//
// # Key Types
//
//   - Device: The synchronized entity (id, type, room, name, status, parameters)
//   - DeviceType: water_heater, light, air_conditioner, door_lock, curtain
//   - ParameterSpec / Semantics: per-parameter interpretation class
//     (gauge, flag, categorical, color, schedule, read-only)
//   - Repository: persistence boundary with a MongoDB implementation
//
// # Usage
//
//	repo := device.NewMongoRepository(collection)
//
//	dev := &device.Device{
//	    ID:     "light-1",
//	    Type:   device.DeviceTypeLight,
//	    Room:   "living_room",
//	    Name:   "Ceiling Light",
//	    Status: device.StatusOff,
//	    Parameters: map[string]any{
//	        "brightness": 80,
//	        "color":      "#ffcc00",
//	    },
//	}
//	if err := device.ValidateNew(dev); err != nil {
//	    return err
//	}
//	if err := repo.Insert(ctx, dev); err != nil {
//	    return err
//	}
//
//	// Consult the policy table
//	spec, _ := device.ParameterPolicy(device.DeviceTypeLight, "brightness")
//	// spec.Semantics == device.SemanticsGauge
//
// # Thread Safety
//
// The package holds no mutable state; Device values are copied with
// DeepCopy wherever callers must not share the parameters map. The
// Repository implementation must be safe for concurrent use (the MongoDB
// driver is).
package device
