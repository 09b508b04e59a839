package device

import (
	"fmt"
	"strings"
)

// mutableFields is the set of top-level fields an update command may change.
// Identity (id, type) and parameters have their own dedicated paths.
var mutableFields = map[string]struct{}{
	"room":   {},
	"name":   {},
	"status": {},
}

// ValidateNew performs full validation on a device about to be created.
// Returns an error describing the first validation failure found.
func ValidateNew(d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: device", ErrMissingField)
	}

	// Required fields
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if d.Type == "" {
		return fmt.Errorf("%w: type", ErrMissingField)
	}
	if strings.TrimSpace(d.Room) == "" {
		return fmt.Errorf("%w: room", ErrMissingField)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if d.Status == "" {
		return fmt.Errorf("%w: status", ErrMissingField)
	}
	if d.Parameters == nil {
		return fmt.Errorf("%w: parameters", ErrMissingField)
	}

	// Type must be in the policy table
	if !ValidType(d.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}

	// Status must belong to a known engagement domain
	if !KnownStatus(d.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownState, d.Status)
	}

	// Every supplied parameter must be legal for the type
	return ValidateParameters(d.Type, d.Parameters)
}

// ValidateUpdateFields checks that an update command only touches mutable
// metadata fields (room, name, status) and that a status value, if present,
// is recognised.
//
// Returns:
//   - error: ErrIllegalField naming the first offending key,
//     ErrUnknownState for an unrecognised status, or ErrMissingField when
//     the update is empty
func ValidateUpdateFields(fields map[string]any) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: update requires at least one field", ErrMissingField)
	}

	for key := range fields {
		if _, ok := mutableFields[key]; !ok {
			return fmt.Errorf("%w: %q", ErrIllegalField, key)
		}
	}

	if raw, ok := fields["status"]; ok {
		status, ok := raw.(string)
		if !ok || !KnownStatus(status) {
			return fmt.Errorf("%w: %v", ErrUnknownState, raw)
		}
	}

	return nil
}
