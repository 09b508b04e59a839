package device

import "fmt"

// Status values. Each device type uses one opposing pair:
// on/off (water heaters, lights, air conditioners), locked/unlocked
// (door locks), open/closed (curtains).
const (
	StatusOn       = "on"
	StatusOff      = "off"
	StatusLocked   = "locked"
	StatusUnlocked = "unlocked"
	StatusOpen     = "open"
	StatusClosed   = "closed"
)

// engagedByStatus maps every known status to its engagement polarity.
// Engaged means the device is actively doing its job: running, secured,
// or blocking light.
var engagedByStatus = map[string]bool{
	StatusOn:       true,
	StatusLocked:   true,
	StatusClosed:   true,
	StatusOff:      false,
	StatusUnlocked: false,
	StatusOpen:     false,
}

// counterpartByStatus maps each status to its opposite within its pair.
var counterpartByStatus = map[string]string{
	StatusOn:       StatusOff,
	StatusOff:      StatusOn,
	StatusLocked:   StatusUnlocked,
	StatusUnlocked: StatusLocked,
	StatusOpen:     StatusClosed,
	StatusClosed:   StatusOpen,
}

// Engaged reports whether a status value represents the engaged state.
//
// Returns:
//   - bool: true for on/locked/closed, false for off/unlocked/open
//   - error: ErrUnknownState for any other value
func Engaged(status string) (bool, error) {
	engaged, ok := engagedByStatus[status]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownState, status)
	}
	return engaged, nil
}

// Counterpart returns the opposite status within the same pair, e.g.
// locked→unlocked. Deletion uses it to synthesize the disengaging transition
// for a device removed while engaged.
//
// Returns:
//   - string: The opposing status value
//   - error: ErrUnknownState for an unrecognised status
func Counterpart(status string) (string, error) {
	c, ok := counterpartByStatus[status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, status)
	}
	return c, nil
}

// KnownStatus reports whether status is one of the six recognised values.
func KnownStatus(status string) bool {
	_, ok := engagedByStatus[status]
	return ok
}
