package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the smart-home message bus.
//
// Device traffic uses the flat scheme: project/home/{device_id}/{method}
// The backend and the physical devices share this topic space; the payload
// envelope's sender field distinguishes the two directions.
const (
	// TopicPrefixDevices is the base for all device sync topics.
	TopicPrefixDevices = "project/home"

	// TopicPrefixSystem is the base for backend lifecycle topics, kept
	// outside the device wildcard so status traffic never enters ingress.
	TopicPrefixSystem = "project/system"
)

// Command methods carried in a device topic's final segment.
const (
	MethodAction = "action"
	MethodUpdate = "update"
	MethodPost   = "post"
	MethodDelete = "delete"
)

// deviceTopicSegments is the exact segment count of a device topic:
// project / home / {device_id} / {method}
const deviceTopicSegments = 4

// Topics provides builders for smart-home MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	actionTopic := topics.Device("light-1", mqtt.MethodAction)
//	// Returns: "project/home/light-1/action"
type Topics struct{}

// Device returns the topic for a command method on a specific device.
//
// Example: project/home/light-1/action
func (Topics) Device(deviceID, method string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixDevices, deviceID, method)
}

// AllDevices returns a pattern matching every device topic.
//
// Pattern: project/home/#
func (Topics) AllDevices() string {
	return TopicPrefixDevices + "/#"
}

// SystemStatus returns the backend status topic used for LWT and
// graceful online/offline announcements.
//
// Example: project/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// ParseDevice extracts the device ID and command method from a device topic.
//
// The topic must be exactly four segments under the device prefix:
// project/home/{device_id}/{method}. Anything else (extra segments, empty
// segments, foreign prefixes) is rejected with ErrMalformedTopic. The
// method segment is returned as-is; callers decide whether it is one they
// handle.
//
// Parameters:
//   - topic: The topic a message was received on
//
// Returns:
//   - deviceID: The device identifier segment
//   - method: The command method segment
//   - error: ErrMalformedTopic if the topic does not match the scheme
func ParseDevice(topic string) (deviceID, method string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != deviceTopicSegments {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}
	if parts[0]+"/"+parts[1] != TopicPrefixDevices {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedTopic, topic)
	}
	return parts[2], parts[3], nil
}
