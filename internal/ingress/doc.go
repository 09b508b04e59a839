// Package ingress adapts the MQTT broker to the command funnel.
//
// Devices publish state changes on project/home/<device_id>/<method>; the
// Listener subscribes to the device wildcard, unwraps the payload envelope,
// filters out the backend's own echoes by sender, and dispatches to the
// command processor with publishing disabled — a change that arrived over
// the broker must never be re-published to it.
//
// The Publisher is the opposite direction: changes accepted through the
// HTTP API are wrapped in a backend-sender envelope and published to the
// device's topic so subscribed devices converge.
//
// Everything on the ingress path is best-effort: malformed topics, missing
// senders, and rejected commands are logged with their context and dropped,
// never retried.
package ingress
