package ingress

import "errors"

// Sentinel errors for broker message handling.
var (
	// ErrBadPayload indicates a payload that is not a valid JSON envelope.
	ErrBadPayload = errors.New("ingress: malformed payload")

	// ErrMissingSender indicates an envelope without a sender field; such
	// messages cannot be disambiguated from backend echoes and are dropped.
	ErrMissingSender = errors.New("ingress: payload missing sender")

	// ErrIDMismatch indicates a payload carrying a device id different from
	// the one in its topic.
	ErrIDMismatch = errors.New("ingress: device id mismatch between topic and payload")

	// ErrUnknownMethod indicates a topic whose method segment is not one of
	// action, update, post, delete.
	ErrUnknownMethod = errors.New("ingress: unknown method")
)
