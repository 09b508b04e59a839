package ingress

import "encoding/json"

// senderBackend marks envelopes originated by this process. Inbound
// messages carrying it are echoes of our own publishes and are skipped.
const senderBackend = "backend"

// Envelope is the broker payload wrapper. Sender is a pointer so a missing
// field (reject) can be told apart from an empty one (foreign sender).
type Envelope struct {
	Sender   *string         `json:"sender"`
	Contents json.RawMessage `json:"contents"`
}

// outboundEnvelope is the backend-originated wire shape.
type outboundEnvelope struct {
	Sender   string `json:"sender"`
	Contents any    `json:"contents"`
}
