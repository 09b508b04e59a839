package ingress

import (
	"encoding/json"
	"fmt"

	"github.com/project-home/smart-home-core/internal/infrastructure/mqtt"
)

// Broker is the publish surface of the MQTT client.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Publisher wraps accepted changes in a backend envelope and publishes them
// to the changed device's topic. It satisfies command.Publisher.
type Publisher struct {
	broker Broker
	qos    byte
}

// NewPublisher creates a publisher using the configured QoS for every
// message.
func NewPublisher(broker Broker, qos byte) *Publisher {
	return &Publisher{broker: broker, qos: qos}
}

// Publish sends contents to project/home/<deviceID>/<method> wrapped in the
// backend-sender envelope.
//
// Returns:
//   - error: Marshalling or broker publish failure
func (p *Publisher) Publish(deviceID, method string, contents any) error {
	payload, err := json.Marshal(outboundEnvelope{
		Sender:   senderBackend,
		Contents: contents,
	})
	if err != nil {
		return fmt.Errorf("ingress: marshalling envelope: %w", err)
	}
	return p.broker.Publish(mqtt.Topics{}.Device(deviceID, method), payload, p.qos, false)
}
