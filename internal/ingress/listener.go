package ingress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/infrastructure/mqtt"
)

// Commands is the slice of the command processor the listener drives.
// Every dispatch passes publish=false: the change already travelled the
// broker.
type Commands interface {
	Create(ctx context.Context, d *device.Device, publish bool) error
	Update(ctx context.Context, id string, fields map[string]any, publish bool) error
	Action(ctx context.Context, id string, params map[string]any, publish bool) error
	Delete(ctx context.Context, id string, publish bool) error
}

// Subscriber is the subscribe surface of the MQTT client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Listener receives device-originated messages from the broker wildcard and
// turns them into commands.
type Listener struct {
	commands Commands
	qos      byte
	logger   Logger

	// ctx bounds the command calls made from broker handler goroutines.
	ctx context.Context
}

// NewListener creates a listener dispatching to the given command funnel.
//
// Parameters:
//   - ctx: Lifetime context; command calls from handler goroutines use it
//   - commands: Command funnel (publish is always disabled)
//   - qos: Subscription QoS from config
//   - logger: Optional
func NewListener(ctx context.Context, commands Commands, qos byte, logger Logger) *Listener {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Listener{
		commands: commands,
		qos:      qos,
		logger:   logger,
		ctx:      ctx,
	}
}

// Start subscribes to the device wildcard. The subscription is restored
// automatically by the client on reconnect.
//
// Returns:
//   - error: If the subscribe fails
func (l *Listener) Start(sub Subscriber) error {
	return sub.Subscribe(mqtt.Topics{}.AllDevices(), l.qos, l.HandleMessage)
}

// HandleMessage processes one broker message. Errors are returned for the
// client's handler logging and the message is dropped; nothing on this path
// is retried.
func (l *Listener) HandleMessage(topic string, payload []byte) error {
	deviceID, method, err := mqtt.ParseDevice(topic)
	if err != nil {
		l.logger.Error("dropping message with malformed topic", "topic", topic, "error", err)
		return err
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		l.logger.Error("dropping malformed payload",
			"topic", topic, "device_id", deviceID, "method", method, "error", err)
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if env.Sender == nil {
		l.logger.Error("dropping payload without sender",
			"topic", topic, "device_id", deviceID, "method", method)
		return ErrMissingSender
	}
	if *env.Sender == senderBackend {
		// Echo of our own publish
		return nil
	}

	l.logger.Info("broker message received", "device_id", deviceID, "method", method)

	if err := l.dispatch(deviceID, method, env.Contents); err != nil {
		l.logger.Error("command rejected",
			"topic", topic, "device_id", deviceID, "method", method, "error", err)
		return err
	}
	return nil
}

func (l *Listener) dispatch(deviceID, method string, contents json.RawMessage) error {
	switch method {
	case mqtt.MethodAction:
		var params map[string]any
		if err := json.Unmarshal(contents, &params); err != nil {
			return fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		return l.commands.Action(l.ctx, deviceID, params, false)

	case mqtt.MethodUpdate:
		var fields map[string]any
		if err := json.Unmarshal(contents, &fields); err != nil {
			return fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		if err := checkID(deviceID, fields["id"]); err != nil {
			return err
		}
		return l.commands.Update(l.ctx, deviceID, fields, false)

	case mqtt.MethodPost:
		var d device.Device
		if err := json.Unmarshal(contents, &d); err != nil {
			return fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		if d.ID != "" && d.ID != deviceID {
			return fmt.Errorf("%w: topic %q, payload %q", ErrIDMismatch, deviceID, d.ID)
		}
		return l.commands.Create(l.ctx, &d, false)

	case mqtt.MethodDelete:
		return l.commands.Delete(l.ctx, deviceID, false)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// checkID guards update payloads that carry an explicit id against the
// topic they arrived on.
func checkID(topicID string, raw any) error {
	if raw == nil {
		return nil
	}
	if id, ok := raw.(string); ok && id == topicID {
		return nil
	}
	return fmt.Errorf("%w: topic %q, payload %v", ErrIDMismatch, topicID, raw)
}
