package command

import (
	"context"
	"fmt"

	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/infrastructure/mqtt"
)

// Publisher signals subscribers about a change accepted through the
// synchronous path. Contents is marshalled into the broker envelope.
type Publisher interface {
	Publish(deviceID, method string, contents any) error
}

// Projector receives accepted changes for the metric surface. Satisfied by
// metrics.Projector.
type Projector interface {
	ProjectParameter(d *device.Device, name string, value any) error
	ProjectStatus(d *device.Device, status string) error
	ProjectMetadata(id, key string, oldValue, newValue any)
	Bootstrap(d *device.Device)
	Forget(id string)
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

// Processor applies device commands in a fixed order: validate, project
// metrics, write the store, then optionally publish. Any failure before the
// store write leaves the stored device untouched.
type Processor struct {
	repo      device.Repository
	projector Projector
	publisher Publisher
	logger    Logger
}

// NewProcessor creates a command processor.
//
// Parameters:
//   - repo: Device store
//   - projector: Metric writer; also owns the engagement ledger
//   - publisher: Optional; nil disables publishing entirely
//   - logger: Optional
func NewProcessor(repo device.Repository, projector Projector, publisher Publisher, logger Logger) *Processor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Processor{
		repo:      repo,
		projector: projector,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates and stores a new device, seeds its metric series, and
// publishes the full device document when publish is set.
//
// Returns:
//   - error: Validation errors, or device.ErrDeviceExists for a duplicate id
func (p *Processor) Create(ctx context.Context, d *device.Device, publish bool) error {
	if err := device.ValidateNew(d); err != nil {
		return err
	}
	if err := p.repo.Insert(ctx, d); err != nil {
		return err
	}
	p.projector.Bootstrap(d)
	p.logger.Info("device created", "device_id", d.ID, "device_type", d.Type)

	if publish {
		p.publish(d.ID, mqtt.MethodPost, d)
	}
	return nil
}

// Update changes mutable configuration fields (room, name, status). A status
// field drives an engagement transition; room and name changes move their
// metadata samples.
//
// Returns:
//   - error: device.ErrIllegalField for a non-mutable key,
//     device.ErrUnknownState for a bad status, device.ErrDeviceNotFound
func (p *Processor) Update(ctx context.Context, id string, fields map[string]any, publish bool) error {
	if err := device.ValidateUpdateFields(fields); err != nil {
		return err
	}
	d, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for key, value := range fields {
		if key == "status" {
			// Validated as a known status string above
			if err := p.projector.ProjectStatus(d, value.(string)); err != nil {
				return err
			}
			continue
		}
		p.projector.ProjectMetadata(id, key, metadataValue(d, key), value)
	}

	if err := p.repo.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	p.logger.Info("device updated", "device_id", id)

	if publish {
		p.publish(id, mqtt.MethodUpdate, fields)
	}
	return nil
}

// Action applies real-time parameter changes. Every parameter is checked
// against the device type's policy and projected before anything is stored;
// the first rejected parameter aborts the whole command with no store write.
// Read-only parameters pass through and are persisted without a metric write.
//
// Returns:
//   - error: device.ErrDeviceNotFound, device.ErrUnknownParameter,
//     metrics.ErrInvalidValue via the projector
func (p *Processor) Action(ctx context.Context, id string, params map[string]any, publish bool) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: action requires at least one parameter", device.ErrMissingField)
	}
	d, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := device.ValidateParameters(d.Type, params); err != nil {
		return err
	}

	for key, value := range params {
		p.logger.Info("setting parameter", "device_id", id, "parameter", key, "value", value)
		if err := p.projector.ProjectParameter(d, key, value); err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
	}

	if err := p.repo.UpdateParameters(ctx, id, params); err != nil {
		return err
	}

	if publish {
		p.publish(id, mqtt.MethodAction, params)
	}
	return nil
}

// Delete removes a device. A device deleted while engaged first gets a
// synthesized disengaging transition so its final engagement interval is
// accounted, then the store entry is removed and the seen set forgets the
// id, which frees it for re-registration as first-seen.
//
// Returns:
//   - error: device.ErrDeviceNotFound
func (p *Processor) Delete(ctx context.Context, id string, publish bool) error {
	d, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if engaged, err := device.Engaged(d.Status); err == nil && engaged {
		counterpart, _ := device.Counterpart(d.Status)
		if err := p.projector.ProjectStatus(d, counterpart); err != nil {
			p.logger.Error("closing transition failed on delete",
				"device_id", id, "error", err)
		}
	}

	if err := p.repo.Delete(ctx, id); err != nil {
		return err
	}
	p.projector.Forget(id)
	p.logger.Info("device deleted", "device_id", id)

	if publish {
		p.publish(id, mqtt.MethodDelete, map[string]any{})
	}
	return nil
}

// MarkRead seeds metric series for a device surfaced through a read path.
// Safe to call on every read; an already-seen device is a no-op.
func (p *Processor) MarkRead(d *device.Device) {
	p.projector.Bootstrap(d)
}

func (p *Processor) publish(id, method string, contents any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(id, method, contents); err != nil {
		// The store write already happened; subscribers catch up on next read.
		p.logger.Error("publish failed", "device_id", id, "method", method, "error", err)
	}
}

// metadataValue returns the stored value of a mutable metadata field, used
// to clear the superseded metadata sample.
func metadataValue(d *device.Device, key string) any {
	switch key {
	case "room":
		return d.Room
	case "name":
		return d.Name
	}
	return nil
}
