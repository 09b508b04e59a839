package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/usage"
)

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Projector translates device state changes into metric updates.
//
// It is the single writer of the device metric families: the command
// processor calls it for every validated change, and bootstrap replays a
// stored device through the same paths so restarts converge on the same
// series. Status projection also drives the usage tracker, which decides
// whether a transition opens or closes an engagement interval.
type Projector struct {
	collectors *Collectors
	tracker    *usage.Tracker
	logger     Logger
}

// NewProjector creates a projector writing to the given collectors and
// recording engagement transitions in the given tracker.
//
// Parameters:
//   - collectors: Metric set to write to
//   - tracker: Engagement ledger shared with the analytics aggregator
//   - logger: Optional; skipped projections are logged here
func NewProjector(collectors *Collectors, tracker *usage.Tracker, logger Logger) *Projector {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Projector{
		collectors: collectors,
		tracker:    tracker,
		logger:     logger,
	}
}

// ProjectParameter projects one parameter value according to its semantics
// class. The device carries the pre-change state: label values that depend
// on sibling parameters (is_dimmable, dynamic_color, the schedule
// counterpart) are read from it.
//
// Returns:
//   - error: ErrInvalidValue or a policy lookup error. An unparseable color
//     is logged and skipped, not an error.
func (p *Projector) ProjectParameter(d *device.Device, name string, value any) error {
	spec, err := device.ParameterPolicy(d.Type, name)
	if err != nil {
		return err
	}

	switch spec.Semantics {
	case device.SemanticsReadOnly:
		// Accepted and persisted by the caller, never projected.
		return nil

	case device.SemanticsGauge:
		f, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("%w: %q expects a number, got %T", ErrInvalidValue, name, value)
		}
		gauge, ok := p.gaugeSample(d, name)
		if !ok {
			p.logger.Warn("no gauge mapped for parameter", "device_id", d.ID, "parameter", name)
			return nil
		}
		gauge.Set(f)

	case device.SemanticsFlag:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q expects a boolean, got %T", ErrInvalidValue, name, value)
		}
		vec, ok := p.flagVec(d.Type, name)
		if !ok {
			p.logger.Warn("no flag pair mapped for parameter", "device_id", d.ID, "parameter", name)
			return nil
		}
		vec.WithLabelValues(d.ID, "true").Set(boolToFloat(b))
		vec.WithLabelValues(d.ID, "false").Set(boolToFloat(!b))

	case device.SemanticsCategorical:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, name, value)
		}
		vec, ok := p.categoricalVec(d.Type, name)
		if !ok {
			p.logger.Warn("no categorical vec mapped for parameter", "device_id", d.ID, "parameter", name)
			return nil
		}
		setOneOf(vec, d.ID, s, spec.Categories)

	case device.SemanticsColor:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, name, value)
		}
		n, ok := parseColor(s)
		if !ok {
			// Bad color codes never fail the command that carried them.
			p.logger.Warn("unparseable color code, skipping projection",
				"device_id", d.ID, "value", s)
			return nil
		}
		p.collectors.LightColor.
			WithLabelValues(d.ID, siblingLabel(d, "dynamic_color")).
			Set(float64(n))

	case device.SemanticsSchedule:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %q expects a string, got %T", ErrInvalidValue, name, value)
		}
		p.projectSchedule(d, name, s)
	}

	return nil
}

// projectSchedule updates the joint schedule gauge. Both schedule keys share
// one labelled family, so projecting either key reads its counterpart from
// the device's stored parameters; the superseded label pair is cleared.
func (p *Projector) projectSchedule(d *device.Device, name, value string) {
	oldOn := siblingLabel(d, "scheduled_on")
	oldOff := siblingLabel(d, "scheduled_off")

	newOn, newOff := oldOn, oldOff
	if name == "scheduled_on" {
		newOn = value
	} else {
		newOff = value
	}

	if newOn != oldOn || newOff != oldOff {
		p.collectors.WaterHeaterSchedule.WithLabelValues(d.ID, oldOn, oldOff).Set(0)
	}
	p.collectors.WaterHeaterSchedule.WithLabelValues(d.ID, newOn, newOff).Set(1)
}

// ProjectStatus records a status transition: the engagement gauge, the
// on-event counter when the tracker counts the opening, the usage counter
// when an interval closes, and the per-type labelled state pair for locks
// and curtains.
//
// Returns:
//   - error: ErrUnknownState for an unrecognised status value
func (p *Projector) ProjectStatus(d *device.Device, status string) error {
	engaged, err := device.Engaged(status)
	if err != nil {
		return err
	}

	tr := p.tracker.RecordTransition(d.ID, engaged)

	id, dt := d.ID, string(d.Type)
	p.collectors.DeviceStatus.WithLabelValues(id, dt).Set(boolToFloat(engaged))
	if tr.CountEvent {
		p.collectors.OnEvents.WithLabelValues(id, dt).Inc()
	}
	if tr.Closed {
		p.collectors.UsageSeconds.WithLabelValues(id, dt).Add(tr.Duration.Seconds())
	}

	switch d.Type {
	case device.DeviceTypeDoorLock:
		setOneOf(p.collectors.LockStatus, id, status,
			[]string{device.StatusLocked, device.StatusUnlocked})
	case device.DeviceTypeCurtain:
		setOneOf(p.collectors.CurtainStatus, id, status,
			[]string{device.StatusOpen, device.StatusClosed})
	}

	return nil
}

// ProjectMetadata moves a metadata key to a new value: the superseded value's
// sample drops to 0, the current value's to 1, so a Grafana query for samples
// at 1 always sees exactly the live metadata.
func (p *Projector) ProjectMetadata(id, key string, oldValue, newValue any) {
	newLabel := fmt.Sprint(newValue)
	if oldValue != nil {
		if oldLabel := fmt.Sprint(oldValue); oldLabel != newLabel {
			p.collectors.DeviceMetadata.WithLabelValues(id, key, oldLabel).Set(0)
		}
	}
	p.collectors.DeviceMetadata.WithLabelValues(id, key, newLabel).Set(1)
}

// Bootstrap seeds the metric series for a device the process has not seen
// yet: counters initialised so increase() queries have a baseline, metadata
// and status projected, then every stored parameter. The device is marked
// seen only at the end, so the bootstrap's own opening transition never
// counts as an on-event.
//
// Idempotent per process lifetime; a device already in the seen set is left
// untouched.
func (p *Projector) Bootstrap(d *device.Device) {
	if p.tracker.Seen(d.ID) {
		return
	}

	id, dt := d.ID, string(d.Type)
	p.collectors.OnEvents.WithLabelValues(id, dt).Add(0)
	p.collectors.UsageSeconds.WithLabelValues(id, dt).Add(0)

	p.ProjectMetadata(id, "room", nil, d.Room)
	p.ProjectMetadata(id, "name", nil, d.Name)

	if err := p.ProjectStatus(d, d.Status); err != nil {
		p.logger.Warn("bootstrap skipping status projection",
			"device_id", id, "status", d.Status, "error", err)
	}

	for name, value := range d.Parameters {
		if err := p.ProjectParameter(d, name, value); err != nil {
			p.logger.Warn("bootstrap skipping parameter projection",
				"device_id", id, "parameter", name, "error", err)
		}
	}

	p.tracker.MarkSeen(id)
}

// Forget drops a deleted device from the seen set so a future re-creation
// bootstraps again. Interval history stays behind for analytics windows that
// reach back past the deletion. Callers project the closing status
// transition first so the final interval is accounted.
func (p *Projector) Forget(id string) {
	p.tracker.Forget(id)
}

// gaugeSample resolves a numeric parameter to its per-type gauge child.
func (p *Projector) gaugeSample(d *device.Device, name string) (prometheus.Gauge, bool) {
	switch d.Type {
	case device.DeviceTypeWaterHeater:
		switch name {
		case "temperature":
			return p.collectors.WaterHeaterTemperature.WithLabelValues(d.ID), true
		case "target_temperature":
			return p.collectors.WaterHeaterTarget.WithLabelValues(d.ID), true
		}
	case device.DeviceTypeAirConditioner:
		if name == "temperature" {
			return p.collectors.ACTemperature.WithLabelValues(d.ID), true
		}
	case device.DeviceTypeLight:
		if name == "brightness" {
			return p.collectors.LightBrightness.
				WithLabelValues(d.ID, siblingLabel(d, "is_dimmable")), true
		}
	case device.DeviceTypeDoorLock:
		if name == "battery_level" {
			return p.collectors.LockBattery.WithLabelValues(d.ID), true
		}
	}
	return nil, false
}

// flagVec resolves a boolean parameter to its labelled pair family.
func (p *Projector) flagVec(t device.DeviceType, name string) (*prometheus.GaugeVec, bool) {
	if t != device.DeviceTypeWaterHeater {
		return nil, false
	}
	switch name {
	case "is_heating":
		return p.collectors.WaterHeaterHeating, true
	case "timer_enabled":
		return p.collectors.WaterHeaterTimer, true
	}
	return nil, false
}

// categoricalVec resolves a one-of-N parameter to its labelled family.
func (p *Projector) categoricalVec(t device.DeviceType, name string) (*prometheus.GaugeVec, bool) {
	if t != device.DeviceTypeAirConditioner {
		return nil, false
	}
	switch name {
	case "mode":
		return p.collectors.ACMode, true
	case "fan_speed":
		return p.collectors.ACFanSpeed, true
	case "swing":
		return p.collectors.ACSwing, true
	}
	return nil, false
}

// setOneOf sets the selected value's sample to 1 and every other value in the
// domain to 0. A selection outside the domain clears the whole domain.
func setOneOf(vec *prometheus.GaugeVec, id, selected string, domain []string) {
	for _, v := range domain {
		vec.WithLabelValues(id, v).Set(boolToFloat(v == selected))
	}
}

// parseColor converts a 7-character "#RRGGBB" string to its 24-bit value.
// Anything else, including longer hex strings, is rejected.
func parseColor(s string) (uint64, bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, false
	}
	n, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}

// siblingLabel renders another parameter of the same device as a label value.
func siblingLabel(d *device.Device, name string) string {
	v, ok := d.Parameters[name]
	if !ok || v == nil {
		return ""
	}
	if b, isBool := v.(bool); isBool {
		return strconv.FormatBool(b)
	}
	return fmt.Sprint(v)
}

// asFloat coerces the numeric types JSON and BSON decoding produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
