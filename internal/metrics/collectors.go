package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors bundles every metric the backend exposes, registered on a
// dedicated registry so the exposition endpoint serves exactly this set and
// tests can build isolated instances.
//
// Metric names and label shapes are part of the external contract: Grafana
// dashboards and the analytics window queries depend on them.
type Collectors struct {
	registry *prometheus.Registry

	// HTTP request instrumentation, driven by the API middleware.
	RequestCount   *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	// Cross-type device metrics.
	DeviceMetadata *prometheus.GaugeVec
	DeviceStatus   *prometheus.GaugeVec
	OnEvents       *prometheus.CounterVec
	UsageSeconds   *prometheus.CounterVec

	// Air conditioner.
	ACTemperature *prometheus.GaugeVec
	ACMode        *prometheus.GaugeVec
	ACFanSpeed    *prometheus.GaugeVec
	ACSwing       *prometheus.GaugeVec

	// Water heater.
	WaterHeaterTemperature *prometheus.GaugeVec
	WaterHeaterTarget      *prometheus.GaugeVec
	WaterHeaterHeating     *prometheus.GaugeVec
	WaterHeaterTimer       *prometheus.GaugeVec
	WaterHeaterSchedule    *prometheus.GaugeVec

	// Light.
	LightBrightness *prometheus.GaugeVec
	LightColor      *prometheus.GaugeVec

	// Door lock.
	LockStatus  *prometheus.GaugeVec
	LockBattery *prometheus.GaugeVec

	// Curtain.
	CurtainStatus *prometheus.GaugeVec
}

// NewCollectors creates the full metric set on a fresh registry.
func NewCollectors() *Collectors {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,

		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "request_count",
			Help: "Total HTTP requests by method and endpoint.",
		}, []string{"method", "endpoint"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "request_latency_seconds",
			Help:    "HTTP request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		DeviceMetadata: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "device_metadata",
			Help: "Device metadata as labelled samples; the current value of a key carries 1, superseded values 0.",
		}, []string{"device_id", "key", "value"}),
		DeviceStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "device_status",
			Help: "Device engagement state (1 engaged, 0 not).",
		}, []string{"device_id", "device_type"}),
		OnEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "device_on_events_total",
			Help: "Total number of times a device became engaged.",
		}, []string{"device_id", "device_type"}),
		UsageSeconds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "device_usage_seconds_total",
			Help: "Accumulated engaged time in seconds, added when an engagement interval closes.",
		}, []string{"device_id", "device_type"}),

		ACTemperature: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ac_temperature",
			Help: "Air conditioner target temperature.",
		}, []string{"device_id"}),
		ACMode: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ac_mode_status",
			Help: "Air conditioner operating mode (1 for the active mode, 0 otherwise).",
		}, []string{"device_id", "mode"}),
		ACFanSpeed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ac_fan_status",
			Help: "Air conditioner fan speed (1 for the active speed, 0 otherwise).",
		}, []string{"device_id", "mode"}),
		ACSwing: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ac_swing_status",
			Help: "Air conditioner swing mode (1 for the active mode, 0 otherwise).",
		}, []string{"device_id", "mode"}),

		WaterHeaterTemperature: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_heater_temperature",
			Help: "Water heater current temperature.",
		}, []string{"device_id"}),
		WaterHeaterTarget: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_heater_target_temperature",
			Help: "Water heater target temperature.",
		}, []string{"device_id"}),
		WaterHeaterHeating: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_heater_is_heating_status",
			Help: "Water heater heating flag as a labelled pair (state=true/false).",
		}, []string{"device_id", "state"}),
		WaterHeaterTimer: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_heater_timer_enabled_status",
			Help: "Water heater timer flag as a labelled pair (state=true/false).",
		}, []string{"device_id", "state"}),
		WaterHeaterSchedule: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "water_heater_schedule_info",
			Help: "Water heater schedule window; the current on/off pair carries 1.",
		}, []string{"device_id", "scheduled_on", "scheduled_off"}),

		LightBrightness: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "light_brightness",
			Help: "Light brightness percentage.",
		}, []string{"device_id", "is_dimmable"}),
		LightColor: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "light_color",
			Help: "Light color as the 24-bit integer value of its hex code.",
		}, []string{"device_id", "dynamic_color"}),

		LockStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lock_status",
			Help: "Door lock state as a labelled pair (state=locked/unlocked).",
		}, []string{"device_id", "state"}),
		LockBattery: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lock_battery_level",
			Help: "Door lock battery percentage.",
		}, []string{"device_id"}),

		CurtainStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "curtain_status",
			Help: "Curtain state as a labelled pair (state=open/closed).",
		}, []string{"device_id", "state"}),
	}
}

// Registry returns the registry holding every collector, for the exposition
// handler and for test assertions.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}
