package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/common/model"

	"github.com/project-home/smart-home-core/internal/usage"
)

// Counter families queried for the analytics window.
const (
	usageMetric  = "device_usage_seconds_total"
	eventsMetric = "device_on_events_total"
)

// unknownDevice labels samples whose series carries no device_id.
const unknownDevice = "unknown"

// reportMessage points report consumers at the full dashboard.
const reportMessage = "For full analytics, charts, and trends, visit the Grafana dashboard."

// Window is the half-open time range a report covers.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DeviceUsage is the per-device slice of a report.
type DeviceUsage struct {
	TotalUsageMinutes float64 `json:"total_usage_minutes"`
	OnEvents          int     `json:"on_events"`
}

// Aggregate sums the per-device figures. TotalDevices is the size of the
// seen set, not just the devices active inside the window.
type Aggregate struct {
	TotalDevices      int     `json:"total_devices"`
	TotalOnEvents     int     `json:"total_on_events"`
	TotalUsageMinutes float64 `json:"total_usage_minutes"`
}

// Report is the analytics response body.
type Report struct {
	AnalyticsWindow Window                  `json:"analytics_window"`
	Aggregate       Aggregate               `json:"aggregate"`
	OnDevices       map[string]*DeviceUsage `json:"on_devices"`
	Message         string                  `json:"message"`
}

// IncreaseQuerier answers counter-increase window queries. Satisfied by
// tsdb.Client.
type IncreaseQuerier interface {
	Increase(ctx context.Context, metric string, from, to time.Time) (model.Vector, error)
}

// IntervalSource exposes the engagement ledger views the aggregator needs.
// Satisfied by usage.Tracker.
type IntervalSource interface {
	IntervalAt(id string, at time.Time) (usage.Interval, bool)
	SeenCount() int
}

// Aggregator builds usage reports over a time window.
type Aggregator struct {
	querier IncreaseQuerier
	ledger  IntervalSource
}

// NewAggregator creates an aggregator reading from the given query backend
// and engagement ledger.
func NewAggregator(querier IncreaseQuerier, ledger IntervalSource) *Aggregator {
	return &Aggregator{
		querier: querier,
		ledger:  ledger,
	}
}

// Aggregate builds the usage report for [from, to).
//
// Usage minutes come from the counter increase over the window plus, for
// any device whose engagement interval still covers the window end, the
// not-yet-counted overlap of that interval with the window. On-events come
// straight from the event counter increase.
//
// Parameters:
//   - ctx: Context for cancellation
//   - from: Window start
//   - to: Window end
//
// Returns:
//   - *Report: The complete report
//   - error: ErrInvalidWindow, or ErrQueryFailed wrapping the backend error
func (a *Aggregator) Aggregate(ctx context.Context, from, to time.Time) (*Report, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: %v >= %v", ErrInvalidWindow, from, to)
	}

	usageVec, err := a.querier.Increase(ctx, usageMetric, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	eventVec, err := a.querier.Increase(ctx, eventsMetric, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	devices := make(map[string]*DeviceUsage)
	entry := func(id string) *DeviceUsage {
		if d, ok := devices[id]; ok {
			return d
		}
		d := &DeviceUsage{}
		devices[id] = d
		return d
	}

	for _, sample := range usageVec {
		id := deviceID(sample)
		d := entry(id)
		d.TotalUsageMinutes = float64(sample.Value) / 60

		// An interval still covering the window end has not been added to
		// the counter yet; count its overlap with the window.
		if iv, ok := a.ledger.IntervalAt(id, to); ok {
			start := iv.Start
			if start.Before(from) {
				start = from
			}
			if extra := to.Sub(start); extra > 0 {
				d.TotalUsageMinutes += extra.Minutes()
			}
		}
	}

	for _, sample := range eventVec {
		entry(deviceID(sample)).OnEvents = int(sample.Value)
	}

	report := &Report{
		AnalyticsWindow: Window{From: from, To: to},
		OnDevices:       devices,
		Message:         reportMessage,
	}
	report.Aggregate.TotalDevices = a.ledger.SeenCount()
	for _, d := range devices {
		report.Aggregate.TotalOnEvents += d.OnEvents
		report.Aggregate.TotalUsageMinutes += d.TotalUsageMinutes
	}
	return report, nil
}

func deviceID(sample *model.Sample) string {
	if id, ok := sample.Metric["device_id"]; ok {
		return string(id)
	}
	return unknownDevice
}
