package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/common/model"

	"github.com/project-home/smart-home-core/internal/usage"
)

// mockQuerier returns canned vectors per metric name.
type mockQuerier struct {
	vectors map[string]model.Vector
	errs    map[string]error
	queried []string
}

func (m *mockQuerier) Increase(_ context.Context, metric string, _, _ time.Time) (model.Vector, error) {
	m.queried = append(m.queried, metric)
	if err := m.errs[metric]; err != nil {
		return nil, err
	}
	return m.vectors[metric], nil
}

// mockLedger is a fixed view of the engagement ledger.
type mockLedger struct {
	intervals map[string]usage.Interval
	seen      int
}

func (m *mockLedger) IntervalAt(id string, _ time.Time) (usage.Interval, bool) {
	iv, ok := m.intervals[id]
	return iv, ok
}

func (m *mockLedger) SeenCount() int { return m.seen }

func sample(id string, value float64) *model.Sample {
	return &model.Sample{
		Metric: model.Metric{"device_id": model.LabelValue(id)},
		Value:  model.SampleValue(value),
	}
}

func testWindow() (time.Time, time.Time) {
	to := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	return to.Add(-24 * time.Hour), to
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	from, to := testWindow()
	querier := &mockQuerier{vectors: map[string]model.Vector{
		usageMetric:  {sample("light-1", 3600), sample("heater-1", 0)},
		eventsMetric: {sample("light-1", 2)},
	}}
	// heater-1 has been on for the last 30 minutes and is still on
	ledger := &mockLedger{
		intervals: map[string]usage.Interval{
			"heater-1": {Start: to.Add(-30 * time.Minute)},
		},
		seen: 3,
	}

	report, err := NewAggregator(querier, ledger).Aggregate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if got := report.OnDevices["light-1"]; !approx(got.TotalUsageMinutes, 60) || got.OnEvents != 2 {
		t.Errorf("light-1 = %+v, want 60 minutes / 2 events", got)
	}
	if got := report.OnDevices["heater-1"]; !approx(got.TotalUsageMinutes, 30) {
		t.Errorf("heater-1 = %+v, want 30 extrapolated minutes", got)
	}

	agg := report.Aggregate
	if agg.TotalDevices != 3 {
		t.Errorf("TotalDevices = %d, want 3 (seen-set size)", agg.TotalDevices)
	}
	if agg.TotalOnEvents != 2 {
		t.Errorf("TotalOnEvents = %d, want 2", agg.TotalOnEvents)
	}
	if !approx(agg.TotalUsageMinutes, 90) {
		t.Errorf("TotalUsageMinutes = %v, want 90", agg.TotalUsageMinutes)
	}

	if report.AnalyticsWindow.From != from || report.AnalyticsWindow.To != to {
		t.Errorf("AnalyticsWindow = %+v, want [%v, %v]", report.AnalyticsWindow, from, to)
	}
}

func TestAggregate_OpenIntervalClampedToWindow(t *testing.T) {
	from, to := testWindow()
	querier := &mockQuerier{vectors: map[string]model.Vector{
		usageMetric:  {sample("light-1", 0)},
		eventsMetric: {},
	}}
	// The interval opened before the window; only the in-window part counts
	ledger := &mockLedger{
		intervals: map[string]usage.Interval{
			"light-1": {Start: from.Add(-2 * time.Hour)},
		},
		seen: 1,
	}

	report, err := NewAggregator(querier, ledger).Aggregate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got := report.OnDevices["light-1"].TotalUsageMinutes; !approx(got, to.Sub(from).Minutes()) {
		t.Errorf("TotalUsageMinutes = %v, want full window %v", got, to.Sub(from).Minutes())
	}
}

func TestAggregate_InvalidWindow(t *testing.T) {
	querier := &mockQuerier{}
	a := NewAggregator(querier, &mockLedger{})
	now := time.Now()

	for _, tt := range []struct {
		name     string
		from, to time.Time
	}{
		{"equal", now, now},
		{"inverted", now, now.Add(-time.Hour)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Aggregate(context.Background(), tt.from, tt.to); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("Aggregate() error = %v, want ErrInvalidWindow", err)
			}
		})
	}
	if len(querier.queried) != 0 {
		t.Error("invalid window still reached the query backend")
	}
}

func TestAggregate_QueryFailure(t *testing.T) {
	from, to := testWindow()
	upstream := errors.New("storage unavailable")

	for _, metric := range []string{usageMetric, eventsMetric} {
		t.Run(metric, func(t *testing.T) {
			querier := &mockQuerier{
				vectors: map[string]model.Vector{usageMetric: {}, eventsMetric: {}},
				errs:    map[string]error{metric: upstream},
			}
			_, err := NewAggregator(querier, &mockLedger{}).Aggregate(context.Background(), from, to)
			if !errors.Is(err, ErrQueryFailed) {
				t.Fatalf("Aggregate() error = %v, want ErrQueryFailed", err)
			}
			if !errors.Is(err, upstream) {
				t.Error("Aggregate() error does not carry the upstream detail")
			}
		})
	}
}

func TestAggregate_MissingDeviceLabel(t *testing.T) {
	from, to := testWindow()
	querier := &mockQuerier{vectors: map[string]model.Vector{
		usageMetric:  {{Metric: model.Metric{}, Value: 600}},
		eventsMetric: {},
	}}

	report, err := NewAggregator(querier, &mockLedger{}).Aggregate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if _, ok := report.OnDevices[unknownDevice]; !ok {
		t.Errorf("unlabelled sample not filed under %q: %v", unknownDevice, report.OnDevices)
	}
}

func TestReport_JSONContract(t *testing.T) {
	from, to := testWindow()
	querier := &mockQuerier{vectors: map[string]model.Vector{
		usageMetric:  {sample("light-1", 60)},
		eventsMetric: {sample("light-1", 1)},
	}}

	report, err := NewAggregator(querier, &mockLedger{seen: 1}).Aggregate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(raw)
	for _, key := range []string{
		`"analytics_window"`, `"from"`, `"to"`,
		`"aggregate"`, `"total_devices"`, `"total_on_events"`, `"total_usage_minutes"`,
		`"on_devices"`, `"on_events"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("report JSON missing %s: %s", key, body)
		}
	}
}
