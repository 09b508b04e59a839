package tsdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/project-home/smart-home-core/internal/infrastructure/config"
)

// fakePrometheus serves a canned /api/v1/query response and records the
// query expression and evaluation time it received.
type fakePrometheus struct {
	status  int
	body    string
	lastReq struct {
		query string
		time  string
	}
}

func (f *fakePrometheus) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.lastReq.query = r.FormValue("query")
		f.lastReq.time = r.FormValue("time")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprint(w, f.body)
	}
}

func newTestClient(t *testing.T, fake *fakePrometheus) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := New(config.PrometheusConfig{URL: srv.URL, QueryTimeout: 5})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func vectorBody(samples string) string {
	return fmt.Sprintf(`{"status":"success","data":{"resultType":"vector","result":[%s]}}`, samples)
}

func TestQuery(t *testing.T) {
	fake := &fakePrometheus{
		status: http.StatusOK,
		body: vectorBody(
			`{"metric":{"device_id":"light-1","device_type":"light"},"value":[1755900000,"120.5"]}`,
		),
	}
	client := newTestClient(t, fake)

	vec, err := client.Query(context.Background(), "device_usage_seconds_total", time.Now())
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(vec) != 1 {
		t.Fatalf("Query() returned %d samples, want 1", len(vec))
	}
	if got := string(vec[0].Metric["device_id"]); got != "light-1" {
		t.Errorf("device_id label = %q, want %q", got, "light-1")
	}
	if float64(vec[0].Value) != 120.5 {
		t.Errorf("sample value = %v, want 120.5", vec[0].Value)
	}
}

func TestQuery_EmptyResult(t *testing.T) {
	fake := &fakePrometheus{status: http.StatusOK, body: vectorBody("")}
	client := newTestClient(t, fake)

	vec, err := client.Query(context.Background(), "device_on_events_total", time.Now())
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(vec) != 0 {
		t.Errorf("Query() returned %d samples, want 0", len(vec))
	}
}

func TestQuery_UpstreamError(t *testing.T) {
	fake := &fakePrometheus{
		status: http.StatusInternalServerError,
		body:   `{"status":"error","errorType":"internal","error":"storage unavailable"}`,
	}
	client := newTestClient(t, fake)

	if _, err := client.Query(context.Background(), "up", time.Now()); !errors.Is(err, ErrQueryFailed) {
		t.Errorf("Query() error = %v, want ErrQueryFailed", err)
	}
}

func TestQuery_NonVectorResult(t *testing.T) {
	fake := &fakePrometheus{
		status: http.StatusOK,
		body:   `{"status":"success","data":{"resultType":"scalar","result":[1755900000,"2"]}}`,
	}
	client := newTestClient(t, fake)

	if _, err := client.Query(context.Background(), "scalar(up)", time.Now()); !errors.Is(err, ErrQueryFailed) {
		t.Errorf("Query() error = %v, want ErrQueryFailed for non-vector result", err)
	}
}

func TestIncrease(t *testing.T) {
	fake := &fakePrometheus{
		status: http.StatusOK,
		body: vectorBody(
			`{"metric":{"device_id":"heater-1"},"value":[1755900000,"3600"]}`,
		),
	}
	client := newTestClient(t, fake)

	to := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	from := to.Add(-time.Hour)

	vec, err := client.Increase(context.Background(), "device_usage_seconds_total", from, to)
	if err != nil {
		t.Fatalf("Increase() error = %v", err)
	}
	if len(vec) != 1 {
		t.Fatalf("Increase() returned %d samples, want 1", len(vec))
	}

	wantQuery := "increase(device_usage_seconds_total[3600s])"
	if fake.lastReq.query != wantQuery {
		t.Errorf("query sent = %q, want %q", fake.lastReq.query, wantQuery)
	}
	if fake.lastReq.time == "" {
		t.Error("no evaluation time sent; increase must be evaluated at the window end")
	}
}

func TestIncrease_InvalidRange(t *testing.T) {
	client := newTestClient(t, &fakePrometheus{status: http.StatusOK, body: vectorBody("")})

	now := time.Now()
	if _, err := client.Increase(context.Background(), "m", now, now); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Increase() error = %v, want ErrInvalidRange for empty window", err)
	}
	if _, err := client.Increase(context.Background(), "m", now, now.Add(-time.Minute)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Increase() error = %v, want ErrInvalidRange for inverted window", err)
	}
}

func TestNew_InvalidAddress(t *testing.T) {
	if _, err := New(config.PrometheusConfig{URL: "://bad", QueryTimeout: 5}); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("New() error = %v, want ErrConnectionFailed", err)
	}
}
