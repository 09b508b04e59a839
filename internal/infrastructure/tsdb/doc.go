// Package tsdb wraps the Prometheus HTTP query API.
//
// The backend never reads its own collectors back; windowed usage analytics
// are answered by the Prometheus server that scrapes /metrics. This package
// provides the two query shapes the analytics aggregator needs: an instant
// query at a fixed evaluation time, and the increase() of a counter over a
// window evaluated at the window's end.
//
// Results come back as model.Vector samples so callers can read label sets
// (device_id in particular) without knowing the wire format.
//
// # Usage
//
//	client, err := tsdb.New(cfg.Prometheus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := client.Increase(ctx, "device_usage_seconds_total", from, to)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package tsdb
