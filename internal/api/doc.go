// Package api provides the HTTP REST surface of the backend.
//
// It exposes the device registry operations (list, read, create, update,
// action, delete), the windowed usage analytics report, Prometheus
// exposition on /metrics, and the liveness/readiness probes.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Every accepted mutation goes through the command processor with
// publishing enabled, so devices subscribed to the broker converge on
// changes made over HTTP.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
