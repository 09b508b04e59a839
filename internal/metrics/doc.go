// Package metrics owns the Prometheus collectors and the projection of
// device state onto them.
//
// Collectors bundles every metric the backend exposes on a dedicated
// registry. Projector is the only writer of device metrics: it translates
// parameter values, status transitions, and metadata changes into gauge and
// counter updates according to each parameter's semantics class, and drives
// the usage ledger so on-events and usage seconds are counted exactly once
// per transition.
//
// Projection errors are deliberately split: a value that violates its
// parameter's semantics (ErrInvalidValue) aborts the command that carried
// it, while a value that is merely unrepresentable (an unparseable color) is
// logged and skipped so one bad parameter cannot wedge a device. Read-only
// parameters are accepted without a metric write; their values travel to the
// store but never onto the registry.
package metrics
