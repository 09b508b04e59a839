// Package analytics aggregates windowed device usage.
//
// The Aggregator answers "how much was each device used between from and
// to" by combining two sources: the Prometheus increase() of the usage and
// on-event counters over the window, and the local engagement ledger for
// the part Prometheus cannot see yet — a device that is engaged right now
// has an open interval whose elapsed time has not been added to any counter,
// so the overlap of that interval with the window is extrapolated in.
//
// The report shape (analytics_window / aggregate / on_devices) is an
// external contract consumed by the dashboard tooling.
package analytics
