// Package usage tracks device engagement intervals and the seen-device set.
//
// The Tracker is the single source of truth for "is this device currently
// engaged, and since when". Status transitions open and close intervals;
// the metrics projector turns the resulting Transition values into counter
// increments, and the analytics aggregator consults open intervals to
// extrapolate usage that Prometheus has not scraped yet.
//
// One mutex guards the interval ledger and the seen set together, so a
// transition and the seen-set lookup that decides whether it counts as an
// on-event happen atomically.
package usage
