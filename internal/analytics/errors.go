package analytics

import "errors"

// Sentinel errors for analytics operations.
var (
	// ErrInvalidWindow indicates a window whose start does not precede its end.
	ErrInvalidWindow = errors.New("analytics: 'from' must be before 'to'")

	// ErrQueryFailed indicates the metrics backend could not answer a
	// window query; the whole aggregation fails rather than returning a
	// partial report.
	ErrQueryFailed = errors.New("analytics: metrics query failed")
)
