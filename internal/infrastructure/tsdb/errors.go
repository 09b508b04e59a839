package tsdb

import "errors"

// Sentinel errors for time-series query operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, tsdb.ErrQueryFailed) {
//	    // Handle upstream query failure
//	}
var (
	// ErrConnectionFailed indicates the query client could not be built
	// from the configured address.
	ErrConnectionFailed = errors.New("tsdb: connection failed")

	// ErrQueryFailed indicates the upstream query API returned an error or
	// an unusable result.
	ErrQueryFailed = errors.New("tsdb: query failed")

	// ErrInvalidRange indicates a window whose start does not precede its end.
	ErrInvalidRange = errors.New("tsdb: invalid query range")
)
