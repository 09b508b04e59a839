package mongodb

import "errors"

// Sentinel errors for store connection handling.
var (
	// ErrConnectionFailed indicates the store could not be reached within
	// the configured retry budget.
	ErrConnectionFailed = errors.New("mongodb: connection failed")
)
