package metrics

import "errors"

// ErrInvalidValue indicates a parameter value that does not match its
// semantics class (non-numeric gauge, non-boolean flag, non-string
// categorical).
var ErrInvalidValue = errors.New("metrics: invalid parameter value")
