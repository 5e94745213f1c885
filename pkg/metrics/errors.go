package metrics

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from
// callers that wrap metric observation failures.
var (
	ErrObserveFailed = errors.New("metric observation failed")
)
