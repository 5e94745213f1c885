package planner

import "errors"

// Sentinel kinds for planner errors. Unknown player and position references
// surface the ledger and formation sentinels unchanged.
var (
	ErrNoRotatablePosition = errors.New("no rotatable position configured")
	ErrInvalidState        = errors.New("invalid persisted state")
)
