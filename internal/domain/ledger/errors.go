package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrUnknownPlayer = errors.New("player not found")
)
