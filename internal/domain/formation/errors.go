package formation

import "errors"

// Sentinel kinds for formation errors.
var (
	ErrUnsupportedSize = errors.New("unsupported game format size")
	ErrUnknownPosition = errors.New("position not found")
)
