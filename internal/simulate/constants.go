package simulate

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	ProcessingDrainDelay = 2 * time.Second
	WriteSettleDelay     = 25 * time.Millisecond
	PercentageMultiplier = 100
)
