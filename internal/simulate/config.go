package simulate

import "time"

// Config holds configuration for a simulated match.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumPlayers    int           // Number of players to put on the roster
	HalfLengthSec int           // Length of the simulated half in seconds
	TickStepSec   int           // Game clock step between ticks
	NextN         int           // Number of entries to fetch from the urgency queue
	Workers       int           // Number of concurrent workers for fairness retrieval
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for the match report
	LogFile       string        // Log file for simulation output
	Verbose       bool          // Enable verbose logging
}

// RosterBatch is the wire shape for POST /roster.
type RosterBatch struct {
	BatchID     string   `json:"batch_id"`
	Available   []string `json:"available"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// TickRequest is the wire shape for POST /tick.
type TickRequest struct {
	AtSec int `json:"at_sec"`
}

// SubstitutionEntry is one executed assignment inside a batch.
type SubstitutionEntry struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	TimeSec  int    `json:"time_sec"`
}

// SubstitutionBatch is the wire shape for POST /substitutions.
type SubstitutionBatch struct {
	BatchID       string              `json:"batch_id"`
	Substitutions []SubstitutionEntry `json:"substitutions"`
}

// AssignmentRequest is the wire shape for POST /assignments.
type AssignmentRequest struct {
	Player   string `json:"player"`
	Position string `json:"position"`
}

// Assignment is one entry in the plan response.
type Assignment struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	TimeSec  int    `json:"time_sec"`
	Executed bool   `json:"executed"`
}

// PlanResponse is the wire shape for GET /plan.
type PlanResponse struct {
	Assignments  []Assignment `json:"assignments"`
	Boundary     int          `json:"boundary"`
	ShiftSec     float64      `json:"shift_sec"`
	GameClockSec int          `json:"game_clock_sec"`
}

// FairnessEntry is the wire shape for GET /fairness/{player}.
type FairnessEntry struct {
	Player        string  `json:"player"`
	PercentInGame float64 `json:"percent_in_game"`
	BenchSeconds  int     `json:"bench_seconds"`
}

// NextResponse is the wire shape for GET /next.
type NextResponse struct {
	Players  []string `json:"players"`
	Position string   `json:"position,omitempty"`
}

// AckResponse represents the response from batch submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics.
type Stats struct {
	PlayersGenerated  int
	TicksSubmitted    int
	BatchesSubmitted  int
	BatchesAccepted   int
	BatchesDuplicate  int
	BatchesFailed     int
	SubsExecuted      int
	FairnessRetrieved int
	NextEntries       int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
