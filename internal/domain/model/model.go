// Package model contains domain models passed between layers.
package model

// PlayerID is a stable numeric handle into the player arena. Handles are
// assigned on first registration and survive renames of the display name.
type PlayerID int

// NoPlayer is the zero value for an unassigned handle slot.
const NoPlayer PlayerID = -1

// BenchState describes where a player is relative to the field at a point in
// game time.
type BenchState int

const (
	Unavailable BenchState = iota
	Bench
	Field
	Keeper
)

// String returns the lowercase state name used in logs and snapshots.
func (s BenchState) String() string {
	switch s {
	case Unavailable:
		return "unavailable"
	case Bench:
		return "bench"
	case Field:
		return "field"
	case Keeper:
		return "keeper"
	default:
		return "unknown"
	}
}

// ParseBenchState converts a snapshot state name back into a BenchState.
func ParseBenchState(s string) (BenchState, bool) {
	switch s {
	case "unavailable":
		return Unavailable, true
	case "bench":
		return Bench, true
	case "field":
		return Field, true
	case "keeper":
		return Keeper, true
	default:
		return Unavailable, false
	}
}

// Assignment records "player takes position starting at TimeSec". Assignments
// are owned by the planner; ledger events hold a back-reference so that a
// timestamp correction on execution reaches both sides.
type Assignment struct {
	Player   PlayerID
	Position int // index into the active position set
	TimeSec  int
	Executed bool
}

// PlayerEvent is one entry in a player's append-only state log.
// Assignment is nil for transitions not caused by an assignment
// (roster edits, resets).
type PlayerEvent struct {
	State      BenchState
	TimeSec    int
	Assignment *Assignment
}

// FairnessSnapshot is the per-player display metric pair.
type FairnessSnapshot struct {
	PercentInGame float64 `json:"percent_in_game"`
	BenchSeconds  int     `json:"bench_seconds"`
}

// EventKind discriminates queued match events.
type EventKind int

const (
	KindTick EventKind = iota
	KindRoster
	KindSubstitution
	KindAssignment
)

// String returns the kind name used in logs.
func (k EventKind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindRoster:
		return "roster"
	case KindSubstitution:
		return "substitution"
	case KindAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

// SubstitutionRequest is one real-world substitution reported by the touchline.
type SubstitutionRequest struct {
	Player   string
	Position string
	TimeSec  int
}

// MatchEvent is the unit flowing through the match event queue. Exactly one
// payload group is meaningful per Kind.
type MatchEvent struct {
	EventID string
	Kind    EventKind

	// KindTick
	AtSec int

	// KindRoster
	Available   []string
	Unavailable []string

	// KindSubstitution
	Substitutions []SubstitutionRequest

	// KindAssignment
	Assignment *SubstitutionRequest
}
