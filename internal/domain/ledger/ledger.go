// Package ledger keeps the authoritative per-player history of bench, field,
// keeper and unavailable spans over game-clock time.
//
// Player records live in an arena indexed by model.PlayerID so that
// assignments can back-reference players by handle instead of by name.
package ledger

import (
	"github.com/okian/rondo/internal/domain/model"
)

// playerRecord is one arena slot.
type playerRecord struct {
	name    string
	arrival int // arrival-priority index, assigned once, never reassigned
	events  []model.PlayerEvent
}

// Ledger owns the player arena and every event log. It is a plain data
// structure with no locking; the planner's single-writer contract guards it.
type Ledger struct {
	players []playerRecord
	byName  map[string]model.PlayerID
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		byName: make(map[string]model.PlayerID),
	}
}

// Register returns the handle for name, creating a record with the given
// arrival index on first appearance. The arrival argument is ignored for
// players already registered.
func (l *Ledger) Register(name string, arrival int) (model.PlayerID, bool) {
	if id, ok := l.byName[name]; ok {
		return id, false
	}
	id := model.PlayerID(len(l.players))
	l.players = append(l.players, playerRecord{name: name, arrival: arrival})
	l.byName[name] = id
	return id, true
}

// Lookup resolves a name to its handle.
func (l *Ledger) Lookup(name string) (model.PlayerID, error) {
	id, ok := l.byName[name]
	if !ok {
		return model.NoPlayer, ErrUnknownPlayer
	}
	return id, nil
}

// Name returns the display name for a handle.
func (l *Ledger) Name(id model.PlayerID) (string, error) {
	if !l.valid(id) {
		return "", ErrUnknownPlayer
	}
	return l.players[id].name, nil
}

// Arrival returns the arrival-priority index for a handle.
func (l *Ledger) Arrival(id model.PlayerID) (int, error) {
	if !l.valid(id) {
		return 0, ErrUnknownPlayer
	}
	return l.players[id].arrival, nil
}

// Count returns the number of registered players.
func (l *Ledger) Count() int { return len(l.players) }

// IDs returns every registered handle in arena order.
func (l *Ledger) IDs() []model.PlayerID {
	out := make([]model.PlayerID, len(l.players))
	for i := range l.players {
		out[i] = model.PlayerID(i)
	}
	return out
}

// RecordTransition appends an event if state differs from the player's last
// recorded state. Repeated identical calls are no-ops, so consecutive events
// never repeat a state.
func (l *Ledger) RecordTransition(id model.PlayerID, state model.BenchState, atSec int, assignment *model.Assignment) error {
	if !l.valid(id) {
		return ErrUnknownPlayer
	}
	rec := &l.players[id]
	if n := len(rec.events); n > 0 && rec.events[n-1].State == state {
		return nil
	}
	rec.events = append(rec.events, model.PlayerEvent{
		State:      state,
		TimeSec:    atSec,
		Assignment: assignment,
	})
	return nil
}

// CurrentState returns the player's last recorded state, or Unavailable for
// an empty history.
func (l *Ledger) CurrentState(id model.PlayerID) (model.BenchState, error) {
	if !l.valid(id) {
		return model.Unavailable, ErrUnknownPlayer
	}
	events := l.players[id].events
	if len(events) == 0 {
		return model.Unavailable, nil
	}
	return events[len(events)-1].State, nil
}

// StateAt returns the player's recorded state as of atSec: the last event at
// or before that clock reading, ignoring the projected future.
func (l *Ledger) StateAt(id model.PlayerID, atSec int) (model.BenchState, error) {
	if !l.valid(id) {
		return model.Unavailable, ErrUnknownPlayer
	}
	state := model.Unavailable
	for _, ev := range l.players[id].events {
		if ev.TimeSec > atSec {
			continue
		}
		state = ev.State
	}
	return state, nil
}

// EventsOf returns a copy of the player's event log.
func (l *Ledger) EventsOf(id model.PlayerID) ([]model.PlayerEvent, error) {
	if !l.valid(id) {
		return nil, ErrUnknownPlayer
	}
	events := l.players[id].events
	out := make([]model.PlayerEvent, len(events))
	copy(out, events)
	return out, nil
}

// TruncateAfter removes events with TimeSec >= fromSec that belong to the
// projected tail. Two classes are historical fact and never removed: events
// referencing an executed assignment, and assignment-free events (roster
// edits) recorded at or before the current game time nowSec.
func (l *Ledger) TruncateAfter(id model.PlayerID, fromSec, nowSec int) error {
	if !l.valid(id) {
		return ErrUnknownPlayer
	}
	rec := &l.players[id]
	kept := rec.events[:0]
	for _, ev := range rec.events {
		projected := ev.TimeSec >= fromSec && !isExecuted(ev) &&
			!(ev.Assignment == nil && ev.TimeSec <= nowSec)
		if projected {
			continue
		}
		kept = append(kept, ev)
	}
	rec.events = kept
	return nil
}

// RetimeAssignmentEvents corrects the timestamp of every event that
// references the given assignment. Used when an executed substitution matched
// the projection but happened at a different clock reading.
func (l *Ledger) RetimeAssignmentEvents(a *model.Assignment, atSec int) {
	if a == nil {
		return
	}
	for i := range l.players {
		events := l.players[i].events
		for j := range events {
			if events[j].Assignment == a {
				events[j].TimeSec = atSec
			}
		}
	}
}

// Reset drops every player record and event.
func (l *Ledger) Reset() {
	l.players = l.players[:0]
	l.byName = make(map[string]model.PlayerID)
}

func (l *Ledger) valid(id model.PlayerID) bool {
	return id >= 0 && int(id) < len(l.players)
}

func isExecuted(ev model.PlayerEvent) bool {
	return ev.Assignment != nil && ev.Assignment.Executed
}
