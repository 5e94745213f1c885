package planner

import (
	"github.com/okian/rondo/internal/domain/formation"
	"github.com/okian/rondo/internal/domain/ledger"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/pkg/metrics"
)

// CurrentStateVersion tags snapshots produced by this code.
const CurrentStateVersion = 1

// EventState is one persisted ledger event. Assignment indexes into
// State.Assignments, -1 when the event has no assignment reference.
type EventState struct {
	State      string `json:"state"`
	TimeSec    int    `json:"time_sec"`
	Assignment int    `json:"assignment"`
}

// PlayerState is one persisted player record.
type PlayerState struct {
	Name    string       `json:"name"`
	Arrival int          `json:"arrival"`
	Events  []EventState `json:"events,omitempty"`
}

// AssignmentState is one persisted assignment.
type AssignmentState struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	TimeSec  int    `json:"time_sec"`
	Executed bool   `json:"executed"`
}

// State is the serializable round-trip form of the whole engine: ledger,
// plan, boundary and roster snapshot. Optional fields default on restore;
// structural breakage makes the whole restore fail without applying anything.
type State struct {
	Version       int               `json:"version"`
	NowSec        int               `json:"now_sec"`
	HalfLengthSec int               `json:"half_length_sec,omitempty"`
	Positions     []string          `json:"positions"`
	KeeperIndex   int               `json:"keeper_index"`
	Available     []string          `json:"available"`
	Unavailable   []string          `json:"unavailable,omitempty"`
	Players       []PlayerState     `json:"players,omitempty"`
	Assignments   []AssignmentState `json:"assignments,omitempty"`
	Boundary      int               `json:"assignment_index"`
	ShiftSec      float64           `json:"shift_sec,omitempty"`
	PendingNext   map[string]string `json:"pending_next,omitempty"`
}

// Snapshot exports the full engine state.
func (p *Planner) Snapshot() State {
	assignmentIndex := make(map[*model.Assignment]int, len(p.assignments))
	assignments := make([]AssignmentState, len(p.assignments))
	for i, a := range p.assignments {
		assignmentIndex[a] = i
		name, _ := p.log.Name(a.Player)
		assignments[i] = AssignmentState{
			Player:   name,
			Position: p.positions.Name(a.Position),
			TimeSec:  a.TimeSec,
			Executed: a.Executed,
		}
	}

	players := make([]PlayerState, 0, p.log.Count())
	for _, id := range p.log.IDs() {
		name, _ := p.log.Name(id)
		arrival, _ := p.log.Arrival(id)
		events, _ := p.log.EventsOf(id)
		eventStates := make([]EventState, len(events))
		for i, ev := range events {
			ref := -1
			if ev.Assignment != nil {
				if idx, ok := assignmentIndex[ev.Assignment]; ok {
					ref = idx
				}
			}
			eventStates[i] = EventState{
				State:      ev.State.String(),
				TimeSec:    ev.TimeSec,
				Assignment: ref,
			}
		}
		players = append(players, PlayerState{Name: name, Arrival: arrival, Events: eventStates})
	}

	pending := make(map[string]string)
	for pos, id := range p.pendingNext {
		if id == model.NoPlayer {
			continue
		}
		name, _ := p.log.Name(id)
		pending[p.positions.Name(pos)] = name
	}

	available, unavailable := p.Roster()
	return State{
		Version:       CurrentStateVersion,
		NowSec:        p.nowSec,
		HalfLengthSec: p.halfLengthSec,
		Positions:     p.positions.Names(),
		KeeperIndex:   p.positions.KeeperIndex(),
		Available:     available,
		Unavailable:   unavailable,
		Players:       players,
		Assignments:   assignments,
		Boundary:      p.boundary,
		ShiftSec:      p.shiftSec,
		PendingNext:   pending,
	}
}

// Validate checks a persisted state for structural consistency. It never
// mutates anything.
func (s State) Validate() error {
	if len(s.Positions) == 0 {
		return ErrInvalidState
	}
	if len(s.Available) == 0 {
		return ErrInvalidState
	}
	if s.Boundary < 0 || s.Boundary > len(s.Assignments) {
		return ErrInvalidState
	}
	if s.KeeperIndex < -1 || s.KeeperIndex >= len(s.Positions) {
		return ErrInvalidState
	}

	positionKnown := make(map[string]bool, len(s.Positions))
	for _, name := range s.Positions {
		positionKnown[name] = true
	}
	playerKnown := make(map[string]bool, len(s.Players))
	for _, ps := range s.Players {
		if ps.Name == "" {
			return ErrInvalidState
		}
		playerKnown[ps.Name] = true
	}

	for _, a := range s.Assignments {
		if !playerKnown[a.Player] || !positionKnown[a.Position] {
			return ErrInvalidState
		}
	}
	for _, ps := range s.Players {
		for _, ev := range ps.Events {
			if _, ok := model.ParseBenchState(ev.State); !ok {
				return ErrInvalidState
			}
			if ev.Assignment < -1 || ev.Assignment >= len(s.Assignments) {
				return ErrInvalidState
			}
		}
	}
	for position, player := range s.PendingNext {
		if !playerKnown[player] || !positionKnown[position] {
			return ErrInvalidState
		}
	}
	return nil
}

// RestoreFrom replaces the planner's state with a persisted snapshot. The
// snapshot is validated and fully materialized before anything is swapped in,
// so a failed restore leaves the planner untouched.
func (p *Planner) RestoreFrom(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	positions := formation.NewPositionSet(s.Positions, s.KeeperIndex)

	log := ledger.New()
	arrivalNext := 0
	for _, ps := range s.Players {
		log.Register(ps.Name, ps.Arrival)
		if ps.Arrival >= arrivalNext {
			arrivalNext = ps.Arrival + 1
		}
	}

	assignments := make([]*model.Assignment, len(s.Assignments))
	for i, as := range s.Assignments {
		id, err := log.Lookup(as.Player)
		if err != nil {
			return ErrInvalidState
		}
		pos, err := positions.Index(as.Position)
		if err != nil {
			return ErrInvalidState
		}
		assignments[i] = &model.Assignment{
			Player:   id,
			Position: pos,
			TimeSec:  as.TimeSec,
			Executed: as.Executed,
		}
	}

	for _, ps := range s.Players {
		id, err := log.Lookup(ps.Name)
		if err != nil {
			return ErrInvalidState
		}
		for _, ev := range ps.Events {
			state, _ := model.ParseBenchState(ev.State)
			var ref *model.Assignment
			if ev.Assignment >= 0 {
				ref = assignments[ev.Assignment]
			}
			if err := log.RecordTransition(id, state, ev.TimeSec, ref); err != nil {
				return ErrInvalidState
			}
		}
	}

	// Everything materialized; swap in.
	p.log = log
	p.positions = positions
	p.assignments = assignments
	p.boundary = s.Boundary
	p.nowSec = s.NowSec
	p.shiftSec = s.ShiftSec
	p.arrivalNext = arrivalNext
	p.available = append([]string(nil), s.Available...)
	p.unavailable = append([]string(nil), s.Unavailable...)
	p.shortfall = nil
	if s.HalfLengthSec > 0 {
		p.halfLengthSec = s.HalfLengthSec
	}

	p.resetPositionState()
	p.rebuildOccupancy()
	for position, player := range s.PendingNext {
		pos, err := p.positions.Index(position)
		if err != nil {
			continue
		}
		id, err := p.log.Lookup(player)
		if err != nil {
			continue
		}
		p.pendingNext[pos] = id
	}

	metrics.UpdatePlanLength(len(p.assignments))
	metrics.UpdateExecutedBoundary(p.boundary)
	metrics.UpdateGameClockSeconds(float64(p.nowSec))
	return nil
}
