package planner

import (
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/ranking"
	"github.com/okian/rondo/pkg/metrics"
)

// reconcileState is the per-step outcome when an executed substitution is
// checked against the projection.
type reconcileState int

const (
	matchesProjection reconcileState = iota
	diverges
)

// AddAssignment records "player takes position at atSec". The displaced
// occupant, if any, gets a Bench event at the same timestamp; if the player
// held another position that mapping is cleared. The player's new ledger
// event is Field or Keeper depending on the target slot.
func (p *Planner) AddAssignment(playerName, positionName string, atSec int, executed bool) (*model.Assignment, error) {
	id, err := p.log.Lookup(playerName)
	if err != nil {
		return nil, err
	}
	pos, err := p.positions.Index(positionName)
	if err != nil {
		return nil, err
	}
	a := &model.Assignment{Player: id, Position: pos, TimeSec: atSec, Executed: executed}
	p.apply(a)
	metrics.UpdatePlanLength(len(p.assignments))
	return a, nil
}

// apply mutates occupancy, the ledger and the assignment list for one
// assignment. Both ledger events carry the assignment reference so a later
// timestamp correction reaches them.
func (p *Planner) apply(a *model.Assignment) {
	if prev := p.occupant[a.Position]; prev != model.NoPlayer && prev != a.Player {
		_ = p.log.RecordTransition(prev, model.Bench, a.TimeSec, a)
		delete(p.posOf, prev)
	}
	if old, ok := p.posOf[a.Player]; ok && old != a.Position {
		p.occupant[old] = model.NoPlayer
	}

	p.occupant[a.Position] = a.Player
	p.posOf[a.Player] = a.Position

	state := model.Field
	if p.positions.IsKeeper(a.Position) {
		state = model.Keeper
	}
	_ = p.log.RecordTransition(a.Player, state, a.TimeSec, a)

	p.lastRotation[a.Position] = a.TimeSec
	if p.pendingNext[a.Position] == a.Player {
		p.pendingNext[a.Position] = model.NoPlayer
	}

	p.assignments = append(p.assignments, a)
}

// reconcile classifies one executed substitution against the next projected
// assignment.
func (p *Planner) reconcile(id model.PlayerID, pos int) reconcileState {
	if p.boundary >= len(p.assignments) {
		return diverges
	}
	next := p.assignments[p.boundary]
	if next.Player == id && next.Position == pos {
		return matchesProjection
	}
	return diverges
}

// ExecuteAssignments reconciles a batch of real-world substitutions against
// the projection. A substitution that matches the next projected assignment
// only gets its timestamp corrected and advances the boundary; anything else
// is ground truth the plan must yield to: the projected tail is discarded,
// the real assignment is recorded as fact, and the plan is re-derived.
// History before the boundary is never touched.
func (p *Planner) ExecuteAssignments(reqs []model.SubstitutionRequest) error {
	for _, req := range reqs {
		id, err := p.log.Lookup(req.Player)
		if err != nil {
			return err
		}
		pos, err := p.positions.Index(req.Position)
		if err != nil {
			return err
		}

		switch p.reconcile(id, pos) {
		case matchesProjection:
			next := p.assignments[p.boundary]
			next.TimeSec = req.TimeSec
			p.log.RetimeAssignmentEvents(next, req.TimeSec)
			next.Executed = true
			p.lastRotation[pos] = req.TimeSec
			p.boundary++
			metrics.RecordSubstitutionMatched()

		case diverges:
			metrics.RecordSubstitutionDiverged()
			p.discardProjection(req.TimeSec)

			if _, err := p.AddAssignment(req.Player, req.Position, req.TimeSec, true); err != nil {
				return err
			}
			p.boundary = len(p.assignments)

			p.ComputePlan()
		}
	}

	metrics.UpdateExecutedBoundary(p.boundary)
	metrics.UpdatePlanLength(len(p.assignments))
	return nil
}

// discardProjection drops the projected tail of the plan and every projected
// ledger event from fromSec on, then rebuilds occupancy from the executed
// record.
func (p *Planner) discardProjection(fromSec int) {
	p.assignments = p.assignments[:p.boundary]
	for _, id := range p.log.IDs() {
		_ = p.log.TruncateAfter(id, fromSec, p.nowSec)
	}
	p.rebuildOccupancy()
}

// rebuildOccupancy replays the remaining assignment list to reconstruct who
// holds which position and when each position last rotated.
func (p *Planner) rebuildOccupancy() {
	n := p.positions.Len()
	for i := 0; i < n; i++ {
		p.occupant[i] = model.NoPlayer
		p.lastRotation[i] = -1
	}
	p.posOf = make(map[model.PlayerID]int)

	for _, a := range p.assignments {
		if prev := p.occupant[a.Position]; prev != model.NoPlayer {
			delete(p.posOf, prev)
		}
		if old, ok := p.posOf[a.Player]; ok && old != a.Position {
			p.occupant[old] = model.NoPlayer
		}
		p.occupant[a.Position] = a.Player
		p.posOf[a.Player] = a.Position
		p.lastRotation[a.Position] = a.TimeSec
	}

	// Unavailable players cannot hold a position.
	for id, pos := range p.posOf {
		state, _ := p.log.CurrentState(id)
		if state == model.Unavailable || state == model.Bench {
			p.occupant[pos] = model.NoPlayer
			delete(p.posOf, id)
		}
	}
}

// ComputePlan discards the projected tail and re-derives assignments from the
// current clock to the end of the game, one shift-sized step at a time. Each
// step fields the single most urgent bench player into the position longest
// without rotation. Planning halts early, as a reported shortfall, when the
// bench runs dry.
func (p *Planner) ComputePlan() {
	metrics.RecordPlanRecompute()

	p.discardProjection(p.nowSec)
	p.shortfall = nil

	// Fill empty positions immediately; at kickoff this also selects the
	// first keeper, who then persists for the half.
	for pos := 0; pos < p.positions.Len(); pos++ {
		if p.occupant[pos] != model.NoPlayer {
			continue
		}
		if !p.planStep(pos, p.nowSec) {
			return
		}
	}

	// Shift duration follows the filled lineup so the keeper stays out of
	// the denominator.
	p.ComputeShiftTime()

	if p.shiftSec <= 0 {
		return
	}

	gameEnd := p.gameEndSec()
	currentHalf := p.nowSec / p.halfLengthSec

	for t := float64(p.nowSec) + p.shiftSec; int(t) < gameEnd; t += p.shiftSec {
		atSec := int(t)

		if half := atSec / p.halfLengthSec; half > currentHalf {
			currentHalf = half
			p.planKeeperForHalf(half * p.halfLengthSec)
		}

		pos := p.pickNextPositionIndex()
		if pos < 0 {
			break
		}
		if !p.planStep(pos, atSec) {
			p.shortfall.Missing += p.remainingSteps(atSec)
			return
		}
	}

	metrics.UpdatePlanLength(len(p.assignments))
}

// planStep projects the most urgent bench player into pos at atSec. Returns
// false and records a shortfall when no bench player is eligible.
func (p *Planner) planStep(pos, atSec int) bool {
	picked := p.mostUrgentBench(atSec)
	if picked == nil {
		p.shortfall = &ShortfallStatus{FromSec: atSec, Missing: 1}
		metrics.RecordPlanningShortfall()
		return false
	}

	a := &model.Assignment{Player: picked.Player, Position: pos, TimeSec: atSec}
	p.apply(a)
	metrics.RecordAssignmentPlanned()
	return true
}

// planKeeperForHalf applies the keeper rule at a half boundary: a pre-staged
// second-half keeper takes the slot, otherwise the incumbent persists.
func (p *Planner) planKeeperForHalf(halfStartSec int) {
	keeperIdx := p.positions.KeeperIndex()
	if keeperIdx < 0 {
		return
	}
	staged := p.pendingNext[keeperIdx]
	if staged == model.NoPlayer || staged == p.occupant[keeperIdx] {
		return
	}
	state, _ := p.log.CurrentState(staged)
	if state == model.Unavailable {
		return
	}
	a := &model.Assignment{Player: staged, Position: keeperIdx, TimeSec: halfStartSec}
	p.apply(a)
	metrics.RecordAssignmentPlanned()
}

// mostUrgentBench returns the single most urgent bench player as of atSec.
func (p *Planner) mostUrgentBench(atSec int) *ranking.Candidate {
	picked := ranking.SelectMostUrgent(p.benchCandidates(atSec), 1)
	if len(picked) == 0 {
		return nil
	}
	return &picked[0]
}

// remainingSteps estimates how many shift slots stay unplanned from atSec.
func (p *Planner) remainingSteps(atSec int) int {
	if p.shiftSec <= 0 {
		return 0
	}
	remaining := float64(p.gameEndSec()-atSec) / p.shiftSec
	if remaining <= 0 {
		return 0
	}
	return int(remaining)
}

// PickNextPosition returns the position whose occupant has gone longest
// without rotation. Positions are compared by their explicit last-rotation
// timestamp; the keeper slot rotates only at half boundaries and is excluded.
func (p *Planner) PickNextPosition() (string, error) {
	idx := p.pickNextPositionIndex()
	if idx < 0 {
		return "", ErrNoRotatablePosition
	}
	return p.positions.Name(idx), nil
}

func (p *Planner) pickNextPositionIndex() int {
	best := -1
	for pos := 0; pos < p.positions.Len(); pos++ {
		if p.positions.IsKeeper(pos) {
			continue
		}
		if best < 0 || p.lastRotation[pos] < p.lastRotation[best] {
			best = pos
		}
	}
	return best
}
