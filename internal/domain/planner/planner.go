// Package planner maintains the substitution plan: the bridge between what
// actually happened in the game and what is projected to happen next.
//
// The assignment list is split by an execution boundary. Everything before
// the boundary is historical fact and never mutates; everything at or after
// it is a projection that may be discarded and recomputed whenever reality
// diverges from the plan or the roster changes.
package planner

import (
	"github.com/okian/rondo/internal/domain/fairness"
	"github.com/okian/rondo/internal/domain/formation"
	"github.com/okian/rondo/internal/domain/ledger"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/ranking"
	"github.com/okian/rondo/pkg/metrics"
)

// Default game configuration constants.
const (
	defaultHalfLengthSec = 25 * 60
	defaultHalves        = 2
)

// ShortfallStatus reports that planning halted early for lack of bench
// players. It is a condition, not an error; the rest of the game stays
// unplanned until the roster changes.
type ShortfallStatus struct {
	FromSec int `json:"from_sec"`
	Missing int `json:"missing"`
}

// AssignmentView is the read shape handed back to callers.
type AssignmentView struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	TimeSec  int    `json:"time_sec"`
	Executed bool   `json:"executed"`
}

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithHalfLength sets the length of one half in seconds.
func WithHalfLength(sec int) Option {
	return func(p *Planner) {
		if sec > 0 {
			p.halfLengthSec = sec
		}
	}
}

// WithHalves sets the number of halves in a game.
func WithHalves(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.halves = n
		}
	}
}

// WithCalculator sets a custom fairness calculator.
func WithCalculator(calc *fairness.Calculator) Option {
	return func(p *Planner) {
		if calc != nil {
			p.calc = calc
		}
	}
}

// Planner owns the ledger, the roster diff state and the assignment plan.
// It is single-threaded by contract: callers must serialize public
// operations.
type Planner struct {
	log       *ledger.Ledger
	calc      *fairness.Calculator
	positions formation.PositionSet

	halfLengthSec int
	halves        int

	nowSec   int
	shiftSec float64

	// arrival-priority counter, single-writer, append-only
	arrivalNext int

	// desired roster as last provided, in provider order
	available   []string
	unavailable []string

	assignments []*model.Assignment
	boundary    int // execution boundary: assignments[:boundary] are fact

	occupant     []model.PlayerID // per position index
	posOf        map[model.PlayerID]int
	pendingNext  []model.PlayerID // pre-staged next occupant per position
	lastRotation []int            // last assignment time per position, -1 if never

	shortfall *ShortfallStatus
}

// New creates a planner for the given active position set.
func New(positions formation.PositionSet, opts ...Option) *Planner {
	p := &Planner{
		log:           ledger.New(),
		calc:          fairness.New(),
		positions:     positions,
		halfLengthSec: defaultHalfLengthSec,
		halves:        defaultHalves,
		posOf:         make(map[model.PlayerID]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resetPositionState()
	return p
}

func (p *Planner) resetPositionState() {
	n := p.positions.Len()
	p.occupant = make([]model.PlayerID, n)
	p.pendingNext = make([]model.PlayerID, n)
	p.lastRotation = make([]int, n)
	for i := 0; i < n; i++ {
		p.occupant[i] = model.NoPlayer
		p.pendingNext[i] = model.NoPlayer
		p.lastRotation[i] = -1
	}
	p.posOf = make(map[model.PlayerID]int)
}

// SetRoster replaces the desired available/unavailable name sets. Call
// UpdatePlayers afterwards to reconcile the ledger.
func (p *Planner) SetRoster(available, unavailable []string) {
	p.available = append([]string(nil), available...)
	p.unavailable = append([]string(nil), unavailable...)
}

// Tick advances the game clock. The clock only moves forward.
func (p *Planner) Tick(atSec int) {
	if atSec > p.nowSec {
		p.nowSec = atSec
		metrics.UpdateGameClockSeconds(float64(atSec))
	}
}

// NowSec returns the current game clock.
func (p *Planner) NowSec() int { return p.nowSec }

// UpdatePlayers diffs the desired roster against ledger state. Newly
// available players get a Bench event and a fresh arrival index; players no
// longer available get an Unavailable event and vacate their position. The
// returned delta is the signed change in playing population, used by callers
// to decide whether the shift duration needs recomputing.
func (p *Planner) UpdatePlayers() int {
	delta := 0

	inRoster := make(map[string]struct{}, len(p.available)+len(p.unavailable))

	for _, name := range p.available {
		inRoster[name] = struct{}{}
		id := p.register(name)
		state, _ := p.log.CurrentState(id)
		if state == model.Unavailable {
			_ = p.log.RecordTransition(id, model.Bench, p.nowSec, nil)
			delta++
		}
	}

	for _, name := range p.unavailable {
		inRoster[name] = struct{}{}
		id := p.register(name)
		if p.markUnavailable(id) {
			delta--
		}
	}

	// Players the provider dropped entirely count as unavailable too.
	for _, id := range p.log.IDs() {
		name, _ := p.log.Name(id)
		if _, ok := inRoster[name]; ok {
			continue
		}
		if p.markUnavailable(id) {
			delta--
		}
	}

	metrics.UpdateRosterAvailable(len(p.available))
	metrics.UpdateRosterUnavailable(len(p.unavailable))
	return delta
}

func (p *Planner) register(name string) model.PlayerID {
	id, created := p.log.Register(name, p.arrivalNext)
	if created {
		p.arrivalNext++
	}
	return id
}

// markUnavailable records the transition and vacates the player's position.
// Returns true if the player was previously in a playing state.
func (p *Planner) markUnavailable(id model.PlayerID) bool {
	state, _ := p.log.CurrentState(id)
	if state == model.Unavailable {
		return false
	}
	if pos, ok := p.posOf[id]; ok {
		p.occupant[pos] = model.NoPlayer
		delete(p.posOf, id)
	}
	_ = p.log.RecordTransition(id, model.Unavailable, p.nowSec, nil)
	return true
}

// ComputeShiftTime recomputes the per-shift duration: the remaining half
// time divided evenly among currently eligible field players, the keeper
// excluded from the denominator. The result only affects the still-unexecuted
// tail of the plan.
func (p *Planner) ComputeShiftTime() {
	fieldPlayers := p.eligibleFieldPlayers()
	if fieldPlayers <= 0 {
		p.shiftSec = 0
		metrics.UpdateShiftSeconds(0)
		return
	}

	from := p.nextPlannedChangeSec()
	end := p.endOfHalfSec(from)
	shift := float64(end-from) / float64(fieldPlayers)
	if shift < 0 {
		shift = 0
	}
	p.shiftSec = shift
	metrics.UpdateShiftSeconds(shift)
}

// eligibleFieldPlayers counts players in a playing state as of the current
// clock, keeper excluded.
func (p *Planner) eligibleFieldPlayers() int {
	count := 0
	for _, id := range p.log.IDs() {
		state, _ := p.log.StateAt(id, p.nowSec)
		if state == model.Bench || state == model.Field {
			count++
		}
	}
	return count
}

// ShiftSeconds returns the current per-shift duration.
func (p *Planner) ShiftSeconds() float64 { return p.shiftSec }

// nextPlannedChangeSec is the time of the first projected assignment still in
// the future, or now when none exists.
func (p *Planner) nextPlannedChangeSec() int {
	for i := p.boundary; i < len(p.assignments); i++ {
		if p.assignments[i].TimeSec >= p.nowSec {
			return p.assignments[i].TimeSec
		}
	}
	return p.nowSec
}

// endOfHalfSec returns the game-clock second at which the half containing
// atSec ends.
func (p *Planner) endOfHalfSec(atSec int) int {
	half := atSec / p.halfLengthSec
	if half >= p.halves {
		half = p.halves - 1
	}
	return (half + 1) * p.halfLengthSec
}

// gameEndSec is the total scheduled game length.
func (p *Planner) gameEndSec() int { return p.halves * p.halfLengthSec }

// PlayerPosition returns the position name a player holds as of the current
// clock. The planning occupancy runs ahead of the game during projection, so
// the answer is derived from the ledger and the assignment record instead.
func (p *Planner) PlayerPosition(name string) (string, bool, error) {
	id, err := p.log.Lookup(name)
	if err != nil {
		return "", false, err
	}
	state, err := p.log.StateAt(id, p.nowSec)
	if err != nil {
		return "", false, err
	}
	if state != model.Field && state != model.Keeper {
		return "", false, nil
	}
	pos, ok := p.occupancyAt(p.nowSec)[id]
	if !ok {
		return "", false, nil
	}
	return p.positions.Name(pos), true, nil
}

// occupancyAt replays assignments up to atSec and returns who holds which
// position at that point of the game.
func (p *Planner) occupancyAt(atSec int) map[model.PlayerID]int {
	byPos := make([]model.PlayerID, p.positions.Len())
	for i := range byPos {
		byPos[i] = model.NoPlayer
	}
	holds := make(map[model.PlayerID]int)
	for _, a := range p.assignments {
		if a.TimeSec > atSec {
			continue
		}
		if prev := byPos[a.Position]; prev != model.NoPlayer {
			delete(holds, prev)
		}
		if old, ok := holds[a.Player]; ok && old != a.Position {
			byPos[old] = model.NoPlayer
		}
		byPos[a.Position] = a.Player
		holds[a.Player] = a.Position
	}
	return holds
}

// Fairness returns the display metrics for a player as of the current clock.
func (p *Planner) Fairness(name string) (model.FairnessSnapshot, error) {
	id, err := p.log.Lookup(name)
	if err != nil {
		return model.FairnessSnapshot{}, err
	}
	events, err := p.log.EventsOf(id)
	if err != nil {
		return model.FairnessSnapshot{}, err
	}
	return p.calc.Snapshot(events, p.nowSec), nil
}

// PickNextPlayers returns the n most urgent bench players, most urgent first.
func (p *Planner) PickNextPlayers(n int) []string {
	candidates := p.benchCandidates(p.nowSec)
	picked := ranking.SelectMostUrgent(candidates, n)
	names := make([]string, len(picked))
	for i, c := range picked {
		names[i] = c.Name
	}
	return names
}

// benchCandidates builds ranking candidates from every player on the bench
// as of atSec, with fairness computed at that same point. Events past atSec
// are projections and do not count; during planning atSec runs ahead of the
// clock so the projected lineup at each step is what gets ranked.
func (p *Planner) benchCandidates(atSec int) []ranking.Candidate {
	var out []ranking.Candidate
	for _, id := range p.log.IDs() {
		state, _ := p.log.StateAt(id, atSec)
		if state != model.Bench {
			continue
		}
		name, _ := p.log.Name(id)
		arrival, _ := p.log.Arrival(id)
		events, _ := p.log.EventsOf(id)
		out = append(out, ranking.Candidate{
			Player:   id,
			Name:     name,
			Arrival:  arrival,
			Fairness: p.calc.Snapshot(events, atSec),
		})
	}
	return out
}

// StageNext pre-stages a player as the next occupant of a position without
// touching the plan, the drag-and-drop flow before execution. Staging a
// player onto the keeper slot designates them as the second-half keeper.
func (p *Planner) StageNext(playerName, positionName string) error {
	id, err := p.log.Lookup(playerName)
	if err != nil {
		return err
	}
	pos, err := p.positions.Index(positionName)
	if err != nil {
		return err
	}
	p.pendingNext[pos] = id
	return nil
}

// StagedNext returns the pre-staged player for a position, if any.
func (p *Planner) StagedNext(positionName string) (string, bool, error) {
	pos, err := p.positions.Index(positionName)
	if err != nil {
		return "", false, err
	}
	id := p.pendingNext[pos]
	if id == model.NoPlayer {
		return "", false, nil
	}
	name, _ := p.log.Name(id)
	return name, true, nil
}

// Plan returns the full assignment list in order.
func (p *Planner) Plan() []AssignmentView {
	out := make([]AssignmentView, len(p.assignments))
	for i, a := range p.assignments {
		name, _ := p.log.Name(a.Player)
		out[i] = AssignmentView{
			Player:   name,
			Position: p.positions.Name(a.Position),
			TimeSec:  a.TimeSec,
			Executed: a.Executed,
		}
	}
	return out
}

// Boundary returns the execution boundary index.
func (p *Planner) Boundary() int { return p.boundary }

// Shortfall returns the current planning shortfall, or nil when the plan
// covers the rest of the game.
func (p *Planner) Shortfall() *ShortfallStatus {
	if p.shortfall == nil {
		return nil
	}
	s := *p.shortfall
	return &s
}

// Positions returns the active position names.
func (p *Planner) Positions() []string { return p.positions.Names() }

// Roster returns the desired roster sets as last provided.
func (p *Planner) Roster() (available, unavailable []string) {
	return append([]string(nil), p.available...), append([]string(nil), p.unavailable...)
}

// Reset clears the game back to a blank state, keeping the position
// configuration.
func (p *Planner) Reset() {
	p.log.Reset()
	p.assignments = nil
	p.boundary = 0
	p.nowSec = 0
	p.shiftSec = 0
	p.arrivalNext = 0
	p.available = nil
	p.unavailable = nil
	p.shortfall = nil
	p.resetPositionState()
	metrics.UpdatePlanLength(0)
	metrics.UpdateExecutedBoundary(0)
	metrics.UpdateGameClockSeconds(0)
}
