// Package fairness derives playing-time equity metrics from a player's event
// log.
//
// The core invariant: a player's percentage reflects field time as a fraction
// of the window they were actually eligible to play, not the whole game. Late
// arrivals and temporary unavailability are therefore not penalized, and
// keeper time counts toward availability but not toward the field ratio.
package fairness

import (
	"github.com/okian/rondo/internal/domain/model"
)

// Default calculator constants.
const (
	// NeutralPercent is returned for players with no usable history so they
	// are neither favored nor penalized.
	NeutralPercent = 50.0

	maxPercent = 100.0
)

// accounting says which accumulators a closing segment feeds.
type accounting struct {
	available bool
	field     bool
	bench     bool
}

// transition identifies a (previous-state, new-state) pair.
type transition struct {
	from model.BenchState
	to   model.BenchState
}

// transitionTable resolves, for every state pair, which accumulators close
// out when the segment spent in the previous state ends.
var transitionTable = buildTransitionTable()

func buildTransitionTable() map[transition]accounting {
	states := []model.BenchState{model.Unavailable, model.Bench, model.Field, model.Keeper}
	closing := map[model.BenchState]accounting{
		model.Unavailable: {},
		model.Bench:       {available: true, bench: true},
		model.Field:       {available: true, field: true},
		model.Keeper:      {available: true},
	}
	table := make(map[transition]accounting, len(states)*len(states))
	for _, from := range states {
		for _, to := range states {
			table[transition{from: from, to: to}] = closing[from]
		}
	}
	return table
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithNeutralPercent overrides the neutral default percentage.
func WithNeutralPercent(percent float64) Option {
	return func(c *Calculator) {
		if percent >= 0 && percent <= maxPercent {
			c.neutralPercent = percent
		}
	}
}

// Calculator computes fairness snapshots from event logs.
type Calculator struct {
	neutralPercent float64
}

// New creates a Calculator with default configuration.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		neutralPercent: NeutralPercent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot walks the event log and returns the player's metrics as of nowSec.
// Events past nowSec are projections, not history, and are ignored: the
// snapshot only counts time that has actually elapsed.
func (c *Calculator) Snapshot(events []model.PlayerEvent, nowSec int) model.FairnessSnapshot {
	var availableSec, fieldSec, benchSec int

	closeSegment := func(from, to model.BenchState, duration int) {
		if duration <= 0 {
			return
		}
		acct := transitionTable[transition{from: from, to: to}]
		if acct.available {
			availableSec += duration
		}
		if acct.field {
			fieldSec += duration
		}
		if acct.bench {
			benchSec += duration
		}
	}

	var prev *model.PlayerEvent
	for i := range events {
		if events[i].TimeSec > nowSec {
			continue
		}
		if prev != nil {
			closeSegment(prev.State, events[i].State, events[i].TimeSec-prev.TimeSec)
		}
		prev = &events[i]
	}
	if prev == nil {
		return model.FairnessSnapshot{PercentInGame: c.neutralPercent}
	}

	// Open segment from the last settled event to the current game time.
	closeSegment(prev.State, prev.State, nowSec-prev.TimeSec)

	snapshot := model.FairnessSnapshot{
		PercentInGame: c.neutralPercent,
		BenchSeconds:  benchSec,
	}
	if availableSec > 0 {
		snapshot.PercentInGame = maxPercent * float64(fieldSec) / float64(availableSec)
	}
	if snapshot.PercentInGame < 0 {
		snapshot.PercentInGame = 0
	}
	if snapshot.PercentInGame > maxPercent {
		snapshot.PercentInGame = maxPercent
	}
	return snapshot
}
