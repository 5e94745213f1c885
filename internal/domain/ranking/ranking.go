// Package ranking orders available players by urgency to play next.
package ranking

import (
	"github.com/okian/rondo/internal/domain/model"
)

// Urgency key scale constants. These are tuning values, not law: they only
// have to keep the three factors in strict precedence (percent-in-game
// dominates, bench time breaks ties, arrival order separates exact equals)
// at realistic values of seconds and squad sizes.
const (
	percentScale = 1e6
	benchScale   = 1e2
)

// Candidate bundles what the ranker needs to know about one player.
type Candidate struct {
	Player   model.PlayerID
	Name     string
	Arrival  int
	Fairness model.FairnessSnapshot
}

// Compare returns a negative value when a should play before b, positive when
// b should, and zero only for indistinguishable candidates.
//
// Precedence: lower percent-in-game, then longer bench wait, then earlier
// arrival, then name order as a deterministic fallback.
func Compare(a, b Candidate) int {
	switch {
	case a.Fairness.PercentInGame < b.Fairness.PercentInGame:
		return -1
	case a.Fairness.PercentInGame > b.Fairness.PercentInGame:
		return 1
	}
	switch {
	case a.Fairness.BenchSeconds > b.Fairness.BenchSeconds:
		return -1
	case a.Fairness.BenchSeconds < b.Fairness.BenchSeconds:
		return 1
	}
	switch {
	case a.Arrival < b.Arrival:
		return -1
	case a.Arrival > b.Arrival:
		return 1
	}
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	}
	return 0
}

// UrgencyKey folds the three ranking factors into one monotone number where
// lower means more urgent to field. Bench time is subtracted so that longer
// waits rank earlier inside a percent bucket; the scales keep buckets from
// overlapping as long as bench stays under 10000 seconds and arrival indexes
// under 100, which covers real youth games.
func UrgencyKey(c Candidate) float64 {
	return c.Fairness.PercentInGame*percentScale -
		float64(c.Fairness.BenchSeconds)*benchScale +
		float64(c.Arrival)
}

// SelectMostUrgent returns the n most urgent candidates without fully sorting
// the input. Selection runs through an order-statistic treap keyed by
// (UrgencyKey, Name) so results are deterministic under key ties.
func SelectMostUrgent(candidates []Candidate, n int) []Candidate {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	var root *node
	byName := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		root = insert(root, c.Name, UrgencyKey(c))
		byName[c.Name] = c
	}

	names := make([]string, 0, n)
	collectLowest(root, n, &names)

	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}
