package simulate

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// Bounds for a valid fairness percentage.
const (
	minPercent = 0.0
	maxPercent = 100.0
)

// verifyResults checks the internal consistency of the plan, fairness
// numbers and urgency queue after a full half.
func verifyResults(ctx context.Context, config *Config, plan PlanResponse, fairness []FairnessEntry, next NextResponse, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(fairness) == 0 {
		return fmt.Errorf("no fairness entries to verify")
	}

	if err := verifyPercentBounds(fairness); err != nil {
		return err
	}

	if err := verifyExecutedPrefix(plan); err != nil {
		log.Printf("⚠️  Plan consistency warning: %v", err)
	} else {
		log.Println("✅ Plan executed prefix verified")
	}

	if err := verifyUrgencyOrdering(fairness, next); err != nil {
		log.Printf("⚠️  Urgency queue warning: %v", err)
	} else {
		log.Println("✅ Urgency queue ordering verified")
	}

	displayBenchLeaders(fairness, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyPercentBounds rejects fairness percentages outside [0, 100].
func verifyPercentBounds(fairness []FairnessEntry) error {
	for _, entry := range fairness {
		if entry.PercentInGame < minPercent || entry.PercentInGame > maxPercent {
			return fmt.Errorf("player %s has out-of-range fairness %.3f", entry.Player, entry.PercentInGame)
		}
		if entry.BenchSeconds < 0 {
			return fmt.Errorf("player %s has negative bench time %d", entry.Player, entry.BenchSeconds)
		}
	}
	return nil
}

// verifyExecutedPrefix checks that executed assignments form a clean
// prefix of the plan ending at the boundary.
func verifyExecutedPrefix(plan PlanResponse) error {
	if plan.Boundary > len(plan.Assignments) {
		return fmt.Errorf("boundary %d exceeds plan length %d", plan.Boundary, len(plan.Assignments))
	}
	for i, a := range plan.Assignments {
		if i < plan.Boundary && !a.Executed {
			return fmt.Errorf("assignment %d before boundary %d is not executed", i, plan.Boundary)
		}
		if i >= plan.Boundary && a.Executed {
			return fmt.Errorf("assignment %d after boundary %d is executed", i, plan.Boundary)
		}
	}
	return nil
}

// verifyUrgencyOrdering checks that the urgency queue is sorted by
// ascending time share. Ties are broken server-side by bench time and
// arrival, so only strict percent inversions count as a violation.
func verifyUrgencyOrdering(fairness []FairnessEntry, next NextResponse) error {
	if len(next.Players) == 0 {
		return fmt.Errorf("empty urgency queue")
	}

	percentByPlayer := make(map[string]float64, len(fairness))
	for _, entry := range fairness {
		percentByPlayer[entry.Player] = entry.PercentInGame
	}

	for i := 1; i < len(next.Players); i++ {
		prev, prevOK := percentByPlayer[next.Players[i-1]]
		cur, curOK := percentByPlayer[next.Players[i]]
		if !prevOK || !curOK {
			return fmt.Errorf("urgency queue contains unknown player")
		}
		if cur < prev {
			return fmt.Errorf("urgency queue not sorted: %s (%.3f) ranked after %s (%.3f)",
				next.Players[i-1], prev, next.Players[i], cur)
		}
	}
	return nil
}

// displayBenchLeaders shows the players with the least and most game time.
func displayBenchLeaders(fairness []FairnessEntry, verbose bool) {
	sorted := make([]FairnessEntry, len(fairness))
	copy(sorted, fairness)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PercentInGame < sorted[j].PercentInGame
	})

	topN := 5
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("🪑 %d players with the least game time:", topN)
	for i := 0; i < topN; i++ {
		entry := sorted[i]
		log.Printf("   %d. %s - %.1f%% (bench %ds)", i+1, entry.Player, entry.PercentInGame, entry.BenchSeconds)
	}

	if verbose {
		avg := calculateAveragePercent(sorted)
		log.Printf(`📊 Time share statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avg, sorted[len(sorted)-1].PercentInGame, sorted[0].PercentInGame)
	}
}

// calculateAveragePercent calculates the average time share.
func calculateAveragePercent(fairness []FairnessEntry) float64 {
	if len(fairness) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range fairness {
		sum += entry.PercentInGame
	}

	return sum / float64(len(fairness))
}
