package simulate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/rondo/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// matchReport is the shape written to the output file after a run.
type matchReport struct {
	Plan     PlanResponse    `json:"plan"`
	Fairness []FairnessEntry `json:"fairness"`
	Next     NextResponse    `json:"next"`
}

// Run executes a complete simulated half against a running instance.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting rondo match simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers),
		logger.Int("halfLengthSec", config.HalfLengthSec),
		logger.Int("tickStepSec", config.TickStepSec),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("nextN", config.NextN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the roster
	kickoff, late := generateRoster(ctx, config, stats)

	// Step 3: Submit the kickoff roster (and resubmit to exercise dedupe)
	if err := submitRoster(ctx, config, client, kickoff, nil, stats); err != nil {
		return fmt.Errorf("roster submission failed: %w", err)
	}

	// Step 4: Play the half: drive the clock, execute due substitutions
	if err := playHalf(ctx, config, client, late, stats); err != nil {
		return fmt.Errorf("match playback failed: %w", err)
	}

	// Step 5: Wait for queued events to drain
	logger.Get().Info(ctx, "waiting for events to be processed")
	time.Sleep(ProcessingDrainDelay)

	// Step 6: Fetch the final plan
	var plan PlanResponse
	if err := getJSON(ctx, client, config.BaseURL+"/plan", &plan); err != nil {
		return fmt.Errorf("plan retrieval failed: %w", err)
	}

	// Step 7: Retrieve fairness for every player concurrently
	allPlayers := append(append([]string(nil), kickoff...), late...)
	fairness, err := retrieveFairness(ctx, config, allPlayers, stats)
	if err != nil {
		return fmt.Errorf("fairness retrieval failed: %w", err)
	}

	// Step 8: Get the urgency queue
	next, err := getNextQueue(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("urgency queue retrieval failed: %w", err)
	}

	// Step 9: Verify results
	if err := verifyResults(ctx, config, plan, fairness, next, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 10: Save the match report
	if err := saveReportToFile(ctx, config, matchReport{Plan: plan, Fairness: fairness, Next: next}); err != nil {
		logger.Get().Warn(ctx, "failed to save match report", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// submitRoster posts a roster batch and then resubmits the identical batch
// to confirm duplicate suppression.
func submitRoster(ctx context.Context, config *Config, client *HTTPClient, available, unavailable []string, stats *Stats) error {
	batch := RosterBatch{
		BatchID:     newBatchID("roster"),
		Available:   available,
		Unavailable: unavailable,
	}
	url := config.BaseURL + "/roster"

	result := submitBatch(ctx, client, url, batch)
	recordBatchResult(result, stats)
	if result == "failed" {
		return fmt.Errorf("roster batch %s rejected", batch.BatchID)
	}

	// Same batch ID again must come back as a duplicate ack.
	replay := submitBatch(ctx, client, url, batch)
	recordBatchResult(replay, stats)
	if replay != "duplicate" {
		log.Printf("⚠️  Roster replay was not deduplicated (got %q)", replay)
	}

	logger.Get().Info(ctx, "roster submitted",
		logger.String("batchID", batch.BatchID),
		logger.Int("available", len(available)),
		logger.Int("unavailable", len(unavailable)))
	return nil
}

// playHalf advances the game clock tick by tick, executing planned
// substitutions as they come due. When a late arrival is configured it
// joins halfway through the half.
func playHalf(ctx context.Context, config *Config, client *HTTPClient, late []string, stats *Stats) error {
	log.Printf("⚽ Playing half: %ds of game clock in %ds ticks...", config.HalfLengthSec, config.TickStepSec)

	tickURL := config.BaseURL + "/tick"
	subsURL := config.BaseURL + "/substitutions"
	lateJoined := len(late) == 0
	firstBatchReplayed := false
	keeperStaged := false

	for clock := 0; clock <= config.HalfLengthSec; clock += config.TickStepSec {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during playback: %w", ctx.Err())
		default:
		}

		if result := submitBatch(ctx, client, tickURL, TickRequest{AtSec: clock}); result == "failed" {
			return fmt.Errorf("tick at %ds rejected", clock)
		}
		stats.TicksSubmitted++
		time.Sleep(WriteSettleDelay)

		if !lateJoined && clock >= config.HalfLengthSec/2 {
			if err := submitRoster(ctx, config, client, late, nil, stats); err != nil {
				return err
			}
			lateJoined = true
			time.Sleep(WriteSettleDelay)
		}

		var plan PlanResponse
		if err := getJSON(ctx, client, config.BaseURL+"/plan", &plan); err != nil {
			return fmt.Errorf("plan retrieval at %ds failed: %w", clock, err)
		}

		// Stage a second-half keeper once the first rotation has settled. The
		// keeper slot is whatever position the very first assignment filled.
		if !keeperStaged && clock >= config.HalfLengthSec/3 && len(plan.Assignments) > 0 {
			if err := stageKeeper(ctx, config, client, plan.Assignments[0].Position, stats); err != nil {
				log.Printf("⚠️  Keeper staging failed: %v", err)
			}
			keeperStaged = true
		}

		due := dueAssignments(plan, clock)
		if len(due) == 0 {
			continue
		}

		batch := SubstitutionBatch{
			BatchID:       newBatchID("subs"),
			Substitutions: due,
		}
		result := submitBatch(ctx, client, subsURL, batch)
		recordBatchResult(result, stats)
		if result == "failed" {
			return fmt.Errorf("substitution batch at %ds rejected", clock)
		}
		stats.SubsExecuted += len(due)

		if config.Verbose {
			log.Printf("🔄 %ds: executed %d substitutions (boundary %d)", clock, len(due), plan.Boundary)
		}

		// Replay one batch mid-game so the dedupe path sees real traffic.
		if !firstBatchReplayed {
			replay := submitBatch(ctx, client, subsURL, batch)
			recordBatchResult(replay, stats)
			if replay != "duplicate" {
				log.Printf("⚠️  Substitution replay was not deduplicated (got %q)", replay)
			}
			firstBatchReplayed = true
		}
		time.Sleep(WriteSettleDelay)
	}

	log.Printf("✅ Half complete: %d ticks, %d substitutions executed", stats.TicksSubmitted, stats.SubsExecuted)
	return nil
}

// stageKeeper designates the most urgent bench player as the second-half
// keeper via the staged-assignment endpoint.
func stageKeeper(ctx context.Context, config *Config, client *HTTPClient, keeperPosition string, stats *Stats) error {
	var next NextResponse
	if err := getJSON(ctx, client, config.BaseURL+"/next?n=1", &next); err != nil {
		return err
	}
	if len(next.Players) == 0 {
		return fmt.Errorf("no bench player to stage")
	}

	req := AssignmentRequest{Player: next.Players[0], Position: keeperPosition}
	result := submitBatch(ctx, client, config.BaseURL+"/assignments", req)
	recordBatchResult(result, stats)
	if result == "failed" {
		return fmt.Errorf("staging %s as keeper rejected", next.Players[0])
	}

	logger.Get().Info(ctx, "second-half keeper staged",
		logger.String("player", next.Players[0]),
		logger.String("position", keeperPosition))
	return nil
}

// dueAssignments extracts the unexecuted plan entries at or before the clock.
func dueAssignments(plan PlanResponse, clock int) []SubstitutionEntry {
	var due []SubstitutionEntry
	for _, a := range plan.Assignments {
		if a.Executed || a.TimeSec > clock {
			continue
		}
		due = append(due, SubstitutionEntry{
			Player:   a.Player,
			Position: a.Position,
			TimeSec:  clock,
		})
	}
	return due
}

// recordBatchResult updates the batch counters for a classified result.
func recordBatchResult(result string, stats *Stats) {
	stats.BatchesSubmitted++
	switch result {
	case "success":
		stats.BatchesAccepted++
	case "duplicate":
		stats.BatchesDuplicate++
	case "failed":
		stats.BatchesFailed++
	}
}

// saveReportToFile writes the match report to a JSON file.
func saveReportToFile(ctx context.Context, config *Config, report matchReport) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "match_report_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := marshalJSONIndent(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "match report saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, ticksPerSecond float64

	if stats.BatchesSubmitted > 0 {
		successRate = float64(stats.BatchesAccepted) / float64(stats.BatchesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		ticksPerSecond = float64(stats.TicksSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("ticksSubmitted", stats.TicksSubmitted),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesAccepted", stats.BatchesAccepted),
		logger.Int("batchesDuplicate", stats.BatchesDuplicate),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("subsExecuted", stats.SubsExecuted),
		logger.Int("fairnessRetrieved", stats.FairnessRetrieved),
		logger.Int("nextEntries", stats.NextEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("ticksPerSecond", ticksPerSecond))
}
