package simulate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveFairness retrieves fairness numbers for all players concurrently.
func retrieveFairness(ctx context.Context, config *Config, players []string, stats *Stats) ([]FairnessEntry, error) {
	log.Printf("⚖️  Retrieving fairness for %d players with %d workers...", len(players), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	entries := make([]FairnessEntry, len(players))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	playerChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of names
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range playerChan {
				select {
				case <-ctx.Done():
					return
				default:
					player := players[index]
					entry, err := retrieveSingleFairness(ctx, client, config.BaseURL, player)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get fairness for %s: %v", player, err)
						}
					} else {
						entries[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("📊 Fairness progress: %d/%d retrieved (success: %d, failed: %d)",
							total, len(players), ret, fail)
					}
				}
			}
		}(i)
	}

	// Send player indices to workers
	go func() {
		defer close(playerChan)
		for i := range players {
			select {
			case <-ctx.Done():
				return
			case playerChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validEntries := make([]FairnessEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Player != "" { // Empty Player indicates failed retrieval
			validEntries = append(validEntries, entry)
		}
	}

	// Update stats
	stats.FairnessRetrieved = len(validEntries)

	log.Printf(`✅ Fairness retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validEntries), int(atomic.LoadInt64(&failed)))

	return validEntries, nil
}

// retrieveSingleFairness retrieves fairness for a single player.
func retrieveSingleFairness(ctx context.Context, client *HTTPClient, baseURL, player string) (FairnessEntry, error) {
	url := fmt.Sprintf("%s/fairness/%s", baseURL, player)

	var entry FairnessEntry
	if err := getJSON(ctx, client, url, &entry); err != nil {
		return FairnessEntry{}, err
	}
	return entry, nil
}

// getNextQueue retrieves the top N entries from the urgency queue.
func getNextQueue(ctx context.Context, config *Config, stats *Stats) (NextResponse, error) {
	log.Printf("🔜 Getting top %d urgency queue entries...", config.NextN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/next?n=%d", config.BaseURL, config.NextN)

	var next NextResponse
	if err := getJSON(ctx, client, url, &next); err != nil {
		return NextResponse{}, err
	}

	stats.NextEntries = len(next.Players)
	log.Printf("✅ Retrieved %d urgency queue entries", len(next.Players))

	return next, nil
}
