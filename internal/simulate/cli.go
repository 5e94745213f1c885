package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/rondo/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "match_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the match simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rondo Match Simulator
=====================

Plays a full half against a running Rondo instance: posts the roster,
drives the game clock, executes the planned substitutions as they come
due and verifies the fairness numbers afterwards.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players on the roster (default 8)
  -half int
        Half length in seconds of game clock (default 1500)
  -step int
        Game clock step between ticks in seconds (default 30)
  -next int
        Number of entries to fetch from the urgency queue (default 5)
  -workers int
        Number of concurrent workers for fairness retrieval (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the match report (default: match_report_TIMESTAMP.json)
  -log string
        Log file for simulation output (default: match_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # Short match with a big squad
  go run cmd/simulate/main.go -players 12 -half 600 -step 15

  # Against a non-default instance with verbose output
  go run cmd/simulate/main.go -url http://localhost:8080 -verbose
`)
}
