package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/rondo/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumPlayers = 8
	defaultHalfLength = 1500
	defaultTickStep   = 30
	defaultNextN      = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultSimTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players on the roster")
		halfLength = flag.Int("half", defaultHalfLength, "Half length in seconds of game clock")
		tickStep   = flag.Int("step", defaultTickStep, "Game clock step between ticks in seconds")
		nextN      = flag.Int("next", defaultNextN, "Number of entries to fetch from the urgency queue")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the match report (default: match_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for simulation output (default: match_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulate.Config{
		BaseURL:       *baseURL,
		NumPlayers:    *numPlayers,
		HalfLengthSec: *halfLength,
		TickStepSec:   *tickStep,
		NextN:         *nextN,
		Workers:       *workers,
		Timeout:       *timeout,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
