// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FormatSize selects the game format: 5, 9 or 11 a side.
	FormatSize int `koanf:"format_size"`

	// Positions selects the active subset of the format's layout.
	// Empty activates the full layout.
	Positions []string `koanf:"positions"`

	// HalfLengthSec sets the length of one half in seconds.
	HalfLengthSec int `koanf:"half_length_sec"`

	// Halves sets the number of halves in a game.
	Halves int `koanf:"halves"`

	// EventQueueSize bounds the in-memory match event queue.
	EventQueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the batch-ID deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxNextLimit caps GET /next?n.
	MaxNextLimit int `koanf:"max_next_limit"`

	// SnapshotPath, when set, persists game snapshots to this file.
	// Empty keeps snapshots in memory only.
	SnapshotPath string `koanf:"snapshot_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		FormatSize:     5,
		HalfLengthSec:  25 * 60,
		Halves:         2,
		EventQueueSize: 1024,
		DedupeSize:     4096,
		MaxNextLimit:   100,
	}
}
