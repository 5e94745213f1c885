package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RONDO_CONFIG is set
//  3. env (prefix RONDO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RONDO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: RONDO_ADDR, RONDO_QUEUE_SIZE, ...
	// Map env keys like RONDO_QUEUE_SIZE -> queue_size (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("RONDO_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "rondo_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.FormatSize {
	case 5, 9, 11:
	default:
		return fmt.Errorf("%w: format_size must be 5, 9 or 11", ErrInvalidConfig)
	}
	if c.HalfLengthSec <= 0 {
		return fmt.Errorf("%w: half_length_sec must be positive", ErrInvalidConfig)
	}
	if c.Halves < 1 {
		return fmt.Errorf("%w: halves must be at least 1", ErrInvalidConfig)
	}
	if c.MaxNextLimit < 1 {
		return fmt.Errorf("%w: max_next_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}
