package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from
// callers. ErrInvalidConfig covers values that parse but fail validation;
// ErrLoadConfig covers provider and unmarshal failures.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
