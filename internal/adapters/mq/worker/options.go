package worker

import "github.com/okian/rondo/pkg/logger"

// Option applies a configuration option to the Director.
type Option func(*Director)

// WithName sets the director name used in logs.
func WithName(name string) Option {
	return func(d *Director) {
		if name != "" {
			d.name = name
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Director) {
		if l != nil {
			d.logger = l
		}
	}
}
