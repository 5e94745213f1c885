// Package worker runs the match director: the single consumer that applies
// queued match events to the engine. One director per game is the
// serialization point; the engine below it never needs a lock for writes.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rondo/internal/adapters/mq/queue"
	"github.com/okian/rondo/pkg/logger"
	"github.com/okian/rondo/pkg/metrics"
)

// Event is what the director reads off the queue.
type Event = queue.Event

// Applier applies one match event to the engine.
type Applier interface {
	Apply(ctx context.Context, e Event) error
}

// Queue defines how the director receives events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Director consumes match events in arrival order until stopped.
type Director struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDirector creates a match director with configuration options.
func NewDirector(q Queue, applier Applier, opts ...Option) *Director {
	d := &Director{
		queue:    q,
		applier:  applier,
		name:     "director",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("director"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name != "director" {
		d.logger = d.logger.Named(d.name)
	}
	return d
}

// Run starts the director loop. It returns when the context is cancelled,
// Shutdown is called, or the queue closes.
func (d *Director) Run(ctx context.Context) {
	defer close(d.done)

	metrics.UpdateDirectorActive(true)
	defer metrics.UpdateDirectorActive(false)

	events := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := d.process(ctx, event); err != nil {
				d.logger.Error(ctx, "error applying match event",
					logger.String("eventID", event.EventID),
					logger.String("kind", event.Kind.String()),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the director and waits for the in-flight event to finish.
func (d *Director) Shutdown(ctx context.Context) error {
	close(d.shutdown)

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process applies a single event.
func (d *Director) process(ctx context.Context, event Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordDirectorProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := d.applier.Apply(ctx, event); err != nil {
		metrics.RecordDirectorError()
		metrics.RecordErrorByComponent("director", "apply_error")
		return fmt.Errorf("apply event %s: %w", event.EventID, err)
	}
	return nil
}
