// Package service wires the engine together and implements the dependencies
// required by the HTTP API.
//
// Every mutating operation travels as a match event through the queue to the
// single match director, which applies events in arrival order. That one
// consumer is the engine's serialization point; reads share a mutex with it
// so they always observe a settled state.
package service

import (
	"context"
	"sync"

	eventqueue "github.com/okian/rondo/internal/adapters/mq/queue"
	"github.com/okian/rondo/internal/adapters/mq/worker"
	"github.com/okian/rondo/internal/adapters/repository"
	"github.com/okian/rondo/internal/domain/dedupe"
	"github.com/okian/rondo/internal/domain/formation"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/planner"
	"github.com/okian/rondo/pkg/logger"
	"github.com/okian/rondo/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 4096
	defaultFormatSize = formation.SizeFive
)

// Service owns the planner and its supporting components.
type Service struct {
	mu sync.RWMutex

	// engineMu serializes every touch of the planner: the director's event
	// application and all synchronous reads.
	engineMu sync.Mutex
	engine   *planner.Planner

	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	director   *worker.Director
	snapshots  repository.Store

	// Configuration
	queueSize     int
	dedupeSize    int
	formatSize    int
	positions     []string
	halfLengthSec int
	halves        int

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the match event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the batch-ID deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithFormatSize sets the game format (5, 9 or 11 a side).
func WithFormatSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.formatSize = size
		}
	}
}

// WithPositions selects the active subset of the format's layout. An empty
// selection activates the full layout.
func WithPositions(positions []string) Option {
	return func(s *Service) {
		s.positions = positions
	}
}

// WithHalfLength sets the length of one half in seconds.
func WithHalfLength(sec int) Option {
	return func(s *Service) {
		if sec > 0 {
			s.halfLengthSec = sec
		}
	}
}

// WithHalves sets the number of halves in a game.
func WithHalves(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.halves = n
		}
	}
}

// WithSnapshotStore sets the snapshot persistence backend.
func WithSnapshotStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.snapshots = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		formatSize: defaultFormatSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the components and launches the match director.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting substitution service...")

	layout, err := formation.ForSize(s.formatSize)
	if err != nil {
		return err
	}
	positionSet, err := layout.Select(s.positions)
	if err != nil {
		return err
	}

	var plannerOpts []planner.Option
	if s.halfLengthSec > 0 {
		plannerOpts = append(plannerOpts, planner.WithHalfLength(s.halfLengthSec))
	}
	if s.halves > 0 {
		plannerOpts = append(plannerOpts, planner.WithHalves(s.halves))
	}
	s.engine = planner.New(positionSet, plannerOpts...)

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)
	if s.snapshots == nil {
		s.snapshots = repository.NewMemoryStore()
	}

	s.director = worker.NewDirector(s.eventQueue, s, worker.WithName("match-director"))

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.director.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "substitution service started",
		logger.Int("formatSize", s.formatSize),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping substitution service...")

	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	if s.director != nil {
		if err := s.director.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "director shutdown failed", logger.Error(err))
		}
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "substitution service stopped")
}

// SeenAndRecord atomically checks whether a batch ID was seen and records it
// if not. Returns true when the batch is a duplicate.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordDuplicateBatch()
	}
	return seen
}

// Unrecord forgets a batch ID so the batch can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of batch IDs currently recorded in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a match event for asynchronous application.
func (s *Service) Enqueue(ctx context.Context, e model.MatchEvent) bool {
	return s.eventQueue.Enqueue(ctx, e)
}

// Apply applies one match event to the engine. It is called by the match
// director only, one event at a time.
func (s *Service) Apply(ctx context.Context, e worker.Event) error {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	switch e.Kind {
	case model.KindTick:
		s.engine.Tick(e.AtSec)
		metrics.RecordTick()

	case model.KindRoster:
		s.engine.SetRoster(e.Available, e.Unavailable)
		if delta := s.engine.UpdatePlayers(); delta != 0 {
			s.engine.ComputeShiftTime()
			s.engine.ComputePlan()
			s.logger.Info(ctx, "roster changed, plan recomputed",
				logger.Int("delta", delta),
			)
		}

	case model.KindSubstitution:
		if err := s.engine.ExecuteAssignments(e.Substitutions); err != nil {
			return err
		}

	case model.KindAssignment:
		if e.Assignment == nil {
			return nil
		}
		if err := s.engine.StageNext(e.Assignment.Player, e.Assignment.Position); err != nil {
			return err
		}
		s.engine.ComputePlan()
	}

	return nil
}

// Plan returns the full assignment list, executed history first.
func (s *Service) Plan(_ context.Context) []planner.AssignmentView {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Plan()
}

// Boundary returns the executed/projected boundary index.
func (s *Service) Boundary(_ context.Context) int {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Boundary()
}

// Shortfall returns the current planning shortfall, nil when fully planned.
func (s *Service) Shortfall(_ context.Context) *planner.ShortfallStatus {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Shortfall()
}

// PickNextPlayers returns the n most urgent bench players.
func (s *Service) PickNextPlayers(_ context.Context, n int) []string {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.PickNextPlayers(n)
}

// PickNextPosition returns the field position longest without rotation.
func (s *Service) PickNextPosition(_ context.Context) (string, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.PickNextPosition()
}

// Fairness returns the display metrics for a player.
func (s *Service) Fairness(_ context.Context, player string) (model.FairnessSnapshot, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Fairness(player)
}

// PlayerPosition returns the position a player holds right now.
func (s *Service) PlayerPosition(_ context.Context, player string) (string, bool, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.PlayerPosition(player)
}

// Positions returns the active position names.
func (s *Service) Positions(_ context.Context) []string {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Positions()
}

// Roster returns the roster as last provided.
func (s *Service) Roster(_ context.Context) (available, unavailable []string) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.Roster()
}

// GameClock returns the current game time in seconds.
func (s *Service) GameClock(_ context.Context) int {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.NowSec()
}

// ShiftSeconds returns the current per-shift duration.
func (s *Service) ShiftSeconds(_ context.Context) float64 {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return s.engine.ShiftSeconds()
}

// Reset clears the game back to a blank state.
func (s *Service) Reset(ctx context.Context) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	s.engine.Reset()
	s.logger.Info(ctx, "game reset")
}

// SaveSnapshot persists the full engine state.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	s.engineMu.Lock()
	state := s.engine.Snapshot()
	s.engineMu.Unlock()

	if err := s.snapshots.Save(ctx, state); err != nil {
		s.logger.Error(ctx, "snapshot save failed", logger.Error(err))
		return err
	}
	return nil
}

// RestoreSnapshot replaces the engine state with the last persisted snapshot.
// A failed restore leaves the running game untouched.
func (s *Service) RestoreSnapshot(ctx context.Context) error {
	state, err := s.snapshots.Load(ctx)
	if err != nil {
		metrics.RecordSnapshotRestoreFailure()
		return err
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	if err := s.engine.RestoreFrom(state); err != nil {
		metrics.RecordSnapshotRestoreFailure()
		s.logger.Error(ctx, "snapshot restore rejected", logger.Error(err))
		return err
	}

	metrics.RecordSnapshotRestore()
	s.logger.Info(ctx, "snapshot restored",
		logger.Int("gameClock", s.engine.NowSec()),
		logger.Int("assignments", len(s.engine.Plan())),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	queueSize := s.queueSize
	dedupeSize := s.dedupeSize
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    started,
		"queueSize":  queueSize,
		"dedupeSize": dedupeSize,
	}

	if !started {
		return stats
	}

	s.engineMu.Lock()
	stats["gameClock"] = s.engine.NowSec()
	stats["planLength"] = len(s.engine.Plan())
	stats["boundary"] = s.engine.Boundary()
	stats["shiftSeconds"] = s.engine.ShiftSeconds()
	s.engineMu.Unlock()

	stats["queueLength"] = s.eventQueue.Len(ctx)
	stats["dedupeEntries"] = s.Size()
	return stats
}
