package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/okian/rondo/internal/domain/planner"
	"github.com/okian/rondo/pkg/metrics"
)

// MemoryStore keeps the snapshot in memory, round-tripped through JSON so it
// behaves exactly like the file-backed store minus the disk.
type MemoryStore struct {
	mu  sync.RWMutex
	raw []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save persists the snapshot.
func (s *MemoryStore) Save(_ context.Context, state planner.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()

	metrics.RecordSnapshotSave()
	return nil
}

// Load returns the last persisted snapshot.
func (s *MemoryStore) Load(_ context.Context) (planner.State, error) {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()

	if raw == nil {
		return planner.State{}, ErrNoSnapshot
	}

	var state planner.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return planner.State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return state, nil
}
