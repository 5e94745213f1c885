package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/rondo/internal/domain/planner"
	"github.com/okian/rondo/pkg/metrics"
)

const defaultFileMode = 0o600

// FileStore keeps the snapshot as a single JSON document on disk. Writes go
// through a temp file and rename so a crash mid-save never corrupts the
// previous snapshot.
type FileStore struct {
	path string
	mode os.FileMode
}

// FileOption applies a configuration option to the FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permission bits for the snapshot file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path: path,
		mode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the snapshot atomically.
func (s *FileStore) Save(_ context.Context, state planner.State) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, s.mode); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	metrics.RecordSnapshotSave()
	return nil
}

// Load reads and decodes the last persisted snapshot.
func (s *FileStore) Load(_ context.Context) (planner.State, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return planner.State{}, ErrNoSnapshot
		}
		return planner.State{}, fmt.Errorf("read snapshot: %w", err)
	}

	var state planner.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return planner.State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return state, nil
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return filepath.Clean(s.path)
}
