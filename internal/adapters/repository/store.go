// Package repository persists engine snapshots so a game can survive a
// process restart or move between devices mid-match.
package repository

import (
	"context"

	"github.com/okian/rondo/internal/domain/planner"
)

// Store provides save/load access to a persisted game snapshot.
type Store interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, state planner.State) error

	// Load returns the last persisted snapshot.
	// Returns ErrNoSnapshot when nothing has been saved yet.
	Load(ctx context.Context) (planner.State, error)
}
