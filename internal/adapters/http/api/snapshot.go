// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/rondo/internal/adapters/repository"
	"github.com/okian/rondo/internal/domain/planner"
)

// SnapshotDependencies defines the interface for snapshot operations.
type SnapshotDependencies interface {
	SaveSnapshot(ctx context.Context) error
	RestoreSnapshot(ctx context.Context) error
}

// SnapshotHandler handles snapshot save/restore.
type SnapshotHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps SnapshotDependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleSave handles POST /snapshot/save requests.
func (h *SnapshotHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.snapshot_save"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.SaveSnapshot(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "saved"})
}

// HandleRestore handles POST /snapshot/restore requests. A rejected snapshot
// leaves the running game untouched and reports 422.
func (h *SnapshotHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	const op = "api.snapshot_restore"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.RestoreSnapshot(r.Context()); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoSnapshot):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, planner.ErrInvalidState), errors.Is(err, repository.ErrInvalidSnapshot):
			writeError(w, http.StatusUnprocessableEntity, "invalid_snapshot", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "restored"})
}
