// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/rondo/internal/domain/dedupe"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/planner"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a match event for async application. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, e model.MatchEvent) bool

	// Read operations expose engine state.
	Plan(ctx context.Context) []planner.AssignmentView
	Boundary(ctx context.Context) int
	Shortfall(ctx context.Context) *planner.ShortfallStatus
	ShiftSeconds(ctx context.Context) float64
	GameClock(ctx context.Context) int
	PickNextPlayers(ctx context.Context, n int) []string
	PickNextPosition(ctx context.Context) (string, error)
	Fairness(ctx context.Context, player string) (model.FairnessSnapshot, error)
	PlayerPosition(ctx context.Context, player string) (string, bool, error)
	Positions(ctx context.Context) []string
	Roster(ctx context.Context) (available, unavailable []string)

	// Lifecycle operations.
	Reset(ctx context.Context)
	SaveSnapshot(ctx context.Context) error
	RestoreSnapshot(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	rosterHandler       *RosterHandler
	tickHandler         *TickHandler
	substitutionHandler *SubstitutionHandler
	assignmentHandler   *AssignmentHandler
	planHandler         *PlanHandler
	nextHandler         *NextHandler
	fairnessHandler     *FairnessHandler
	positionHandler     *PositionHandler
	resetHandler        *ResetHandler
	snapshotHandler     *SnapshotHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxNextLimit int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		rosterHandler:       NewRosterHandler(deps),
		tickHandler:         NewTickHandler(deps),
		substitutionHandler: NewSubstitutionHandler(deps),
		assignmentHandler:   NewAssignmentHandler(deps),
		planHandler:         NewPlanHandler(deps),
		nextHandler:         NewNextHandler(deps, maxNextLimit),
		fairnessHandler:     NewFairnessHandler(deps),
		positionHandler:     NewPositionHandler(deps),
		resetHandler:        NewResetHandler(deps),
		snapshotHandler:     NewSnapshotHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/roster", MetricsMiddleware(s.rosterHandler.HandlePostRoster, "roster"))
	mux.HandleFunc("/tick", MetricsMiddleware(s.tickHandler.HandlePostTick, "tick"))
	mux.HandleFunc("/substitutions", MetricsMiddleware(s.substitutionHandler.HandlePostSubstitutions, "substitutions"))
	mux.HandleFunc("/assignments", MetricsMiddleware(s.assignmentHandler.HandlePostAssignment, "assignments"))
	mux.HandleFunc("/plan", MetricsMiddleware(s.planHandler.HandleGetPlan, "plan"))
	mux.HandleFunc("/next", MetricsMiddleware(s.nextHandler.HandleGetNext, "next"))
	mux.HandleFunc("/fairness/", MetricsMiddleware(s.fairnessHandler.HandleGetFairness, "fairness"))
	mux.HandleFunc("/position/", MetricsMiddleware(s.positionHandler.HandleGetPosition, "position"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.resetHandler.HandlePostReset, "reset"))
	mux.HandleFunc("/snapshot/save", MetricsMiddleware(s.snapshotHandler.HandleSave, "snapshot_save"))
	mux.HandleFunc("/snapshot/restore", MetricsMiddleware(s.snapshotHandler.HandleRestore, "snapshot_restore"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
