// Package api exposes the planner over HTTP: plan CRUD, merge and
// import/export, the live battle view (timeline, markings,
// objectives), the event schedule, and PNG snapshots.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/canyonplan/planner/internal/config"
	"github.com/canyonplan/planner/internal/markings"
	"github.com/canyonplan/planner/internal/objectives"
	"github.com/canyonplan/planner/internal/plans"
	"github.com/canyonplan/planner/internal/timeline"
	"github.com/canyonplan/planner/internal/worldclock"
	"github.com/canyonplan/planner/pkg/core"
)

// UsageRecorder counts API-surface operations that do not go through
// the plan service. Optional; a nil recorder disables counting.
type UsageRecorder interface {
	MarkingPlaced(team core.Team)
	ConversionFailure(tz string)
}

// Deps carries the server's collaborators.
type Deps struct {
	Plans      *plans.Service
	Markings   *markings.Store
	Timeline   *timeline.Engine
	Objectives *objectives.Registry
	Clock      *worldclock.Converter
	Battle     config.BattleConfig
	Log        *slog.Logger

	// Usage is optional.
	Usage UsageRecorder
	// Live, when set, is mounted at /ws for the timeline broadcast.
	Live http.Handler
}

// Server holds the HTTP server dependencies.
type Server struct {
	deps   Deps
	router chi.Router
}

// New creates a new API server.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	s := &Server{
		deps:   deps,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Plans
		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/export", s.handleExportPlans)
		r.Post("/plans/import", s.handleImportPlans)
		r.Post("/plans/merge", s.handleMergePlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Put("/plans/{id}", s.handleUpdatePlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)
		r.Post("/plans/{id}/stage", s.handleStagePlan)
		r.Post("/plans/{id}/load", s.handleLoadPlan)
		r.Get("/pending-plan", s.handleTakePendingPlan)

		// Share links
		r.Get("/s/{code}", s.handleGetPlanByCode)

		// Language preference
		r.Get("/language", s.handleGetLanguage)
		r.Put("/language", s.handleSetLanguage)

		// Timeline
		r.Get("/timeline", s.handleTimelineState)
		r.Post("/timeline/seek", s.handleTimelineSeek)
		r.Post("/timeline/play", s.handleTimelinePlay)
		r.Post("/timeline/pause", s.handleTimelinePause)

		// Markings
		r.Get("/markings", s.handleListMarkings)
		r.Post("/markings", s.handleAddMarking)
		r.Delete("/markings", s.handleClearMarkings)
		r.Delete("/markings/{id}", s.handleRemoveMarking)

		// Objectives and phases
		r.Get("/objectives", s.handleListObjectives)
		r.Get("/objectives/positions", s.handleExportPositions)
		r.Get("/objectives/{key}", s.handleGetObjective)
		r.Put("/objectives/{key}/positions/{index}", s.handleSetObjectivePosition)
		r.Get("/phases", s.handleListPhases)

		// Teams
		r.Get("/teams", s.handleListTeams)

		// Schedule
		r.Get("/schedule", s.handleScheduleTable)
		r.Get("/schedule/events", s.handleScheduleEvents)
		r.Get("/schedule/timezones", s.handleScheduleTimezones)
		r.Get("/schedule/now", s.handleServerTime)
		r.Get("/schedule/convert", s.handleConvert)

		// Snapshot
		r.Get("/snapshot", s.handleSnapshot)
	})

	if s.deps.Live != nil {
		s.router.Handle("/ws", s.deps.Live)
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
