package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/canyonplan/planner/internal/objectives"
	"github.com/canyonplan/planner/pkg/core"
)

// handleListObjectives returns all objectives, or only the ones
// active at ?t= when the filter is present.
func (s *Server) handleListObjectives(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid time filter")
			return
		}
		respondJSON(w, http.StatusOK, s.deps.Objectives.ActiveAt(t))
		return
	}
	respondJSON(w, http.StatusOK, s.deps.Objectives.All())
}

// handleGetObjective returns one objective. With ?t= on a staged
// objective the response also carries the stage active at that
// minute, if one has been reached.
func (s *Server) handleGetObjective(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	obj, ok := s.deps.Objectives.Get(key)
	if !ok {
		respondError(w, http.StatusNotFound, "Objective not found")
		return
	}

	resp := struct {
		core.Objective
		ActiveStage *core.Stage `json:"activeStage,omitempty"`
	}{Objective: obj}

	if raw := r.URL.Query().Get("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid time filter")
			return
		}
		if stage, ok := s.deps.Objectives.ActiveStage(key, t); ok {
			resp.ActiveStage = &stage
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleSetObjectivePosition moves one objective position, used by
// the calibration workflow.
func (s *Server) handleSetObjectivePosition(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid position index")
		return
	}

	var pos core.Position
	if err := decodeJSON(r, &pos); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.deps.Objectives.SetPosition(key, index, pos); err != nil {
		if errors.Is(err, objectives.ErrUnknownObjective) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleExportPositions returns the calibrated positions as a JSON
// document ready to paste back into the objective table.
func (s *Server) handleExportPositions(w http.ResponseWriter, r *http.Request) {
	raw, err := s.deps.Objectives.ExportPositions()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export positions")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// handleListPhases returns the battle phase table. With ?t= the
// response is the single phase containing that minute.
func (s *Server) handleListPhases(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid time filter")
			return
		}
		phase, ok := objectives.PhaseAt(t)
		if !ok {
			respondError(w, http.StatusNotFound, "No phase at that time")
			return
		}
		respondJSON(w, http.StatusOK, phase)
		return
	}
	respondJSON(w, http.StatusOK, objectives.Phases())
}

// handleListTeams returns the team roster with colors, roles, and the
// spawn-dependent deployment suggestion.
func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	spawn := core.SpawnSide(r.URL.Query().Get("spawn"))
	if !spawn.Valid() {
		spawn = core.SpawnBlueDown
	}

	type teamEntry struct {
		Team       core.Team `json:"team"`
		Label      string    `json:"label"`
		Color      string    `json:"color"`
		Role       string    `json:"role"`
		Suggestion string    `json:"suggestion,omitempty"`
	}

	teams := make([]teamEntry, 0, len(core.Teams()))
	for _, t := range core.Teams() {
		info, _ := t.Info()
		teams = append(teams, teamEntry{
			Team:       t,
			Label:      info.Label,
			Color:      info.Color,
			Role:       string(info.Role),
			Suggestion: spawn.Suggestion(t),
		})
	}
	respondJSON(w, http.StatusOK, teams)
}
