package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/canyonplan/planner/internal/plans"
	"github.com/canyonplan/planner/pkg/core"
)

// planPayload is the user-editable plan body accepted on create and
// update. Identity fields are assigned server side.
type planPayload struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	TeamTimings    core.TeamTimings `json:"teamTimings"`
	TeamSpawn      core.SpawnSide   `json:"teamSpawn"`
	Markings       []core.Marking   `json:"markings"`
	CurrentTime    float64          `json:"currentTime"`
	MarkerDuration float64          `json:"markerDuration"`
}

func (p planPayload) toDraft() plans.Draft {
	return plans.Draft{
		Name:           p.Name,
		Description:    p.Description,
		TeamTimings:    p.TeamTimings,
		TeamSpawn:      p.TeamSpawn,
		Markings:       p.Markings,
		CurrentTime:    p.CurrentTime,
		MarkerDuration: p.MarkerDuration,
	}
}

func planID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleListPlans returns the whole stored collection.
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Plans.List())
}

// handleGetPlan returns a plan by ID.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := planID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, ok := s.deps.Plans.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// handleCreatePlan saves a new plan from the posted draft.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := s.deps.Plans.Save(req.toDraft())
	if err != nil {
		if errors.Is(err, plans.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to save plan")
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// handleUpdatePlan replaces an existing plan's content in full.
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := planID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	var req planPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, ok, err := s.deps.Plans.Update(id, req.toDraft())
	if err != nil {
		if errors.Is(err, plans.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update plan")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// handleDeletePlan removes a plan by ID.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := planID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	if !s.deps.Plans.Delete(id) {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleMergePlans combines two or more stored plans into a new one.
func (s *Server) handleMergePlans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []int64 `json:"ids"`
		Name string  `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := s.deps.Plans.Merge(req.IDs, req.Name)
	if err != nil {
		if errors.Is(err, plans.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to merge plans")
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

// handleImportPlans appends plans from an exported document. The body
// is the raw export, either a single plan object or an array.
func (s *Server) handleImportPlans(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	imported, err := s.deps.Plans.ImportMany(raw)
	if err != nil {
		if errors.Is(err, plans.ErrMalformedImport) || errors.Is(err, plans.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to import plans")
		return
	}
	respondJSON(w, http.StatusCreated, imported)
}

// handleExportPlans streams the full collection as a JSON document
// suitable for re-import.
func (s *Server) handleExportPlans(w http.ResponseWriter, r *http.Request) {
	raw, err := s.deps.Plans.ExportAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to export plans")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="plans.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// handleGetPlanByCode returns a plan by share code.
func (s *Server) handleGetPlanByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	for _, p := range s.deps.Plans.List() {
		if p.ShareCode != "" && p.ShareCode == code {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Plan not found")
}

// handleStagePlan writes a plan into the one-shot handoff slot, to be
// picked up by the next planner view load.
func (s *Server) handleStagePlan(w http.ResponseWriter, r *http.Request) {
	id, err := planID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, ok := s.deps.Plans.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err := s.deps.Plans.StagePlan(plan); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to stage plan")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "staged"})
}

// handleTakePendingPlan consumes the handoff slot. Returns 204 when
// nothing is staged; a second read never sees the same plan.
func (s *Server) handleTakePendingPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.deps.Plans.TakeStagedPlan()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read pending plan")
		return
	}
	if plan == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// handleLoadPlan loads a stored plan into the live planner: its
// markings become the working set and the timeline jumps to the
// plan's saved time.
func (s *Server) handleLoadPlan(w http.ResponseWriter, r *http.Request) {
	id, err := planID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, ok := s.deps.Plans.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Plan not found")
		return
	}

	s.deps.Markings.Load(plan.Markings)
	s.deps.Timeline.Seek(plan.CurrentTime)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "loaded",
		"plan":     plan,
		"timeline": s.deps.Timeline.State(),
	})
}

// handleGetLanguage returns the stored UI language preference.
func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"language": s.deps.Plans.Language()})
}

// handleSetLanguage stores the UI language preference.
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Language == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.deps.Plans.SetLanguage(req.Language); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store language")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"language": req.Language})
}
