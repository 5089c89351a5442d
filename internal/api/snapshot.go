package api

import (
	"net/http"
	"strconv"

	"github.com/canyonplan/planner/internal/render"
	"github.com/canyonplan/planner/pkg/core"
)

const (
	defaultSnapshotSize = 1024
	maxSnapshotSize     = 4096
)

// handleSnapshot renders a plan (?plan=id) or the live working set as
// a PNG. Only the markings visible at the capture time are drawn; the
// time defaults to the plan's saved position, or the live clock.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	snap := render.Snapshot{
		Width:  defaultSnapshotSize,
		Height: defaultSnapshotSize,
	}

	if raw := q.Get("w"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSnapshotSize {
			respondError(w, http.StatusBadRequest, "Invalid width")
			return
		}
		snap.Width = n
	}
	if raw := q.Get("h"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSnapshotSize {
			respondError(w, http.StatusBadRequest, "Invalid height")
			return
		}
		snap.Height = n
	}

	if raw := q.Get("plan"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid plan id")
			return
		}
		plan, ok := s.deps.Plans.Get(id)
		if !ok {
			respondError(w, http.StatusNotFound, "Plan not found")
			return
		}
		snap.Title = plan.Name
		snap.At = plan.CurrentTime
		snap.Markings = plan.Markings
		snap.SpawnSide = plan.TeamSpawn
	} else {
		snap.At = s.deps.Timeline.Current()
		snap.Markings = s.deps.Markings.All()
		snap.SpawnSide = core.SpawnBlueDown
	}

	if raw := q.Get("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid time")
			return
		}
		snap.At = t
	}

	snap.Objectives = s.deps.Objectives.ActiveAt(snap.At)

	w.Header().Set("Content-Type", "image/png")
	if err := render.PNG(w, snap); err != nil {
		s.deps.Log.Error("failed to render snapshot", "error", err)
	}
}
