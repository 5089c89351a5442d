package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/canyonplan/planner/internal/geo"
	"github.com/canyonplan/planner/internal/markings"
	"github.com/canyonplan/planner/pkg/core"
)

// handleTimelineState returns the current battle clock.
func (s *Server) handleTimelineState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Timeline.State())
}

// handleTimelineSeek jumps the clock to a target minute. Out-of-range
// targets clamp rather than fail; seeking always stops playback.
func (s *Server) handleTimelineSeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time float64 `json:"time"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.deps.Timeline.Seek(req.Time)
	respondJSON(w, http.StatusOK, s.deps.Timeline.State())
}

// handleTimelinePlay starts playback.
func (s *Server) handleTimelinePlay(w http.ResponseWriter, r *http.Request) {
	s.deps.Timeline.Play()
	respondJSON(w, http.StatusOK, s.deps.Timeline.State())
}

// handleTimelinePause stops playback, keeping the current position.
func (s *Server) handleTimelinePause(w http.ResponseWriter, r *http.Request) {
	s.deps.Timeline.Pause()
	respondJSON(w, http.StatusOK, s.deps.Timeline.State())
}

// handleListMarkings returns the working set. With ?t= the list is
// filtered to the markings visible at that minute.
func (s *Server) handleListMarkings(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("t"); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid time filter")
			return
		}
		respondJSON(w, http.StatusOK, s.deps.Markings.VisibleAt(t))
		return
	}
	respondJSON(w, http.StatusOK, s.deps.Markings.All())
}

// handleAddMarking places a marking. The position is either already
// normalized (x, y) or a raw pixel offset with the viewport it was
// captured at. Appear time defaults to the current timeline position
// and duration to the configured marker duration.
func (s *Server) handleAddMarking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Team  core.Team `json:"team"`
		X     float64   `json:"x"`
		Y     float64   `json:"y"`
		Pixel *struct {
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"pixel"`
		Time     *float64 `json:"time"`
		Duration *float64 `json:"duration"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pos := core.Position{X: req.X, Y: req.Y}
	if req.Pixel != nil {
		p, err := geo.Normalize(geo.RawPoint{X: req.Pixel.X, Y: req.Pixel.Y}, req.Pixel.Width, req.Pixel.Height)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		pos = p
	}

	appearTime := s.deps.Timeline.Current()
	if req.Time != nil {
		appearTime = *req.Time
	}
	duration := s.deps.Battle.MarkerDuration
	if req.Duration != nil && *req.Duration > 0 {
		duration = *req.Duration
	}

	id, err := s.deps.Markings.Add(req.Team, pos, appearTime, duration)
	if err != nil {
		if errors.Is(err, markings.ErrUnknownTeam) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to add marking")
		return
	}

	if s.deps.Usage != nil {
		s.deps.Usage.MarkingPlaced(req.Team)
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleRemoveMarking deletes one marking. Removing an unknown id is
// a no-op, matching the store semantics.
func (s *Server) handleRemoveMarking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid marking id")
		return
	}

	s.deps.Markings.Remove(id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleClearMarkings empties the working set.
func (s *Server) handleClearMarkings(w http.ResponseWriter, r *http.Request) {
	s.deps.Markings.Clear()
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
