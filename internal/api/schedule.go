package api

import (
	"net/http"
	"strconv"

	"github.com/canyonplan/planner/internal/worldclock"
)

// handleScheduleTable returns every event time converted into every
// supported timezone.
func (s *Server) handleScheduleTable(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Clock.ScheduleTable())
}

// handleScheduleEvents returns the weekly event list in server time.
func (s *Server) handleScheduleEvents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, worldclock.Events())
}

// handleScheduleTimezones returns the supported timezone selectors.
func (s *Server) handleScheduleTimezones(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, worldclock.Timezones())
}

// handleServerTime returns the current clock in server time and,
// with ?tz=, in one player timezone.
func (s *Server) handleServerTime(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"serverTime": s.deps.Clock.CurrentServerTime(),
		"serverZone": worldclock.ServerZone,
	}
	if tz := r.URL.Query().Get("tz"); tz != "" {
		resp["localTime"] = s.deps.Clock.CurrentTimeIn(tz)
		resp["localZone"] = tz
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleConvert converts one event time between two zones. Conversion
// never fails as an HTTP matter; unrepresentable inputs come back as
// the sentinel value.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serverTime := q.Get("time")
	fromTz := q.Get("from")
	toTz := q.Get("to")
	if serverTime == "" || fromTz == "" || toTz == "" {
		respondError(w, http.StatusBadRequest, "time, from, and to are required")
		return
	}

	eventDay := worldclock.NoEventDay
	if raw := q.Get("day"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 || d > 6 {
			respondError(w, http.StatusBadRequest, "day must be a weekday number 0-6")
			return
		}
		eventDay = d
	}

	result := s.deps.Clock.Convert(serverTime, fromTz, toTz, eventDay)
	if result == worldclock.Unavailable && s.deps.Usage != nil {
		s.deps.Usage.ConversionFailure(toTz)
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": result})
}
