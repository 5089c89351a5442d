package core

import "time"

// Plan is a named, persisted snapshot of markings plus planner
// configuration. Markings are a deep copy taken at save time, never a
// live reference into the planner's working set.
type Plan struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	TeamTimings    TeamTimings `json:"teamTimings"`
	TeamSpawn      SpawnSide   `json:"teamSpawn"`
	Markings       []Marking   `json:"markings"`
	CurrentTime    float64     `json:"currentTime"`
	MarkerDuration float64     `json:"markerDuration"`
	CreatedAt      time.Time   `json:"createdAt"`

	// ShareCode is an opaque handle for handing a plan to another
	// device without exposing the numeric id.
	ShareCode string `json:"shareCode,omitempty"`

	// MergedFromPlans records source plan ids when this plan was
	// produced by a merge, for traceability.
	MergedFromPlans []int64 `json:"mergedFromPlans,omitempty"`
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	out := p
	out.TeamTimings = p.TeamTimings.Clone()
	out.Markings = append([]Marking(nil), p.Markings...)
	out.MergedFromPlans = append([]int64(nil), p.MergedFromPlans...)
	return out
}

// ClonePlans deep-copies a plan collection.
func ClonePlans(plans []Plan) []Plan {
	out := make([]Plan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out
}
