package plans

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/canyonplan/planner/pkg/core"
)

// LegacyViewport is the map viewport size assumed when converting
// raw-pixel markings from old plan exports into normalized
// coordinates. Old exports carried pixel offsets against whatever
// size the map happened to render at; 1024 matches the square map
// image those builds shipped.
const LegacyViewport = 1024.0

// wireMarking tolerates the legacy marking shape: raw pixel
// coordinates and a missing duration.
type wireMarking struct {
	ID       int64    `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Team     string   `json:"team"`
	Time     float64  `json:"time"`
	Duration *float64 `json:"duration"`
}

type wirePlan struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	TeamTimings     map[string]float64 `json:"teamTimings"`
	TeamSpawn       string             `json:"teamSpawn"`
	Markings        []wireMarking      `json:"markings"`
	CurrentTime     float64            `json:"currentTime"`
	MarkerDuration  float64            `json:"markerDuration"`
	CreatedAt       time.Time          `json:"createdAt"`
	ShareCode       string             `json:"shareCode"`
	MergedFromPlans []int64            `json:"mergedFromPlans"`
}

// DecodePlans parses an import document: either a single plan object
// or an array of them. Anything else, including malformed JSON or a
// plan that fails validation, rejects the entire import with
// ErrMalformedImport.
func DecodePlans(raw []byte, maxTime float64) ([]core.Plan, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedImport)
	}

	var docs []wirePlan
	switch trimmed[0] {
	case '{':
		var one wirePlan
		if err := decodeStrict(trimmed, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		docs = []wirePlan{one}
	case '[':
		if err := decodeStrict(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformedImport)
	}

	out := make([]core.Plan, 0, len(docs))
	for i, doc := range docs {
		p, err := doc.toPlan(maxTime)
		if err != nil {
			return nil, fmt.Errorf("%w: plan %d: %v", ErrMalformedImport, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// EncodePlans serializes the collection into the interchange format.
func EncodePlans(plans []core.Plan) ([]byte, error) {
	if plans == nil {
		plans = []core.Plan{}
	}
	return json.MarshalIndent(plans, "", "  ")
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return err
	}
	// A valid document is a single JSON value.
	if dec.More() {
		return fmt.Errorf("trailing data after document")
	}
	return nil
}

func (w wirePlan) toPlan(maxTime float64) (core.Plan, error) {
	if strings.TrimSpace(w.Name) == "" {
		return core.Plan{}, fmt.Errorf("plan name required")
	}

	spawn := core.SpawnSide(w.TeamSpawn)
	if w.TeamSpawn == "" {
		spawn = core.SpawnBlueDown
	} else if !spawn.Valid() {
		return core.Plan{}, fmt.Errorf("unknown spawn side %q", w.TeamSpawn)
	}

	timings := make(core.TeamTimings, len(w.TeamTimings))
	for k, v := range w.TeamTimings {
		team := core.Team(k)
		if !team.Valid() {
			return core.Plan{}, fmt.Errorf("unknown team %q in timings", k)
		}
		timings[team] = v
	}

	markings := make([]core.Marking, 0, len(w.Markings))
	for i, m := range w.Markings {
		team := core.Team(m.Team)
		if !team.Valid() {
			return core.Plan{}, fmt.Errorf("marking %d: unknown team %q", i, m.Team)
		}

		x, y := m.X, m.Y
		// Legacy exports stored raw pixel offsets; anything outside
		// the unit square is treated as pixels and rescaled.
		if x > 1 || y > 1 {
			x /= LegacyViewport
			y /= LegacyViewport
		}

		duration := maxTime - m.Time
		if m.Duration != nil && *m.Duration > 0 {
			duration = *m.Duration
		}

		markings = append(markings, core.Marking{
			ID:         m.ID,
			Position:   core.Position{X: x, Y: y},
			Team:       team,
			AppearTime: m.Time,
			Duration:   duration,
		})
	}

	return core.Plan{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		TeamTimings:     timings,
		TeamSpawn:       spawn,
		Markings:        markings,
		CurrentTime:     w.CurrentTime,
		MarkerDuration:  w.MarkerDuration,
		CreatedAt:       w.CreatedAt,
		ShareCode:       w.ShareCode,
		MergedFromPlans: w.MergedFromPlans,
	}, nil
}
