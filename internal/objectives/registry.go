// Package objectives holds the canyon map's fixed points of interest:
// capturable buildings, the timed energy core, and the staged raid
// boss, plus the battle phase timeline shown alongside the clock.
package objectives

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/canyonplan/planner/internal/geo"
	"github.com/canyonplan/planner/pkg/core"
)

// ErrUnknownObjective is returned for lookups outside the catalogue.
var ErrUnknownObjective = errors.New("unknown objective")

// Registry is the catalogue of map objectives. Positions are mutable
// through the calibration operations; everything else is fixed data.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*core.Objective
	order []string
}

// NewRegistry builds a registry populated with the canyon's known
// objectives.
func NewRegistry() *Registry {
	r := &Registry{items: make(map[string]*core.Objective)}
	for i := range defaultObjectives {
		o := defaultObjectives[i]
		r.items[o.Key] = &o
		r.order = append(r.order, o.Key)
	}
	return r
}

// All returns the objectives in their canonical order.
func (r *Registry) All() []core.Objective {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Objective, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneObjective(r.items[key]))
	}
	return out
}

// Get looks up a single objective by key.
func (r *Registry) Get(key string) (core.Objective, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[key]
	if !ok {
		return core.Objective{}, false
	}
	return cloneObjective(o), true
}

// ActiveAt returns the objectives present on the map at minute t.
// Capturable and timed objectives appear once their appear time is
// reached; the staged boss appears with its first stage.
func (r *Registry) ActiveAt(t float64) []core.Objective {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.Objective
	for _, key := range r.order {
		o := r.items[key]
		switch o.Kind {
		case core.KindStagedBoss:
			if _, ok := activeStage(o.Stages, t); ok {
				out = append(out, cloneObjective(o))
			}
		default:
			if t >= o.AppearTime {
				out = append(out, cloneObjective(o))
			}
		}
	}
	return out
}

// ActiveStage resolves the boss stage in effect at minute t: the
// stage with the highest threshold not exceeding t. Returns false
// before the first stage.
func (r *Registry) ActiveStage(key string, t float64) (core.Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[key]
	if !ok || o.Kind != core.KindStagedBoss {
		return core.Stage{}, false
	}
	return activeStage(o.Stages, t)
}

func activeStage(stages []core.Stage, t float64) (core.Stage, bool) {
	var cur core.Stage
	found := false
	for _, s := range stages {
		if t >= s.Time {
			cur = s
			found = true
		}
	}
	return cur, found
}

// SetPosition moves one placement of an objective. Used by the
// calibration surface to correct positions against a new map image.
func (r *Registry) SetPosition(key string, index int, pos core.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownObjective, key)
	}
	if index < 0 || index >= len(o.Positions) {
		return fmt.Errorf("objectives: %s has no position %d", key, index)
	}
	o.Positions[index] = core.Position{X: geo.Clamp01(pos.X), Y: geo.Clamp01(pos.Y)}
	return nil
}

// ExportPositions renders the current positions as an indented JSON
// document, keyed by objective, for pasting back into the source
// data after a calibration session.
func (r *Registry) ExportPositions() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := make(map[string][]core.Position, len(r.items))
	for key, o := range r.items {
		doc[key] = append([]core.Position(nil), o.Positions...)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Phases returns the battle phase markers ordered by time.
func Phases() []core.Phase {
	out := append([]core.Phase(nil), battlePhases...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// PhaseAt returns the latest phase that has begun by minute t.
func PhaseAt(t float64) (core.Phase, bool) {
	var cur core.Phase
	found := false
	for _, p := range Phases() {
		if t >= p.Time {
			cur = p
			found = true
		}
	}
	return cur, found
}

func cloneObjective(o *core.Objective) core.Objective {
	out := *o
	out.Positions = append([]core.Position(nil), o.Positions...)
	out.Bonuses = append([]core.Bonus(nil), o.Bonuses...)
	out.Stages = append([]core.Stage(nil), o.Stages...)
	return out
}
