package objectives

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canyonplan/planner/pkg/core"
)

func keysOf(list []core.Objective) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.Key)
	}
	return out
}

func TestActiveAtThresholds(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		time float64
		want []string
	}{
		{"battle start", 0, []string{"hospital", "refinery"}},
		{"before boss", 4.9, []string{"hospital", "refinery"}},
		{"boss first stage", 5, []string{"hospital", "captain", "refinery"}},
		{"military centers", 10, []string{"militaryCenter", "hospital", "captain", "refinery"}},
		{"energy core", 20, []string{"militaryCenter", "hospital", "captain", "energyCore", "refinery"}},
		{"battle end", 40, []string{"militaryCenter", "hospital", "captain", "energyCore", "refinery"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keysOf(r.ActiveAt(tt.time)))
		})
	}
}

func TestActiveStageLastThresholdWins(t *testing.T) {
	r := NewRegistry()

	_, ok := r.ActiveStage("captain", 4.9)
	assert.False(t, ok)

	s, ok := r.ActiveStage("captain", 5)
	require.True(t, ok)
	assert.Equal(t, "speed", s.Bonus.Type)

	s, ok = r.ActiveStage("captain", 15)
	require.True(t, ok)
	assert.Equal(t, "points", s.Bonus.Type)

	// Stages do not expire: past the last threshold the final stage
	// stays in effect.
	s, ok = r.ActiveStage("captain", 40)
	require.True(t, ok)
	assert.Equal(t, "damage", s.Bonus.Type)
}

func TestActiveStageRejectsNonBoss(t *testing.T) {
	r := NewRegistry()
	_, ok := r.ActiveStage("hospital", 20)
	assert.False(t, ok)
	_, ok = r.ActiveStage("nope", 20)
	assert.False(t, ok)
}

func TestSetPosition(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.SetPosition("hospital", 1, core.Position{X: 0.71, Y: 0.7}))
	o, ok := r.Get("hospital")
	require.True(t, ok)
	assert.Equal(t, core.Position{X: 0.71, Y: 0.7}, o.Positions[1])

	assert.Error(t, r.SetPosition("hospital", 2, core.Position{}))
	assert.Error(t, r.SetPosition("hospital", -1, core.Position{}))
	assert.Error(t, r.SetPosition("unknown", 0, core.Position{}))
}

func TestSetPositionClamps(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.SetPosition("hospital", 0, core.Position{X: 1.3, Y: -0.1}))
	o, ok := r.Get("hospital")
	require.True(t, ok)
	assert.Equal(t, core.Position{X: 1, Y: 0}, o.Positions[0])
}

func TestGetReturnsCopies(t *testing.T) {
	r := NewRegistry()

	o, ok := r.Get("refinery")
	require.True(t, ok)
	o.Positions[0] = core.Position{X: 9, Y: 9}

	again, _ := r.Get("refinery")
	assert.Equal(t, core.Position{X: 0.232, Y: 0.321}, again.Positions[0])
}

func TestExportPositions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.SetPosition("energyCore", 0, core.Position{X: 0.51, Y: 0.61}))

	raw, err := r.ExportPositions()
	require.NoError(t, err)

	var doc map[string][]core.Position
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc, 5)
	assert.Equal(t, []core.Position{{X: 0.51, Y: 0.61}}, doc["energyCore"])
	assert.Len(t, doc["refinery"], 12)
}

func TestPhasesSortedByTime(t *testing.T) {
	phases := Phases()
	require.Len(t, phases, 7)
	for i := 1; i < len(phases); i++ {
		assert.LessOrEqual(t, phases[i-1].Time, phases[i].Time)
	}
	assert.Equal(t, "Preparation", phases[0].Name)
	assert.Equal(t, "Battle end", phases[len(phases)-1].Name)
}

func TestPhaseAt(t *testing.T) {
	p, ok := PhaseAt(0)
	require.True(t, ok)
	assert.Equal(t, "Preparation", p.Name)

	p, ok = PhaseAt(19)
	require.True(t, ok)
	assert.Equal(t, "Free Teleport III", p.Name)

	p, ok = PhaseAt(40)
	require.True(t, ok)
	assert.Equal(t, "Battle end", p.Name)

	_, ok = PhaseAt(-1)
	assert.False(t, ok)
}
