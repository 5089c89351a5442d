package plans

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canyonplan/planner/internal/storage/memory"
	"github.com/canyonplan/planner/pkg/core"
)

func newService(t *testing.T) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s := NewService(memory.New(), log, 40)
	s.now = func() time.Time { return time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC) }
	s.newShareCode = func() string { return "test-share-code" }
	return s
}

func draft(name string) Draft {
	return Draft{
		Name:        name,
		Description: "test",
		TeamTimings: core.TeamTimings{core.TeamA: 0, core.TeamB: 0, core.TeamC: 4, core.TeamD: 4},
		TeamSpawn:   core.SpawnBlueDown,
		Markings: []core.Marking{
			{ID: 100, Position: core.Position{X: 0.5, Y: 0.5}, Team: core.TeamA, AppearTime: 0, Duration: 10},
		},
		MarkerDuration: 10,
	}
}

func TestSaveAssignsIdentity(t *testing.T) {
	s := newService(t)

	p, err := s.Save(draft("alpha"))
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "test-share-code", p.ShareCode)
	assert.False(t, p.CreatedAt.IsZero())

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, p, list[0])
}

func TestSaveBlankNameFails(t *testing.T) {
	s := newService(t)

	for _, name := range []string{"", "   ", "\t"} {
		_, err := s.Save(draft(name))
		require.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, s.List())
}

func TestSaveIdsNeverCollide(t *testing.T) {
	s := newService(t)

	// The frozen clock forces both saves into the same millisecond.
	p1, err := s.Save(draft("first"))
	require.NoError(t, err)
	p2, err := s.Save(draft("second"))
	require.NoError(t, err)
	assert.Greater(t, p2.ID, p1.ID)
}

func TestUpdateReplacesRecord(t *testing.T) {
	s := newService(t)
	saved, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	d := draft("alpha v2")
	d.CurrentTime = 25
	updated, ok, err := s.Update(saved.ID, d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "alpha v2", updated.Name)
	assert.Equal(t, 25.0, updated.CurrentTime)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, saved.ShareCode, updated.ShareCode)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "alpha v2", list[0].Name)
}

func TestUpdateMissingIdIsSilentNoOp(t *testing.T) {
	s := newService(t)
	_, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	_, ok, err := s.Update(999, draft("ghost"))
	require.NoError(t, err)
	assert.False(t, ok)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "alpha", list[0].Name)
}

func TestDelete(t *testing.T) {
	s := newService(t)
	p, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	assert.True(t, s.Delete(p.ID))
	assert.Empty(t, s.List())
	assert.False(t, s.Delete(p.ID))
}

func TestMergeAveragesTimings(t *testing.T) {
	s := newService(t)

	d1 := draft("one")
	d1.TeamTimings = core.TeamTimings{core.TeamA: 0, core.TeamB: 1, core.TeamC: 2, core.TeamD: 3}
	p1, err := s.Save(d1)
	require.NoError(t, err)

	d2 := draft("two")
	d2.TeamTimings = core.TeamTimings{core.TeamA: 4, core.TeamB: 2, core.TeamC: 3, core.TeamD: 0}
	p2, err := s.Save(d2)
	require.NoError(t, err)

	merged, err := s.Merge([]int64{p1.ID, p2.ID}, "combined")
	require.NoError(t, err)

	assert.Equal(t, 2.0, merged.TeamTimings[core.TeamA])
	assert.Equal(t, 2.0, merged.TeamTimings[core.TeamB], "1.5 rounds up")
	assert.Equal(t, 3.0, merged.TeamTimings[core.TeamC], "2.5 rounds up")
	assert.Equal(t, 2.0, merged.TeamTimings[core.TeamD], "1.5 rounds up")
}

func TestMergeMissingTimingsCountAsZero(t *testing.T) {
	s := newService(t)

	d1 := draft("one")
	d1.TeamTimings = core.TeamTimings{core.TeamA: 6}
	p1, err := s.Save(d1)
	require.NoError(t, err)

	d2 := draft("two")
	d2.TeamTimings = core.TeamTimings{core.TeamB: 4}
	p2, err := s.Save(d2)
	require.NoError(t, err)

	merged, err := s.Merge([]int64{p1.ID, p2.ID}, "combined")
	require.NoError(t, err)
	assert.Equal(t, 3.0, merged.TeamTimings[core.TeamA])
	assert.Equal(t, 2.0, merged.TeamTimings[core.TeamB])
	assert.Equal(t, 0.0, merged.TeamTimings[core.TeamC])
}

func TestMergeConcatenatesMarkings(t *testing.T) {
	s := newService(t)

	d1 := draft("one")
	d1.Markings = []core.Marking{
		{ID: 1, Position: core.Position{X: 0.1, Y: 0.1}, Team: core.TeamA, AppearTime: 0, Duration: 10},
		{ID: 2, Position: core.Position{X: 0.2, Y: 0.2}, Team: core.TeamB, AppearTime: 5, Duration: 10},
	}
	p1, err := s.Save(d1)
	require.NoError(t, err)

	d2 := draft("two")
	d2.TeamSpawn = core.SpawnRedUp
	d2.Markings = []core.Marking{
		{ID: 2, Position: core.Position{X: 0.3, Y: 0.3}, Team: core.TeamC, AppearTime: 10, Duration: 10},
	}
	p2, err := s.Save(d2)
	require.NoError(t, err)

	merged, err := s.Merge([]int64{p1.ID, p2.ID}, "combined")
	require.NoError(t, err)

	// Concatenation, not deduplication: the colliding id 2 appears
	// twice.
	require.Len(t, merged.Markings, 3)
	assert.Equal(t, int64(1), merged.Markings[0].ID)
	assert.Equal(t, int64(2), merged.Markings[1].ID)
	assert.Equal(t, int64(2), merged.Markings[2].ID)

	// Spawn side comes from the first source.
	assert.Equal(t, core.SpawnBlueDown, merged.TeamSpawn)
	assert.Equal(t, []int64{p1.ID, p2.ID}, merged.MergedFromPlans)
	assert.Contains(t, merged.Description, "one")
	assert.Contains(t, merged.Description, "two")

	// Sources survive; the merged plan is appended.
	assert.Len(t, s.List(), 3)
}

func TestMergeValidation(t *testing.T) {
	s := newService(t)
	p1, err := s.Save(draft("one"))
	require.NoError(t, err)
	p2, err := s.Save(draft("two"))
	require.NoError(t, err)

	_, err = s.Merge([]int64{p1.ID}, "combined")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Merge([]int64{p1.ID, p2.ID}, "  ")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Merge([]int64{p1.ID, 999}, "combined")
	require.ErrorIs(t, err, ErrValidation)

	// Failed merges leave the collection untouched.
	assert.Len(t, s.List(), 2)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newService(t)
	_, err := s.Save(draft("alpha"))
	require.NoError(t, err)
	_, err = s.Save(draft("bravo"))
	require.NoError(t, err)
	want := s.List()

	raw, err := s.ExportAll()
	require.NoError(t, err)

	fresh := newService(t)
	imported, err := fresh.ImportMany(raw)
	require.NoError(t, err)
	assert.Equal(t, want, imported)
	assert.Equal(t, want, fresh.List())
}

func TestImportSingleObject(t *testing.T) {
	s := newService(t)

	imported, err := s.ImportMany([]byte(`{
		"id": 42,
		"name": "solo",
		"teamSpawn": "RED_UP",
		"markings": [{"id": 1, "x": 0.5, "y": 0.5, "team": "A", "time": 0, "duration": 10}]
	}`))
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, int64(42), imported[0].ID)
	assert.Equal(t, core.SpawnRedUp, imported[0].TeamSpawn)
}

func TestImportAppendsWithoutDeduplication(t *testing.T) {
	s := newService(t)
	p, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	raw, err := s.ExportAll()
	require.NoError(t, err)

	// Re-importing the export duplicates the plan, same id and all.
	_, err = s.ImportMany(raw)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID)
	assert.Equal(t, p.ID, list[1].ID)
}

func TestImportMalformedRejectsWhole(t *testing.T) {
	s := newService(t)
	_, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	cases := map[string]string{
		"bad json":       `{not json`,
		"scalar":         `42`,
		"string":         `"plan"`,
		"blank name":     `[{"name": "ok"}, {"name": ""}]`,
		"unknown team":   `{"name": "x", "markings": [{"id": 1, "x": 0, "y": 0, "team": "Z", "time": 0}]}`,
		"unknown spawn":  `{"name": "x", "teamSpawn": "SIDEWAYS"}`,
		"trailing data":  `{"name": "x"} {"name": "y"}`,
		"empty document": ``,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.ImportMany([]byte(raw))
			require.ErrorIs(t, err, ErrMalformedImport)
		})
	}

	// Nothing was applied.
	assert.Len(t, s.List(), 1)
}

func TestImportLegacyPixelCoordinates(t *testing.T) {
	s := newService(t)

	imported, err := s.ImportMany([]byte(`{
		"name": "legacy",
		"markings": [{"id": 1, "x": 512, "y": 256, "team": "B", "time": 5}]
	}`))
	require.NoError(t, err)
	require.Len(t, imported, 1)

	m := imported[0].Markings[0]
	assert.Equal(t, 0.5, m.X)
	assert.Equal(t, 0.25, m.Y)
	// Missing duration: visible for the remainder of the battle.
	assert.Equal(t, 35.0, m.Duration)
}

func TestEnsureDefault(t *testing.T) {
	s := newService(t)

	s.EnsureDefault()
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Canyon-Clash-Plan-2025-12-26", list[0].Name)
	assert.Len(t, list[0].Markings, 43)

	// Idempotent, and never overwrites a non-empty collection.
	s.EnsureDefault()
	assert.Len(t, s.List(), 1)
}

func TestDefaultPlanNormalized(t *testing.T) {
	p := DefaultPlan()
	for _, m := range p.Markings {
		assert.GreaterOrEqual(t, m.X, 0.0)
		assert.LessOrEqual(t, m.X, 1.0)
		assert.GreaterOrEqual(t, m.Y, 0.0)
		assert.LessOrEqual(t, m.Y, 1.0)
		assert.True(t, m.Team.Valid())
	}
	assert.Equal(t, 3.0, p.TeamTimings[core.TeamC])
}

func TestStagedPlanHandoff(t *testing.T) {
	s := newService(t)
	p, err := s.Save(draft("alpha"))
	require.NoError(t, err)

	require.NoError(t, s.StagePlan(p))
	got, err := s.TakeStagedPlan()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	got, err = s.TakeStagedPlan()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLanguagePassthrough(t *testing.T) {
	s := newService(t)
	assert.Equal(t, "", s.Language())
	require.NoError(t, s.SetLanguage("es"))
	assert.Equal(t, "es", s.Language())
}
