package markings

import (
	"testing"
	"time"

	"github.com/canyonplan/planner/pkg/core"
)

func TestStore_Add(t *testing.T) {
	s := NewStore()

	id, err := s.Add(core.TeamA, core.Position{X: 0.5, Y: 0.5}, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}
	if s.Len() != 1 {
		t.Errorf("expected length 1, got %d", s.Len())
	}
}

func TestStore_Add_UnknownTeam(t *testing.T) {
	s := NewStore()

	_, err := s.Add(core.Team("Z"), core.Position{}, 0, 10)
	if err != ErrUnknownTeam {
		t.Errorf("expected ErrUnknownTeam, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestStore_IDsNeverCollide(t *testing.T) {
	s := NewStore()
	// Freeze the clock so every call lands in the same millisecond.
	fixed := time.Now()
	s.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id, err := s.Add(core.TeamB, core.Position{}, 0, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	id1, _ := s.Add(core.TeamA, core.Position{}, 0, 10)
	id2, _ := s.Add(core.TeamB, core.Position{}, 0, 10)

	s.Remove(id1)
	if s.Len() != 1 {
		t.Fatalf("expected length 1, got %d", s.Len())
	}
	if s.All()[0].ID != id2 {
		t.Error("removed the wrong marking")
	}

	// Removing an absent id is a no-op.
	s.Remove(999999)
	if s.Len() != 1 {
		t.Errorf("expected length 1 after no-op remove, got %d", s.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Add(core.TeamA, core.Position{}, 0, 10)
	s.Add(core.TeamB, core.Position{}, 0, 10)

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestStore_VisibilityInterval(t *testing.T) {
	s := NewStore()
	s.Add(core.TeamA, core.Position{}, 10, 10)

	tests := []struct {
		time    float64
		visible bool
	}{
		{0, false},
		{9.9, false},
		{10, true}, // inclusive lower bound
		{15, true},
		{19.9, true},
		{20, false}, // exclusive upper bound
		{40, false},
	}
	for _, tc := range tests {
		got := len(s.VisibleAt(tc.time)) == 1
		if got != tc.visible {
			t.Errorf("t=%v: expected visible=%v, got %v", tc.time, tc.visible, got)
		}
	}
}

func TestStore_VisibleAt_PreservesOrder(t *testing.T) {
	s := NewStore()
	id1, _ := s.Add(core.TeamA, core.Position{X: 0.1}, 0, 40)
	s.Add(core.TeamB, core.Position{X: 0.2}, 30, 5)
	id3, _ := s.Add(core.TeamC, core.Position{X: 0.3}, 0, 40)

	vis := s.VisibleAt(5)
	if len(vis) != 2 {
		t.Fatalf("expected 2 visible, got %d", len(vis))
	}
	if vis[0].ID != id1 || vis[1].ID != id3 {
		t.Error("visible markings out of insertion order")
	}
}

func TestStore_Snapshot_IsDeepCopy(t *testing.T) {
	s := NewStore()
	id, _ := s.Add(core.TeamD, core.Position{X: 0.4, Y: 0.6}, 0, 10)

	snap := s.Snapshot()
	s.Remove(id)

	if len(snap) != 1 {
		t.Fatalf("expected snapshot to retain 1 marking, got %d", len(snap))
	}
	if s.Len() != 0 {
		t.Error("expected live store empty after remove")
	}
}

func TestStore_Load(t *testing.T) {
	s := NewStore()
	s.Add(core.TeamA, core.Position{}, 0, 10)

	loaded := []core.Marking{
		{ID: 5_000_000_000_000, Position: core.Position{X: 0.3, Y: 0.9}, Team: core.TeamC, AppearTime: 0, Duration: 10},
	}
	s.Load(loaded)

	if s.Len() != 1 {
		t.Fatalf("expected 1 marking after load, got %d", s.Len())
	}

	// New ids must advance past the loaded ones.
	id, _ := s.Add(core.TeamD, core.Position{}, 0, 10)
	if id <= 5_000_000_000_000 {
		t.Errorf("expected id beyond loaded max, got %d", id)
	}
}

func TestStore_ActiveCount(t *testing.T) {
	s := NewStore()
	s.Add(core.TeamA, core.Position{}, 0, 10)
	s.Add(core.TeamB, core.Position{}, 5, 10)
	s.Add(core.TeamC, core.Position{}, 20, 10)

	if got := s.ActiveCount(7); got != 2 {
		t.Errorf("expected 2 active at t=7, got %d", got)
	}
	if got := s.ActiveCount(25); got != 1 {
		t.Errorf("expected 1 active at t=25, got %d", got)
	}
}
