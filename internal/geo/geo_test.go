package geo

import (
	"math"
	"testing"

	"github.com/canyonplan/planner/pkg/core"
)

func TestRawFromPointer(t *testing.T) {
	b := Bounds{Left: 100, Top: 50, Width: 800, Height: 600}
	p := RawFromPointer(350, 250, b)
	if p.X != 250 || p.Y != 200 {
		t.Errorf("expected (250,200), got (%v,%v)", p.X, p.Y)
	}

	// No clamping: stale bounds can yield off-map points.
	p = RawFromPointer(50, 20, b)
	if p.X != -50 || p.Y != -30 {
		t.Errorf("expected (-50,-30), got (%v,%v)", p.X, p.Y)
	}
}

func TestNormalize(t *testing.T) {
	pos, err := Normalize(RawPoint{X: 400, Y: 300}, 800, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 0.5 || pos.Y != 0.5 {
		t.Errorf("expected (0.5,0.5), got (%v,%v)", pos.X, pos.Y)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	pos, err := Normalize(RawPoint{X: -10, Y: 700}, 800, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 0 {
		t.Errorf("expected X clamped to 0, got %v", pos.X)
	}
	if pos.Y != 1 {
		t.Errorf("expected Y clamped to 1, got %v", pos.Y)
	}
}

func TestNormalize_InvalidViewport(t *testing.T) {
	if _, err := Normalize(RawPoint{X: 1, Y: 1}, 0, 600); err != ErrInvalidCoordinates {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestContains(t *testing.T) {
	blueOurs := core.Rect{X1: 0.784, Y1: 0.784, X2: 1, Y2: 1}
	blueEnemy := core.Rect{X1: 0, Y1: 0, X2: 0.216, Y2: 0.216}

	pt := core.Position{X: 0.9, Y: 0.9}
	if !Contains(blueOurs, pt) {
		t.Error("expected (0.9,0.9) inside bottom-right spawn")
	}
	if Contains(blueEnemy, pt) {
		t.Error("expected (0.9,0.9) outside top-left spawn")
	}

	// Borders are inclusive.
	if !Contains(blueOurs, core.Position{X: 0.784, Y: 1}) {
		t.Error("expected border point inside")
	}

	// Non-finite coordinates are rejected by envelope validation.
	if Contains(blueOurs, core.Position{X: math.NaN(), Y: 0.9}) {
		t.Error("expected NaN point outside")
	}
}

func TestInSpawnArea(t *testing.T) {
	areas, ok := core.SpawnBlueDown.Areas()
	if !ok {
		t.Fatal("expected spawn areas for BLUE_DOWN")
	}
	// 900/1000 = 0.9: inside our bottom-right corner.
	if !InSpawnArea(RawPoint{X: 900, Y: 900}, 1000, 1000, areas.Ours) {
		t.Error("expected pixel point inside our spawn")
	}
	if InSpawnArea(RawPoint{X: 900, Y: 900}, 1000, 1000, areas.Enemy) {
		t.Error("expected pixel point outside enemy spawn")
	}
}

func TestPositionFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Position
		wantErr bool
	}{
		{"0.5,0.6", core.Position{X: 0.5, Y: 0.6}, false},
		{" 0.138 , 0.693 ", core.Position{X: 0.138, Y: 0.693}, false},
		{"1.7,-0.2", core.Position{X: 1, Y: 0}, false}, // clamped
		{"0.5", core.Position{}, true},
		{"a,b", core.Position{}, true},
		{"", core.Position{}, true},
	}
	for _, tc := range tests {
		got, err := PositionFromString(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %+v, got %+v", tc.in, got, tc.want)
		}
	}
}

func TestPoint(t *testing.T) {
	pt, err := Point(core.Position{X: 0.25, Y: 0.75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	xy, ok := pt.XY()
	if !ok {
		t.Fatal("expected non-empty point")
	}
	if xy.X != 0.25 || xy.Y != 0.75 {
		t.Errorf("expected (0.25,0.75), got (%v,%v)", xy.X, xy.Y)
	}
}

func TestPoint_RejectsNonFinite(t *testing.T) {
	if _, err := Point(core.Position{X: math.Inf(1), Y: 0}); err == nil {
		t.Error("expected error for non-finite coordinate")
	}
}
