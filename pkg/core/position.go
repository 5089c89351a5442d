package core

// Position is a normalized map coordinate. Both axes are fractions of
// the map edge in [0,1], measured from the top-left corner, so a
// position is meaningful at any rendered resolution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in normalized coordinates.
// X1,Y1 is the top-left corner and X2,Y2 the bottom-right.
type Rect struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// SpawnSide selects which corner the alliance spawns in. It is a
// global toggle for the whole plan, not a per-marking attribute.
type SpawnSide string

const (
	// SpawnBlueDown: alliance spawns bottom-right, enemy top-left.
	SpawnBlueDown SpawnSide = "BLUE_DOWN"
	// SpawnRedUp: alliance spawns top-left, enemy bottom-right.
	SpawnRedUp SpawnSide = "RED_UP"
)

// SpawnAreas are the two corner regions a spawn side expands to.
type SpawnAreas struct {
	Label string
	Ours  Rect
	Enemy Rect
}

var (
	cornerTopLeft     = Rect{X1: 0, Y1: 0, X2: 0.216, Y2: 0.216}
	cornerBottomRight = Rect{X1: 0.784, Y1: 0.784, X2: 1, Y2: 1}
)

// Areas expands the spawn side into its two normalized corner regions.
func (s SpawnSide) Areas() (SpawnAreas, bool) {
	switch s {
	case SpawnBlueDown:
		return SpawnAreas{Label: "Blue Spawn (Bottom-Right)", Ours: cornerBottomRight, Enemy: cornerTopLeft}, true
	case SpawnRedUp:
		return SpawnAreas{Label: "Red Spawn (Top-Left)", Ours: cornerTopLeft, Enemy: cornerBottomRight}, true
	}
	return SpawnAreas{}, false
}

// Valid reports whether s is one of the two known spawn sides.
func (s SpawnSide) Valid() bool {
	return s == SpawnBlueDown || s == SpawnRedUp
}

// Suggestion returns the deployment hint shown when a team is selected
// under this spawn configuration. Empty for teams without one.
func (s SpawnSide) Suggestion(t Team) string {
	areas, ok := s.Areas()
	if !ok {
		return ""
	}
	switch t {
	case TeamA:
		return "Deploy at the enemy spawn corner of " + areas.Label
	case TeamB:
		return "Deploy near our spawn corner of " + areas.Label
	}
	return ""
}
