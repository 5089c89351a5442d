// Package geo translates pointer events over the map viewport into
// positions the marking store can use, and provides the normalized
// [0,1] coordinate space shared by objectives and spawn overlays.
package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/canyonplan/planner/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidCoordinates is returned when a coordinate string or
// viewport size cannot be interpreted.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// RawPoint is a pixel offset relative to the top-left of the map
// viewport. It only means anything at the viewport size it was
// captured at; Normalize converts it into the resolution-independent
// space everything else uses.
type RawPoint struct {
	X float64
	Y float64
}

// Bounds is the rendered map container's screen rectangle.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// RawFromPointer converts a pointer event's client coordinates into a
// viewport-relative pixel offset. Values are intentionally not
// clamped: the click handler is bound to an element of exactly this
// size, so out-of-range values only occur with stale bounds (no
// resize observation), a known limitation rather than a bug here.
func RawFromPointer(clientX, clientY float64, b Bounds) RawPoint {
	return RawPoint{X: clientX - b.Left, Y: clientY - b.Top}
}

// Normalize maps a raw pixel offset into [0,1] x [0,1], clamped.
func Normalize(p RawPoint, width, height float64) (core.Position, error) {
	if width <= 0 || height <= 0 {
		return core.Position{}, ErrInvalidCoordinates
	}
	return core.Position{
		X: Clamp01(p.X / width),
		Y: Clamp01(p.Y / height),
	}, nil
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Contains reports whether the normalized point lies inside the
// axis-aligned rectangle, borders included. Non-finite coordinates
// are never contained.
func Contains(r core.Rect, p core.Position) bool {
	env, err := geom.NewEnvelope([]geom.XY{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y2},
	})
	if err != nil {
		return false
	}
	return env.Contains(toXY(p))
}

// InSpawnArea reports whether a raw pixel point falls inside a spawn
// region, given the viewport size the point was captured at.
func InSpawnArea(p RawPoint, width, height float64, area core.Rect) bool {
	pos, err := Normalize(p, width, height)
	if err != nil {
		return false
	}
	return Contains(area, pos)
}

// PositionFromString parses an "x,y" normalized coordinate pair, as
// produced by the calibration tool's configuration snippets.
func PositionFromString(coords string) (core.Position, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return core.Position{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Position{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Position{}, ErrInvalidCoordinates
	}
	return core.Position{X: Clamp01(x), Y: Clamp01(y)}, nil
}

// Point builds a simplefeatures point from a normalized position, for
// callers that hand map geometry to external tooling. Construction
// fails only on non-finite coordinates.
func Point(p core.Position) (geom.Point, error) {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Type: geom.DimXY,
	})
}

func toXY(p core.Position) geom.XY {
	return geom.XY{X: p.X, Y: p.Y}
}
