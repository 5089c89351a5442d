// Package render rasterizes a plan snapshot: the map background,
// spawn areas, objectives, and the markings active at one battle
// instant, with a title and per-team legend.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/canyonplan/planner/pkg/core"
)

// Snapshot describes one export request.
type Snapshot struct {
	Width  int
	Height int
	Title  string

	// At is the battle minute the export captures; only markings
	// active at this instant are drawn.
	At float64

	Markings   []core.Marking
	Objectives []core.Objective
	SpawnSide  core.SpawnSide
}

var (
	backgroundColor = color.RGBA{R: 0x1a, G: 0x24, B: 0x2e, A: 0xff}
	spawnOursColor  = color.RGBA{R: 0x2e, G: 0x5a, B: 0x8a, A: 0xff}
	spawnEnemyColor = color.RGBA{R: 0x8a, G: 0x2e, B: 0x2e, A: 0xff}
	objectiveColor  = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	textColor       = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}

	markerRadius = 8
)

// Image renders the snapshot into an RGBA image.
func Image(s Snapshot) (*image.RGBA, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("render: invalid dimensions %dx%d", s.Width, s.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if areas, ok := s.SpawnSide.Areas(); ok {
		fillRect(img, areas.Ours, s.Width, s.Height, spawnOursColor)
		fillRect(img, areas.Enemy, s.Width, s.Height, spawnEnemyColor)
	}

	for _, o := range s.Objectives {
		for _, pos := range o.Positions {
			drawSquare(img, pos, s.Width, s.Height, 5, objectiveColor)
		}
	}

	// Only the markings active at the capture instant appear, the
	// same filter the timeline applies on screen.
	for _, m := range s.Markings {
		if !m.VisibleAt(s.At) {
			continue
		}
		info, ok := m.Team.Info()
		if !ok {
			continue
		}
		fillCircle(img, m.Position, s.Width, s.Height, markerRadius, parseHexColor(info.Color))
	}

	if s.Title != "" {
		drawLabel(img, 10, 16, s.Title)
	}
	drawLegend(img, s.Height)

	return img, nil
}

// PNG renders the snapshot and encodes it as PNG.
func PNG(w io.Writer, s Snapshot) error {
	img, err := Image(s)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawLegend(img *image.RGBA, height int) {
	x := 10
	y := height - 10
	for _, team := range core.Teams() {
		info, _ := team.Info()
		col := parseHexColor(info.Color)
		for dy := -8; dy < 0; dy++ {
			for dx := 0; dx < 8; dx++ {
				img.Set(x+dx, y+dy, col)
			}
		}
		drawLabel(img, x+12, y, info.Label)
		x += 12 + 7*len(info.Label) + 16
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillRect(img *image.RGBA, r core.Rect, w, h int, col color.RGBA) {
	x1, y1 := int(r.X1*float64(w)), int(r.Y1*float64(h))
	x2, y2 := int(r.X2*float64(w)), int(r.Y2*float64(h))
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.Set(x, y, col)
		}
	}
}

func drawSquare(img *image.RGBA, pos core.Position, w, h, half int, col color.RGBA) {
	cx, cy := int(pos.X*float64(w)), int(pos.Y*float64(h))
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			img.Set(x, y, col)
		}
	}
}

func fillCircle(img *image.RGBA, pos core.Position, w, h, radius int, col color.RGBA) {
	cx, cy := int(pos.X*float64(w)), int(pos.Y*float64(h))
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, col)
			}
		}
	}
}

// parseHexColor reads "#RRGGBB"; unknown input falls back to white.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
