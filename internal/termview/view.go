// Package termview draws efield frames on a terminal with tcell and runs
// the interactive charge editor.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/efield"
)

// CellAspect is the height/width ratio of a terminal cell.
const CellAspect = 2.0

// Canvas is the part of tcell.Screen the view draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var glyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// Glyph returns the arrow closest to angle, in radians counter-clockwise
// from +x.
func Glyph(angle float64) rune {
	o := int(math.Round(angle/(math.Pi/4))) % 8
	if o < 0 {
		o += 8
	}
	return glyphs[o]
}

// Style returns a true-colour foreground style.
func Style(c efield.RGB) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// Fit widens bounds along one axis so that a w×h cell area shows both axes
// at the same scale. Unlocked bounds are returned unchanged.
func Fit(bounds efield.GraphBounds, w, h int, locked bool) efield.GraphBounds {
	if !locked || w <= 0 || h <= 0 {
		return bounds
	}
	screen := float64(w) / (float64(h) * CellAspect)
	c := bounds.Center()
	bw, bh := bounds.Width(), bounds.Height()
	if bw/bh < screen {
		bw = bh * screen
	} else {
		bh = bw / screen
	}
	return efield.GraphBounds{
		TopLeft:     efield.Pt(c.X-bw/2, c.Y+bh/2),
		BottomRight: efield.Pt(c.X+bw/2, c.Y-bh/2),
	}
}

// Aspect returns the width/height ratio of a w×h cell area in square units.
func Aspect(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(w) / (float64(h) * CellAspect)
}

// grid maps scene coordinates onto a w×h block of cells.
type grid struct {
	bounds efield.GraphBounds
	w, h   int
}

func (g grid) cell(p efield.Point) (x, y int, ok bool) {
	fx := (p.X - g.bounds.TopLeft.X) / g.bounds.Width() * float64(g.w)
	fy := (g.bounds.TopLeft.Y - p.Y) / g.bounds.Height() * float64(g.h)
	if !(fx >= 0 && fx <= float64(g.w)) || !(fy >= 0 && fy <= float64(g.h)) {
		return 0, 0, false
	}
	return min(int(fx), g.w-1), min(int(fy), g.h-1), true
}

func (g grid) center(x, y int) efield.Point {
	return efield.Pt(
		g.bounds.TopLeft.X+(float64(x)+0.5)/float64(g.w)*g.bounds.Width(),
		g.bounds.TopLeft.Y-(float64(y)+0.5)/float64(g.h)*g.bounds.Height(),
	)
}

// halfCell is half the larger cell side in scene units.
func (g grid) halfCell() float64 {
	return max(g.bounds.Width()/float64(g.w), g.bounds.Height()/float64(g.h)) / 2
}

// covers reports whether the cell centred at q belongs to s.
func (g grid) covers(s efield.Shape, q efield.Point) bool {
	switch s.Kind {
	case efield.ShapeDisc:
		return q.Distance(s.Center) <= s.Radius
	case efield.ShapeAnnulus:
		return math.Abs(q.Distance(s.Center)-s.Radius) <= s.Width/2
	case efield.ShapeLine:
		d := q.Sub(s.Center)
		return math.Abs(d.X*math.Sin(s.Angle)-d.Y*math.Cos(s.Angle)) <= g.halfCell()
	default:
		return false
	}
}

func marker(s efield.Shape) (rune, tcell.Style) {
	style := Style(s.Color)
	if s.Alpha != efield.Opaque {
		style = style.Dim(true)
	}
	if s.Color == efield.Red {
		return '+', style.Bold(true)
	}
	return '-', style.Bold(true)
}

// Draw paints f on the canvas, leaving the last row for status.
func Draw(c Canvas, f *efield.Frame, status string) {
	w, h := c.Size()
	for y := range h {
		for x := range w {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	if h == 0 {
		return
	}
	drawStatus(c, w, h-1, status)
	if f == nil || h < 2 || !f.Bounds.Valid() {
		return
	}

	g := grid{bounds: f.Bounds, w: w, h: h - 1}
	for _, a := range f.Arrows {
		if x, y, ok := g.cell(a.Pos); ok {
			c.SetContent(x, y, Glyph(a.Angle), nil, Style(a.Color))
		}
	}

	// Charges are drawn over arrows.
	for _, s := range f.Shapes {
		r, style := marker(s)
		for y := range g.h {
			for x := range g.w {
				if g.covers(s, g.center(x, y)) {
					c.SetContent(x, y, r, nil, style)
				}
			}
		}
		if s.Kind == efield.ShapeDisc {
			if x, y, ok := g.cell(s.Center); ok {
				c.SetContent(x, y, r, nil, style)
			}
		}
	}
}

func drawStatus(c Canvas, w, y int, status string) {
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= w {
			break
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		c.SetContent(x, y, ' ', nil, style)
	}
}
