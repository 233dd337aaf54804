package render

import (
	"image"
	"math"

	"github.com/gogpu/efield"
)

// Viewport maps scene coordinates onto a pixel rectangle.
type Viewport struct {
	Bounds efield.GraphBounds

	// Rect is the plotted area. It equals the requested area unless the
	// view is letterboxed.
	Rect image.Rectangle

	sx, sy float64
}

// NewViewport fits bounds into area. With locked set, both axes share one
// scale and the plot is centred in area.
func NewViewport(bounds efield.GraphBounds, area image.Rectangle, locked bool) Viewport {
	sx := float64(area.Dx()) / bounds.Width()
	sy := float64(area.Dy()) / bounds.Height()
	rect := area
	if locked {
		s := min(sx, sy)
		sx, sy = s, s
		w := int(math.Round(bounds.Width() * s))
		h := int(math.Round(bounds.Height() * s))
		x0 := area.Min.X + (area.Dx()-w)/2
		y0 := area.Min.Y + (area.Dy()-h)/2
		rect = image.Rect(x0, y0, x0+w, y0+h)
	}
	return Viewport{Bounds: bounds, Rect: rect, sx: sx, sy: sy}
}

// Scale returns pixels per scene unit on each axis.
func (v Viewport) Scale() (sx, sy float64) { return v.sx, v.sy }

// Aspect returns the width/height ratio of the plotted area, the value
// efield.SampleGrid expects.
func (v Viewport) Aspect() float64 {
	if v.Rect.Dy() == 0 {
		return 1
	}
	return float64(v.Rect.Dx()) / float64(v.Rect.Dy())
}

// ToPixel converts a scene point to pixel coordinates relative to Rect.Min.
func (v Viewport) ToPixel(p efield.Point) efield.Point {
	return efield.Pt(
		(p.X-v.Bounds.TopLeft.X)*v.sx,
		(v.Bounds.TopLeft.Y-p.Y)*v.sy,
	)
}

// ToScene converts pixel coordinates relative to Rect.Min to a scene point.
func (v Viewport) ToScene(p efield.Point) efield.Point {
	return efield.Pt(
		v.Bounds.TopLeft.X+p.X/v.sx,
		v.Bounds.TopLeft.Y-p.Y/v.sy,
	)
}
