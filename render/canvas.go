package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/efield"
)

// canvas fills polygons into a rectangle of dst. Coordinates are relative
// to rect.Min and clipped to rect.
type canvas struct {
	dst  *image.RGBA
	rect image.Rectangle
	z    *vector.Rasterizer
	w, h float64
}

func newCanvas(dst *image.RGBA, rect image.Rectangle) *canvas {
	return &canvas{
		dst:  dst,
		rect: rect,
		z:    vector.NewRasterizer(rect.Dx(), rect.Dy()),
		w:    float64(rect.Dx()),
		h:    float64(rect.Dy()),
	}
}

// path adds a filled polygon.
func (c *canvas) path(poly []efield.Point) { c.add(poly, false) }

// hole adds a polygon that cuts out of an enclosing path.
func (c *canvas) hole(poly []efield.Point) { c.add(poly, true) }

func (c *canvas) add(poly []efield.Point, reverse bool) {
	poly = clipPolygon(poly, c.w, c.h)
	if len(poly) < 3 {
		return
	}
	// The rasterizer accumulates signed area, so winding decides whether
	// overlapping paths add up or cancel.
	if (signedArea(poly) < 0) != reverse {
		poly = reversed(poly)
	}
	c.z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
	for _, p := range poly[1:] {
		c.z.LineTo(float32(p.X), float32(p.Y))
	}
	c.z.ClosePath()
}

// fill composites the accumulated paths over dst and starts a new shape.
func (c *canvas) fill(col color.Color) {
	c.z.Draw(c.dst, c.rect, image.NewUniform(col), image.Point{})
	c.z.Reset(c.rect.Dx(), c.rect.Dy())
}

// clipPolygon clips poly to [0, w] × [0, h] (Sutherland-Hodgman).
func clipPolygon(poly []efield.Point, w, h float64) []efield.Point {
	poly = clipEdge(poly, func(p efield.Point) float64 { return p.X })
	poly = clipEdge(poly, func(p efield.Point) float64 { return w - p.X })
	poly = clipEdge(poly, func(p efield.Point) float64 { return p.Y })
	poly = clipEdge(poly, func(p efield.Point) float64 { return h - p.Y })
	return poly
}

// clipEdge keeps the part of poly where dist >= 0.
func clipEdge(poly []efield.Point, dist func(efield.Point) float64) []efield.Point {
	if len(poly) == 0 {
		return nil
	}
	out := make([]efield.Point, 0, len(poly)+2)
	prev := poly[len(poly)-1]
	dp := dist(prev)
	for _, cur := range poly {
		dc := dist(cur)
		switch {
		case dc >= 0:
			if dp < 0 {
				out = append(out, prev.Lerp(cur, dp/(dp-dc)))
			}
			out = append(out, cur)
		case dp >= 0:
			out = append(out, prev.Lerp(cur, dp/(dp-dc)))
		}
		prev, dp = cur, dc
	}
	return out
}

// signedArea returns the shoelace area of poly; its sign is the winding.
func signedArea(poly []efield.Point) float64 {
	a := 0.0
	prev := poly[len(poly)-1]
	for _, p := range poly {
		a += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return a / 2
}

func reversed(poly []efield.Point) []efield.Point {
	out := make([]efield.Point, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

// ellipse approximates an axis-aligned ellipse with a polygon.
func ellipse(c efield.Point, rx, ry float64) []efield.Point {
	n := min(24+int(max(rx, ry)/2), 360)
	poly := make([]efield.Point, n)
	for i := range poly {
		t := 2 * math.Pi * float64(i) / float64(n)
		poly[i] = efield.Pt(c.X+rx*math.Cos(t), c.Y+ry*math.Sin(t))
	}
	return poly
}

// segment returns the rectangle of a stroke from a to b.
func segment(a, b efield.Point, width float64) []efield.Point {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return nil
	}
	n := efield.Pt(-d.Y, d.X).Mul(width / 2 / l)
	return []efield.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
}
