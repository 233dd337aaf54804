package efield

import "math"

// GraphBounds is the rectangle being sampled, in scene coordinates with y
// increasing upward: TopLeft.X < BottomRight.X and TopLeft.Y > BottomRight.Y.
type GraphBounds struct {
	TopLeft     Point
	BottomRight Point
}

// DefaultBounds returns [-1, 1] × [-1, 1], used when nothing better is known.
func DefaultBounds() GraphBounds {
	return GraphBounds{TopLeft: Pt(-1, 1), BottomRight: Pt(1, -1)}
}

// Width returns the horizontal span.
func (b GraphBounds) Width() float64 { return b.BottomRight.X - b.TopLeft.X }

// Height returns the vertical span.
func (b GraphBounds) Height() float64 { return b.TopLeft.Y - b.BottomRight.Y }

// Center returns the midpoint of the rectangle.
func (b GraphBounds) Center() Point { return b.TopLeft.Lerp(b.BottomRight, 0.5) }

// Valid reports whether the corners are finite and correctly ordered.
func (b GraphBounds) Valid() bool {
	return b.TopLeft.IsFinite() && b.BottomRight.IsFinite() && b.Width() > 0 && b.Height() > 0
}

// Translate returns the rectangle moved by (dx, dy).
func (b GraphBounds) Translate(dx, dy float64) GraphBounds {
	d := Pt(dx, dy)
	return GraphBounds{TopLeft: b.TopLeft.Add(d), BottomRight: b.BottomRight.Add(d)}
}

// CenterOrigin returns the rectangle shifted so that its centre is the
// origin, keeping its size.
func (b GraphBounds) CenterOrigin() GraphBounds {
	return b.Translate(-(b.BottomRight.X+b.TopLeft.X)/2, -(b.TopLeft.Y+b.BottomRight.Y)/2)
}

// extents accumulates the running bounding box during inference.
type extents struct {
	left, right, top, bottom float64
}

func newExtents() extents {
	return extents{left: math.Inf(1), right: math.Inf(-1), top: math.Inf(-1), bottom: math.Inf(1)}
}

func (e *extents) spanX(lo, hi float64) {
	e.left = min(e.left, lo)
	e.right = max(e.right, hi)
}

func (e *extents) spanY(lo, hi float64) {
	e.bottom = min(e.bottom, lo)
	e.top = max(e.top, hi)
}

func (e *extents) around(c Point, radius float64) {
	e.spanX(c.X-radius, c.X+radius)
	e.spanY(c.Y-radius, c.Y+radius)
}

// InferBounds returns a rectangle enclosing charges.
//
// Point charges contribute a square of half-size |q|/5, discs and annuli
// their outer circle. A vertical line contributes its x position and a
// horizontal line its y position; oblique lines contribute nothing. If any
// side is left unbounded the result is DefaultBounds. Each axis spans at
// least one unit.
func InferBounds(charges []Charge) GraphBounds {
	e := newExtents()
	for _, c := range charges {
		switch c := c.(type) {
		case *PointCharge:
			e.around(c.position, math.Abs(c.charge)/5)
		case *InfiniteLineCharge:
			switch {
			case c.b == 0:
				x := -c.c / c.a
				e.spanX(x, x)
			case c.a == 0:
				y := -c.c / c.b
				e.spanY(y, y)
			}
		case *CircleCharge:
			e.around(c.ring.center, c.ring.outer)
		case *RingCharge:
			e.around(c.center, c.outer)
		default:
			unknownCharge(c)
		}
	}

	if !isFinite(e.left) || !isFinite(e.right) || !isFinite(e.top) || !isFinite(e.bottom) {
		return DefaultBounds()
	}
	e.right = max(e.right, e.left+1)
	e.top = max(e.top, e.bottom+1)
	return GraphBounds{TopLeft: Pt(e.left, e.top), BottomRight: Pt(e.right, e.bottom)}
}
