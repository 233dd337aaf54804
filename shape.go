package efield

import "math"

// ShapeKind selects how a charge is drawn.
type ShapeKind uint8

const (
	// ShapeDisc is a filled circle.
	ShapeDisc ShapeKind = iota
	// ShapeLine is an infinite line through Center at Angle.
	ShapeLine
	// ShapeAnnulus is a circle of radius Radius stroked with Width.
	ShapeAnnulus
)

// Blue marks negative charges.
var Blue = RGB{0, 0, 255}

// Opacity levels for charge shapes.
const (
	Opaque      uint8 = 255
	Translucent uint8 = 128
)

// LineWidth is the stroke width of line charges, in pixels.
const LineWidth = 4.0

// Shape describes how to draw one charge.
type Shape struct {
	Kind   ShapeKind
	Charge Kind

	// Center is the disc or annulus centre, or a point on the line.
	Center Point

	// Radius is the disc radius or the annulus mid radius.
	Radius float64

	// Width is the annulus stroke width in scene units, or LineWidth in
	// pixels for lines.
	Width float64

	// Angle is the line direction in radians.
	Angle float64

	Color RGB
	Alpha uint8
}

func signColor(v float64) RGB {
	if v > 0 {
		return Red
	}
	return Blue
}

// Shapes returns drawing descriptors for charges, in order.
func Shapes(charges []Charge) []Shape {
	shapes := make([]Shape, 0, len(charges))
	for _, c := range charges {
		shapes = append(shapes, shapeOf(c))
	}
	return shapes
}

func shapeOf(c Charge) Shape {
	switch c := c.(type) {
	case *PointCharge:
		return Shape{
			Kind:   ShapeDisc,
			Charge: KindPoint,
			Center: c.position,
			Radius: math.Abs(c.charge) / 5,
			Color:  signColor(c.charge),
			Alpha:  Opaque,
		}
	case *InfiniteLineCharge:
		at := Pt(0, -c.c/c.b)
		if c.b == 0 {
			at = Pt(-c.c/c.a, 0)
		}
		return Shape{
			Kind:   ShapeLine,
			Charge: KindLine,
			Center: at,
			Width:  LineWidth,
			Angle:  math.Atan2(-c.a, c.b),
			Color:  signColor(c.density),
			Alpha:  Opaque,
		}
	case *CircleCharge:
		return Shape{
			Kind:   ShapeDisc,
			Charge: KindCircle,
			Center: c.ring.center,
			Radius: c.ring.outer,
			Color:  signColor(c.ring.density),
			Alpha:  Translucent,
		}
	case *RingCharge:
		return Shape{
			Kind:   ShapeAnnulus,
			Charge: KindRing,
			Center: c.center,
			Radius: (c.inner + c.outer) / 2,
			Width:  c.outer - c.inner,
			Color:  signColor(c.density),
			Alpha:  Translucent,
		}
	default:
		unknownCharge(c)
		return Shape{}
	}
}
