package efield

import (
	"math"

	"github.com/gogpu/efield/symbolic"
)

// Kind identifies a charge variant.
type Kind uint8

const (
	// KindPoint is a point charge.
	KindPoint Kind = iota
	// KindLine is an infinite line charge.
	KindLine
	// KindCircle is a uniformly charged disc.
	KindCircle
	// KindRing is a uniformly charged annulus.
	KindRing
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindRing:
		return "ring"
	default:
		return "unknown"
	}
}

// Charge is a static source of electric field.
//
// The set of implementations is closed: *PointCharge, *InfiniteLineCharge,
// *CircleCharge and *RingCharge. Field evaluation is total over finite
// points: at a singularity (the position of a point charge, a point on a
// line charge, the centre of a ring) every method returns exactly 0.
//
// Charges are not safe for concurrent mutation. A Window stores its own
// copies and hands out clones.
type Charge interface {
	// Kind reports the variant.
	Kind() Kind

	// ElectricFieldMagnitude returns the signed field strength at p.
	ElectricFieldMagnitude(p Point) float64

	// ElectricFieldX returns the x component of the field at p.
	ElectricFieldX(p Point) float64

	// ElectricFieldY returns the y component of the field at p.
	ElectricFieldY(p Point) float64

	// Equations returns the field as symbolic expressions of x, y and k.
	Equations() Equations

	// Clone returns a deep copy.
	Clone() Charge

	validate() error
}

// Symbols used by charge equations.
var (
	SymX = symbolic.S("x")
	SymY = symbolic.S("y")
	SymK = symbolic.S("k")
)

// Equations is the symbolic form of a charge's field.
type Equations struct {
	Kind      Kind
	Magnitude symbolic.Expr
	X         symbolic.Expr
	Y         symbolic.Expr
}

// Bindings returns the environment that evaluates equations at p with k
// bound to CoulombConstant.
func Bindings(p Point) symbolic.Env {
	return symbolic.Env{"x": p.X, "y": p.Y, "k": CoulombConstant}
}

// Eval evaluates the three equations at p.
func (e Equations) Eval(p Point) (magnitude, x, y float64) {
	env := Bindings(p)
	return e.Magnitude.Eval(env), e.X.Eval(env), e.Y.Eval(env)
}

// Round rounds every numeric constant to digits decimal places.
func (e Equations) Round(digits int) Equations {
	return Equations{
		Kind:      e.Kind,
		Magnitude: e.Magnitude.Round(digits),
		X:         e.X.Round(digits),
		Y:         e.Y.Round(digits),
	}
}

// offsets returns the symbolic displacement (x - at.X, y - at.Y).
func offsets(at Point) (dx, dy symbolic.Expr) {
	return symbolic.Diff(SymX, symbolic.N(at.X)), symbolic.Diff(SymY, symbolic.N(at.Y))
}

// squaredDistance returns dx^2 + dy^2.
func squaredDistance(dx, dy symbolic.Expr) symbolic.Expr {
	two := symbolic.N(2)
	return symbolic.Sum(symbolic.Power(dx, two), symbolic.Power(dy, two))
}

// radial splits a radial magnitude m at p into components pointing away
// from center.
func radial(m float64, center, p Point) (x, y float64) {
	if m == 0 {
		return 0, 0
	}
	theta := math.Atan2(p.Y-center.Y, p.X-center.X)
	return finiteOrZero(m * math.Cos(theta)), finiteOrZero(m * math.Sin(theta))
}
