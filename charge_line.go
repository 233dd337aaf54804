package efield

import (
	"math"

	"github.com/gogpu/efield/symbolic"
)

// InfiniteLineCharge is a uniformly charged infinite line a*x + b*y + c = 0
// with linear density λ.
//
// The field points along the line normal (a, b) on the side where
// a*x + b*y + c is positive and against it on the other side, so that
// E = 2kλ(a, b)/(a*x + b*y + c).
type InfiniteLineCharge struct {
	a, b, c float64
	density float64
}

// NewInfiniteLineCharge creates the line a*x + b*y + c = 0 carrying density
// coulombs per metre. It fails with ErrDegenerateLine when a and b are both
// zero.
func NewInfiniteLineCharge(a, b, c, density float64) (*InfiniteLineCharge, error) {
	l := &InfiniteLineCharge{a: a, b: b, c: c, density: density}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Kind returns KindLine.
func (l *InfiniteLineCharge) Kind() Kind { return KindLine }

// Coefficients returns a, b and c of the implicit form.
func (l *InfiniteLineCharge) Coefficients() (a, b, c float64) { return l.a, l.b, l.c }

// Density returns the linear charge density.
func (l *InfiniteLineCharge) Density() float64 { return l.density }

// SetCoefficients replaces the line equation.
func (l *InfiniteLineCharge) SetCoefficients(a, b, c float64) error {
	if err := checkLine(a, b, c); err != nil {
		return err
	}
	l.a, l.b, l.c = a, b, c
	return nil
}

// SetDensity changes the linear charge density.
func (l *InfiniteLineCharge) SetDensity(density float64) error {
	if err := checkFinite(KindLine, []string{"density"}, density); err != nil {
		return err
	}
	l.density = density
	return nil
}

// Clone returns a copy of the line.
func (l *InfiniteLineCharge) Clone() Charge {
	clone := *l
	return &clone
}

func (l *InfiniteLineCharge) validate() error {
	if err := checkLine(l.a, l.b, l.c); err != nil {
		return err
	}
	return checkFinite(KindLine, []string{"density"}, l.density)
}

func checkLine(a, b, c float64) error {
	if err := checkFinite(KindLine, []string{"a", "b", "c"}, a, b, c); err != nil {
		return err
	}
	if a == 0 && b == 0 {
		return ErrDegenerateLine
	}
	return nil
}

// side evaluates the implicit form at p.
func (l *InfiniteLineCharge) side(p Point) float64 {
	return l.a*p.X + l.b*p.Y + l.c
}

func (l *InfiniteLineCharge) norm() float64 {
	return math.Hypot(l.a, l.b)
}

// Distance returns the perpendicular distance from p to the line.
func (l *InfiniteLineCharge) Distance(p Point) float64 {
	return math.Abs(l.side(p)) / l.norm()
}

// ClosestPoint returns the orthogonal projection of p onto the line.
func (l *InfiniteLineCharge) ClosestPoint(p Point) Point {
	n2 := l.a*l.a + l.b*l.b
	t := l.side(p) / n2
	return Point{X: p.X - t*l.a, Y: p.Y - t*l.b}
}

// ElectricFieldMagnitude returns 2kλ/r, or 0 on the line.
func (l *InfiniteLineCharge) ElectricFieldMagnitude(p Point) float64 {
	r := l.Distance(p)
	if r == 0 {
		return 0
	}
	return finiteOrZero(2 * CoulombConstant * l.density / r)
}

// ElectricFieldX returns 2kλa/(a*x + b*y + c).
func (l *InfiniteLineCharge) ElectricFieldX(p Point) float64 {
	return l.component(p, l.a)
}

// ElectricFieldY returns 2kλb/(a*x + b*y + c).
func (l *InfiniteLineCharge) ElectricFieldY(p Point) float64 {
	return l.component(p, l.b)
}

func (l *InfiniteLineCharge) component(p Point, coef float64) float64 {
	s := l.side(p)
	if s == 0 || coef == 0 {
		return 0
	}
	return finiteOrZero(2 * CoulombConstant * l.density * coef / s)
}

// Equations returns
//
//	|E| = 2kλ*sqrt(a^2 + b^2)/abs(a*x + b*y + c)
//	Ex  = 2kλa/(a*x + b*y + c)
//	Ey  = 2kλb/(a*x + b*y + c)
func (l *InfiniteLineCharge) Equations() Equations {
	s := symbolic.Sum(
		symbolic.Product(symbolic.N(l.a), SymX),
		symbolic.Product(symbolic.N(l.b), SymY),
		symbolic.N(l.c),
	)
	scaled := func(v float64) symbolic.Expr {
		return symbolic.Product(symbolic.N(2*l.density*v), SymK)
	}
	return Equations{
		Kind:      KindLine,
		Magnitude: symbolic.Quo(scaled(l.norm()), symbolic.Abs(s)),
		X:         symbolic.Quo(scaled(l.a), s),
		Y:         symbolic.Quo(scaled(l.b), s),
	}
}
