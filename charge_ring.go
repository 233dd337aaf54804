package efield

import (
	"math"

	"github.com/gogpu/efield/symbolic"
)

// RingCharge is a uniformly charged annulus with surface density σ between
// an inner and an outer radius.
//
// The annulus is treated as the cross-section of an infinitely long
// cylindrical shell, the same planar model used by InfiniteLineCharge. By
// Gauss's law the field at distance r from the centre is radial with
// magnitude 2k·λ(r)/r, where λ(r) = σπ(clamp(r, inner, outer)² - inner²) is
// the charge enclosed per unit length. The field inside the hole is zero.
type RingCharge struct {
	center  Point
	inner   float64
	outer   float64
	density float64
}

// NewRingCharge creates an annulus centred at center.
// It fails with ErrInvalidRadius unless 0 <= inner <= outer.
func NewRingCharge(center Point, inner, outer, density float64) (*RingCharge, error) {
	r := &RingCharge{center: center, inner: inner, outer: outer, density: density}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Kind returns KindRing.
func (r *RingCharge) Kind() Kind { return KindRing }

// Center returns the centre of the annulus.
func (r *RingCharge) Center() Point { return r.center }

// InnerRadius returns the radius of the hole.
func (r *RingCharge) InnerRadius() float64 { return r.inner }

// OuterRadius returns the outer boundary.
func (r *RingCharge) OuterRadius() float64 { return r.outer }

// Density returns the surface charge density.
func (r *RingCharge) Density() float64 { return r.density }

// SetCenter moves the annulus.
func (r *RingCharge) SetCenter(p Point) error {
	if err := checkPoint(r, p); err != nil {
		return err
	}
	r.center = p
	return nil
}

// SetRadii changes both radii.
func (r *RingCharge) SetRadii(inner, outer float64) error {
	if err := checkRadii(KindRing, inner, outer); err != nil {
		return err
	}
	r.inner, r.outer = inner, outer
	return nil
}

// SetDensity changes the surface charge density.
func (r *RingCharge) SetDensity(density float64) error {
	if err := checkFinite(KindRing, []string{"density"}, density); err != nil {
		return err
	}
	r.density = density
	return nil
}

// Clone returns a copy of the annulus.
func (r *RingCharge) Clone() Charge {
	clone := *r
	return &clone
}

func (r *RingCharge) validate() error {
	return checkRing(KindRing, r.center, r.inner, r.outer, r.density)
}

func checkRing(kind Kind, center Point, inner, outer, density float64) error {
	if err := checkFinite(kind, []string{"x", "y", "density"}, center.X, center.Y, density); err != nil {
		return err
	}
	return checkRadii(kind, inner, outer)
}

func checkRadii(kind Kind, inner, outer float64) error {
	if err := checkFinite(kind, []string{"inner radius", "outer radius"}, inner, outer); err != nil {
		return err
	}
	if inner < 0 {
		return &ParameterError{Kind: kind, Field: "inner radius", Value: inner, Err: ErrInvalidRadius}
	}
	if outer < inner {
		return &ParameterError{Kind: kind, Field: "outer radius", Value: outer, Err: ErrInvalidRadius}
	}
	return nil
}

// enclosed returns the charge per unit length inside radius d.
func (r *RingCharge) enclosed(d float64) float64 {
	rc := min(max(d, r.inner), r.outer)
	return r.density * math.Pi * (rc*rc - r.inner*r.inner)
}

// ElectricFieldMagnitude returns 2k·λ(r)/r, or 0 at the centre.
func (r *RingCharge) ElectricFieldMagnitude(p Point) float64 {
	d := p.Distance(r.center)
	if d == 0 {
		return 0
	}
	return finiteOrZero(2 * CoulombConstant * r.enclosed(d) / d)
}

// ElectricFieldX returns the x component of the field at p.
func (r *RingCharge) ElectricFieldX(p Point) float64 {
	x, _ := radial(r.ElectricFieldMagnitude(p), r.center, p)
	return x
}

// ElectricFieldY returns the y component of the field at p.
func (r *RingCharge) ElectricFieldY(p Point) float64 {
	_, y := radial(r.ElectricFieldMagnitude(p), r.center, p)
	return y
}

// Equations returns piecewise expressions in ρ = (x - x0)^2 + (y - y0)^2:
// zero inside the hole, 2πkσ(ρ - inner²)/sqrt(ρ) across the annulus and
// 2πkσ(outer² - inner²)/sqrt(ρ) outside it.
func (r *RingCharge) Equations() Equations {
	eq := ringEquations(r.center, r.inner, r.outer, r.density)
	eq.Kind = KindRing
	return eq
}

func ringEquations(center Point, inner, outer, density float64) Equations {
	dx, dy := offsets(center)
	rho := squaredDistance(dx, dy)
	in2, out2 := inner*inner, outer*outer
	coef := symbolic.N(2 * math.Pi * density)

	across := symbolic.Product(coef, SymK, symbolic.Diff(rho, symbolic.N(in2)))
	outside := symbolic.Product(coef, SymK, symbolic.N(out2-in2))

	piecewise := func(f func(symbolic.Expr) symbolic.Expr) symbolic.Expr {
		var cases []symbolic.Case
		if inner > 0 {
			cases = append(cases, symbolic.When(symbolic.Lt(rho, symbolic.N(in2)), symbolic.N(0)))
		}
		cases = append(cases, symbolic.When(symbolic.Le(rho, symbolic.N(out2)), f(across)))
		return symbolic.NewPiecewise(f(outside), cases...)
	}

	invSqrt := symbolic.Power(rho, symbolic.N(-0.5))
	inv := symbolic.Power(rho, symbolic.N(-1))
	return Equations{
		Magnitude: piecewise(func(e symbolic.Expr) symbolic.Expr { return symbolic.Product(e, invSqrt) }),
		X:         piecewise(func(e symbolic.Expr) symbolic.Expr { return symbolic.Product(e, dx, inv) }),
		Y:         piecewise(func(e symbolic.Expr) symbolic.Expr { return symbolic.Product(e, dy, inv) }),
	}
}

// CircleCharge is a uniformly charged disc: a RingCharge without a hole.
type CircleCharge struct {
	ring RingCharge
}

// NewCircleCharge creates a disc of the given radius centred at center.
func NewCircleCharge(center Point, radius, density float64) (*CircleCharge, error) {
	c := &CircleCharge{ring: RingCharge{center: center, outer: radius, density: density}}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns KindCircle.
func (c *CircleCharge) Kind() Kind { return KindCircle }

// Center returns the centre of the disc.
func (c *CircleCharge) Center() Point { return c.ring.center }

// Radius returns the radius of the disc.
func (c *CircleCharge) Radius() float64 { return c.ring.outer }

// Density returns the surface charge density.
func (c *CircleCharge) Density() float64 { return c.ring.density }

// SetCenter moves the disc.
func (c *CircleCharge) SetCenter(p Point) error {
	if err := checkPoint(c, p); err != nil {
		return err
	}
	c.ring.center = p
	return nil
}

// SetRadius changes the radius.
func (c *CircleCharge) SetRadius(radius float64) error {
	if err := checkRadii(KindCircle, 0, radius); err != nil {
		return err
	}
	c.ring.outer = radius
	return nil
}

// SetDensity changes the surface charge density.
func (c *CircleCharge) SetDensity(density float64) error {
	if err := checkFinite(KindCircle, []string{"density"}, density); err != nil {
		return err
	}
	c.ring.density = density
	return nil
}

// Clone returns a copy of the disc.
func (c *CircleCharge) Clone() Charge {
	clone := *c
	return &clone
}

func (c *CircleCharge) validate() error {
	return checkRing(KindCircle, c.ring.center, 0, c.ring.outer, c.ring.density)
}

// Ring returns the disc as an annulus with inner radius 0.
func (c *CircleCharge) Ring() *RingCharge {
	r := c.ring
	return &r
}

// ElectricFieldMagnitude returns the field strength at p.
func (c *CircleCharge) ElectricFieldMagnitude(p Point) float64 { return c.ring.ElectricFieldMagnitude(p) }

// ElectricFieldX returns the x component of the field at p.
func (c *CircleCharge) ElectricFieldX(p Point) float64 { return c.ring.ElectricFieldX(p) }

// ElectricFieldY returns the y component of the field at p.
func (c *CircleCharge) ElectricFieldY(p Point) float64 { return c.ring.ElectricFieldY(p) }

// Equations returns the disc's field equations.
func (c *CircleCharge) Equations() Equations {
	eq := c.ring.Equations()
	eq.Kind = KindCircle
	return eq
}
