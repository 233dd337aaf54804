package efield

import "github.com/gogpu/efield/symbolic"

// PointCharge is a charge q concentrated at a single position.
type PointCharge struct {
	position Point
	charge   float64
}

// NewPointCharge creates a point charge of q coulombs at position.
func NewPointCharge(position Point, q float64) (*PointCharge, error) {
	c := &PointCharge{position: position, charge: q}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns KindPoint.
func (c *PointCharge) Kind() Kind { return KindPoint }

// Position returns the location of the charge.
func (c *PointCharge) Position() Point { return c.position }

// Charge returns the charge in coulombs.
func (c *PointCharge) Charge() float64 { return c.charge }

// SetPosition moves the charge.
func (c *PointCharge) SetPosition(p Point) error {
	if err := checkPoint(c, p); err != nil {
		return err
	}
	c.position = p
	return nil
}

// SetCharge changes the charge.
func (c *PointCharge) SetCharge(q float64) error {
	if err := checkFinite(KindPoint, []string{"charge"}, q); err != nil {
		return err
	}
	c.charge = q
	return nil
}

// Clone returns a copy of the charge.
func (c *PointCharge) Clone() Charge {
	clone := *c
	return &clone
}

func (c *PointCharge) validate() error {
	if err := checkPoint(c, c.position); err != nil {
		return err
	}
	return checkFinite(KindPoint, []string{"charge"}, c.charge)
}

// ElectricFieldMagnitude returns k*q/r², or 0 at the charge itself.
func (c *PointCharge) ElectricFieldMagnitude(p Point) float64 {
	r := p.Distance(c.position)
	if r == 0 {
		return 0
	}
	return finiteOrZero(CoulombConstant * c.charge / (r * r))
}

// ElectricFieldX returns the x component of the field at p.
func (c *PointCharge) ElectricFieldX(p Point) float64 {
	x, _ := radial(c.ElectricFieldMagnitude(p), c.position, p)
	return x
}

// ElectricFieldY returns the y component of the field at p.
func (c *PointCharge) ElectricFieldY(p Point) float64 {
	_, y := radial(c.ElectricFieldMagnitude(p), c.position, p)
	return y
}

// Equations returns
//
//	|E| = k*q/((x - x0)^2 + (y - y0)^2)
//	Ex  = k*q*(x - x0)/((x - x0)^2 + (y - y0)^2)^1.5
//
// and the analogous Ey.
func (c *PointCharge) Equations() Equations {
	dx, dy := offsets(c.position)
	r2 := squaredDistance(dx, dy)
	kq := symbolic.Product(SymK, symbolic.N(c.charge))
	cube := symbolic.Power(r2, symbolic.N(-1.5))
	return Equations{
		Kind:      KindPoint,
		Magnitude: symbolic.Quo(kq, r2),
		X:         symbolic.Product(kq, dx, cube),
		Y:         symbolic.Product(kq, dy, cube),
	}
}

func checkPoint(c Charge, p Point) error {
	return checkFinite(c.Kind(), []string{"x", "y"}, p.X, p.Y)
}
