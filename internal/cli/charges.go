package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/efield"
)

// chargeFlags collects the charges given on the command line.
type chargeFlags struct {
	demo    bool
	points  []string
	lines   []string
	circles []string
	rings   []string
}

// register adds the charge flags to cmd and all of its subcommands.
func (f *chargeFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.BoolVar(&f.demo, "demo", false, "start from the demo layout")
	fs.StringArrayVar(&f.points, "point", nil, "point charge x,y,q (repeatable)")
	fs.StringArrayVar(&f.lines, "line", nil, "infinite line a,b,c,λ for ax+by+c=0 (repeatable)")
	fs.StringArrayVar(&f.circles, "circle", nil, "charged disc x,y,r,σ (repeatable)")
	fs.StringArrayVar(&f.rings, "ring", nil, "charged annulus x,y,r1,r2,σ (repeatable)")
}

type chargeSpec struct {
	flag   string
	values []string
	arity  int
	build  func(v []float64) (efield.Charge, error)
}

// build parses every charge flag. Demo charges come first, followed by
// points, lines, circles and rings in the order given.
func (f *chargeFlags) build() ([]efield.Charge, error) {
	var charges []efield.Charge
	if f.demo {
		charges = append(charges, efield.DemoCharges()...)
	}

	specs := []chargeSpec{
		{"point", f.points, 3, func(v []float64) (efield.Charge, error) {
			return efield.NewPointCharge(efield.Pt(v[0], v[1]), v[2])
		}},
		{"line", f.lines, 4, func(v []float64) (efield.Charge, error) {
			return efield.NewInfiniteLineCharge(v[0], v[1], v[2], v[3])
		}},
		{"circle", f.circles, 4, func(v []float64) (efield.Charge, error) {
			return efield.NewCircleCharge(efield.Pt(v[0], v[1]), v[2], v[3])
		}},
		{"ring", f.rings, 5, func(v []float64) (efield.Charge, error) {
			return efield.NewRingCharge(efield.Pt(v[0], v[1]), v[2], v[3], v[4])
		}},
	}
	for _, s := range specs {
		for _, raw := range s.values {
			v, err := parseFloats(raw, s.arity)
			if err != nil {
				return nil, fmt.Errorf("--%s %q: %w", s.flag, raw, err)
			}
			c, err := s.build(v)
			if err != nil {
				return nil, fmt.Errorf("--%s %q: %w", s.flag, raw, err)
			}
			charges = append(charges, c)
		}
	}
	return charges, nil
}

// parseFloats splits a comma separated list of exactly n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// describe returns a one-line summary of c.
func describe(c efield.Charge) string {
	switch c := c.(type) {
	case *efield.PointCharge:
		p := c.Position()
		return fmt.Sprintf("point charge q=%g at (%g, %g)", c.Charge(), p.X, p.Y)
	case *efield.InfiniteLineCharge:
		a, b, k := c.Coefficients()
		return fmt.Sprintf("line %gx + %gy + %g = 0, λ=%g", a, b, k, c.Density())
	case *efield.CircleCharge:
		p := c.Center()
		return fmt.Sprintf("disc r=%g at (%g, %g), σ=%g", c.Radius(), p.X, p.Y, c.Density())
	case *efield.RingCharge:
		p := c.Center()
		return fmt.Sprintf("ring r=%g..%g at (%g, %g), σ=%g", c.InnerRadius(), c.OuterRadius(), p.X, p.Y, c.Density())
	default:
		panic(fmt.Sprintf("efield: unknown charge type %T", c))
	}
}
