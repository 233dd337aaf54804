package efield

// Template returns the default charge of the given kind placed at at: a
// unit point charge, the vertical line x = at.X with unit density, a unit
// disc or an annulus from 0.5 to 1, all with unit density.
func Template(kind Kind, at Point) (Charge, error) {
	switch kind {
	case KindPoint:
		return asCharge(NewPointCharge(at, 1))
	case KindLine:
		return asCharge(NewInfiniteLineCharge(1, 0, -at.X, 1))
	case KindCircle:
		return asCharge(NewCircleCharge(at, 1, 1))
	case KindRing:
		return asCharge(NewRingCharge(at, 0.5, 1, 1))
	default:
		return nil, &ParameterError{Kind: kind, Field: "kind", Value: float64(kind), Err: ErrUnknownCharge}
	}
}

// asCharge converts a constructor result, returning an untyped nil Charge
// on error.
func asCharge[T Charge](c T, err error) (Charge, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DemoCharges returns a scene mixing every charge kind.
func DemoCharges() []Charge {
	return []Charge{
		&PointCharge{position: Pt(1, 4), charge: 10},
		&PointCharge{position: Pt(-3, 5), charge: 8},
		&PointCharge{position: Pt(0, 1), charge: -5},
		&InfiniteLineCharge{a: 3, b: 2, c: 1, density: 0.5},
		&InfiniteLineCharge{a: 0, b: 1, c: 1, density: 1},
		&InfiniteLineCharge{a: 1, b: 0, c: 2, density: -1},
		&CircleCharge{ring: RingCharge{center: Pt(1, 2), outer: 2.5, density: 2}},
		&RingCharge{center: Pt(0, 0), inner: 2, outer: 3, density: -4},
		&RingCharge{center: Pt(0, 0), inner: 5, outer: 6, density: -4},
		&RingCharge{center: Pt(0, 0), inner: 0, outer: 1, density: 20},
	}
}
