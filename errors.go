package efield

import (
	"errors"
	"fmt"
)

// Sentinel errors for efield package.
var (
	// ErrDegenerateLine is returned when a line charge has x and y coefficients both zero.
	ErrDegenerateLine = errors.New("efield: line coefficients a and b cannot both be zero")

	// ErrNonFinite is returned when a charge parameter is NaN or infinite.
	ErrNonFinite = errors.New("efield: parameter must be finite")

	// ErrInvalidRadius is returned for negative radii or an inner radius larger than the outer one.
	ErrInvalidRadius = errors.New("efield: invalid radius")

	// ErrNilCharge is returned when a nil charge is added to a Window.
	ErrNilCharge = errors.New("efield: nil charge")

	// ErrChargeNotFound is returned when a charge handle is not in the active collection.
	ErrChargeNotFound = errors.New("efield: charge not found")

	// ErrInvalidBounds is returned when graph bounds have non-finite corners.
	ErrInvalidBounds = errors.New("efield: graph bounds must be finite")

	// ErrUnknownCharge marks a Charge implementation outside the closed variant set.
	ErrUnknownCharge = errors.New("efield: unexpected charge type")
)

// ParameterError reports a rejected charge parameter.
type ParameterError struct {
	Kind  Kind
	Field string
	Value float64
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("efield: %s %s = %g: %v", e.Kind, e.Field, e.Value, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// checkFinite returns a ParameterError wrapping ErrNonFinite for the first
// non-finite value in fields (name, value pairs).
func checkFinite(kind Kind, names []string, values ...float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return &ParameterError{Kind: kind, Field: names[i], Value: v, Err: ErrNonFinite}
		}
	}
	return nil
}

// unknownCharge panics for a Charge outside the closed variant set.
func unknownCharge(c Charge) {
	panic(fmt.Sprintf("%v: %T", ErrUnknownCharge, c))
}

// isNilCharge reports whether c is nil or a nil pointer to one of the
// variants.
func isNilCharge(c Charge) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *PointCharge:
		return c == nil
	case *InfiniteLineCharge:
		return c == nil
	case *CircleCharge:
		return c == nil
	case *RingCharge:
		return c == nil
	default:
		return false
	}
}
