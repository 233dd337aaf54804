package efield

import (
	"errors"
	"fmt"
)

// DefaultRounding is the number of decimal places shown in equations.
const DefaultRounding = 2

// Settings are the user-adjustable knobs of a Scene.
type Settings struct {
	// Resolution is the number of grid columns.
	Resolution int

	// Rounding is the number of decimal places in displayed equations.
	Rounding int

	// MaxArrowLength is the length of the strongest arrow.
	MaxArrowLength float64

	// AspectLocked keeps one scene unit equally long on both axes when
	// rendering. It does not affect sampling.
	AspectLocked bool
}

// DefaultSettings returns the initial settings.
func DefaultSettings() Settings {
	return Settings{
		Resolution:     DefaultResolution,
		Rounding:       DefaultRounding,
		MaxArrowLength: DefaultMaxArrowLength,
		AspectLocked:   true,
	}
}

// IncreaseResolution adds one column.
func (s *Settings) IncreaseResolution() { s.Resolution++ }

// DecreaseResolution removes one column, stopping at 0.
func (s *Settings) DecreaseResolution() { s.Resolution = max(s.Resolution-1, 0) }

// ResetResolution restores DefaultResolution.
func (s *Settings) ResetResolution() { s.Resolution = DefaultResolution }

// ChangeRounding adds delta decimal places, stopping at 0.
func (s *Settings) ChangeRounding(delta int) { s.Rounding = max(s.Rounding+delta, 0) }

// ToggleAspectLock flips AspectLocked.
func (s *Settings) ToggleAspectLock() { s.AspectLocked = !s.AspectLocked }

// Validate reports every invalid setting.
func (s Settings) Validate() error {
	var errs []error
	if s.Resolution < 0 {
		errs = append(errs, fmt.Errorf("efield: resolution must be non-negative, got %d", s.Resolution))
	}
	if s.Rounding < 0 {
		errs = append(errs, fmt.Errorf("efield: rounding must be non-negative, got %d", s.Rounding))
	}
	if !(s.MaxArrowLength > 0) || !isFinite(s.MaxArrowLength) {
		errs = append(errs, fmt.Errorf("efield: max arrow length must be positive, got %g", s.MaxArrowLength))
	}
	return errors.Join(errs...)
}
