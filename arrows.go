package efield

import "math"

// DefaultMaxArrowLength is the drawn length of the strongest sample.
const DefaultMaxArrowLength = 20.0

// Arrow is a drawable field sample.
type Arrow struct {
	// Pos is the sample position; the arrow is centred on it.
	Pos Point

	// Angle is the field direction in radians, counter-clockwise from +x.
	Angle float64

	// Length is the net magnitude scaled so the strongest sample has the
	// maximum length.
	Length float64

	// Magnitude is the net field strength.
	Magnitude float64

	// Color encodes the sample's percentile rank.
	Color RGB
}

// Arrows converts a grid into arrows, in column-major order. Samples with a
// net magnitude of zero are skipped.
func Arrows(g *Grid, maxLength float64) []Arrow {
	peak := g.Max()
	if peak <= 0 {
		return nil
	}
	ranks := Ranks(g)
	n := g.Len()

	arrows := make([]Arrow, 0, n)
	for i := range g.Cols {
		for j := range g.Rows {
			m := g.Net[i][j]
			if m <= 0 {
				continue
			}
			arrows = append(arrows, Arrow{
				Pos:       Pt(g.PosX[i][j], g.PosY[i][j]),
				Angle:     math.Atan2(g.FieldY[i][j], g.FieldX[i][j]),
				Length:    m / peak * maxLength,
				Magnitude: m,
				Color:     PercentileColor(ranks[i][j], n),
			})
		}
	}
	return arrows
}
