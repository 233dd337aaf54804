package efield

import (
	"fmt"
	"math"
	"sort"
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// Gradient stops used for field arrows.
var (
	Green  = RGB{0, 255, 0}
	Yellow = RGB{255, 255, 0}
	Red    = RGB{255, 0, 0}
)

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// GradientColor interpolates from lo (t <= 0) to hi (t >= 1).
// Channels are truncated toward lo's side, not rounded.
func GradientColor(t float64, lo, hi RGB) RGB {
	if t <= 0 || math.IsNaN(t) {
		return lo
	}
	if t >= 1 {
		return hi
	}
	return RGB{
		R: lerpChannel(lo.R, hi.R, t),
		G: lerpChannel(lo.G, hi.G, t),
		B: lerpChannel(lo.B, hi.B, t),
	}
}

func lerpChannel(lo, hi uint8, t float64) uint8 {
	l := float64(lo)
	return uint8(l - (l-float64(hi))*t)
}

// PercentileColor maps a sample's rank among n samples to a colour:
// green to yellow over the lower half, yellow to red over the upper half.
func PercentileColor(rank, n int) RGB {
	if n <= 0 {
		return Green
	}
	p := float64(rank+1) / float64(n)
	if p <= 0.5 {
		return GradientColor(p*2, Green, Yellow)
	}
	return GradientColor((p-0.5)*2, Yellow, Red)
}

// Ranks returns, for every sample, its position in an ascending stable sort
// of the grid's net magnitudes. Ties keep column-major order.
func Ranks(g *Grid) [][]int {
	type cell struct {
		mag  float64
		i, j int
	}
	cells := make([]cell, 0, g.Len())
	for i := range g.Cols {
		for j := range g.Rows {
			cells = append(cells, cell{mag: g.Net[i][j], i: i, j: j})
		}
	}
	sort.SliceStable(cells, func(a, b int) bool { return cells[a].mag < cells[b].mag })

	ranks := make([][]int, g.Cols)
	for i := range ranks {
		ranks[i] = make([]int, g.Rows)
	}
	for rank, c := range cells {
		ranks[c.i][c.j] = rank
	}
	return ranks
}
