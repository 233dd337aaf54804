package efield

import (
	"context"
	"math"
	"time"

	"github.com/gogpu/efield/internal/parallel"
)

// Grid is a lattice of field samples. Every slice is indexed [i][j] with i
// the column (left to right) and j the row (bottom to top).
type Grid struct {
	Cols, Rows int

	PosX, PosY     [][]float64
	FieldX, FieldY [][]float64
	Net            [][]float64
}

// Sample is one lattice cell.
type Sample struct {
	Pos    Point
	FieldX float64
	FieldY float64
	Net    float64
}

// Len returns the number of samples.
func (g *Grid) Len() int { return g.Cols * g.Rows }

// At returns the sample in column i, row j.
func (g *Grid) At(i, j int) Sample {
	return Sample{
		Pos:    Pt(g.PosX[i][j], g.PosY[i][j]),
		FieldX: g.FieldX[i][j],
		FieldY: g.FieldY[i][j],
		Net:    g.Net[i][j],
	}
}

// Max returns the largest net magnitude, or 0 for an empty grid.
func (g *Grid) Max() float64 {
	m := 0.0
	for _, col := range g.Net {
		for _, v := range col {
			m = max(m, v)
		}
	}
	return m
}

// MaxAspectRatio bounds the display ratio used for row counts: ratios are
// clamped to [1/MaxAspectRatio, MaxAspectRatio].
const MaxAspectRatio = 64

// RowCount derives the number of rows from the column count and the display
// width/height ratio: max(round(R/aspect), 1). It returns 0 when r < 1.
// Non-positive or non-finite ratios count as 1.
func RowCount(r int, aspect float64) int {
	if r < 1 {
		return 0
	}
	if aspect <= 0 || !isFinite(aspect) {
		aspect = 1
	}
	aspect = min(max(aspect, 1.0/MaxAspectRatio), MaxAspectRatio)
	return max(int(math.Round(float64(r)/aspect)), 1)
}

// percentage returns k/(n-1), or 0.5 when n < 2.
func percentage(k, n int) float64 {
	if n < 2 {
		return 0.5
	}
	return float64(k) / float64(n-1)
}

func newMatrix(cols, rows int) [][]float64 {
	m := make([][]float64, cols)
	backing := make([]float64, cols*rows)
	for i := range m {
		m[i] = backing[i*rows : (i+1)*rows : (i+1)*rows]
	}
	return m
}

// SampleGrid evaluates field on a lattice spanning bounds.
//
// Column i and row j sit at
//
//	x = TopLeft.X + i/(R-1)·(BottomRight.X - TopLeft.X)
//	y = BottomRight.Y + j/(Y-1)·(TopLeft.Y - BottomRight.Y)
//
// with the fraction taken as 0.5 when R or Y is 1. Non-finite field values
// are stored as 0. Columns are evaluated in parallel; cancelling ctx
// abandons the build and returns ctx.Err().
func SampleGrid(ctx context.Context, field Field, bounds GraphBounds, opts ...SampleOption) (*Grid, error) {
	o := defaultSampleOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !bounds.TopLeft.IsFinite() || !bounds.BottomRight.IsFinite() {
		return nil, ErrInvalidBounds
	}

	cols := max(o.resolution, 0)
	rows := RowCount(cols, o.aspect)
	g := &Grid{
		Cols:   cols,
		Rows:   rows,
		PosX:   newMatrix(cols, rows),
		PosY:   newMatrix(cols, rows),
		FieldX: newMatrix(cols, rows),
		FieldY: newMatrix(cols, rows),
		Net:    newMatrix(cols, rows),
	}
	if cols == 0 {
		return g, nil
	}

	pool := o.pool
	if pool == nil {
		pool = parallel.NewWorkerPool(min(o.workers, cols))
		defer pool.Close()
	}

	start := time.Now()
	tl, br := bounds.TopLeft, bounds.BottomRight
	err := pool.Run(ctx, cols, func(i int) {
		x := tl.X + percentage(i, cols)*(br.X-tl.X)
		for j := range rows {
			y := br.Y + percentage(j, rows)*(tl.Y-br.Y)
			p := Pt(x, y)
			ex := finiteOrZero(field.ElectricFieldX(p))
			ey := finiteOrZero(field.ElectricFieldY(p))
			g.PosX[i][j] = x
			g.PosY[i][j] = y
			g.FieldX[i][j] = ex
			g.FieldY[i][j] = ey
			g.Net[i][j] = net(ex, ey)
		}
	})
	if err != nil {
		Logger().Debug("efield: grid build abandoned", "cols", cols, "rows", rows, "err", err)
		return nil, err
	}

	Logger().Debug("efield: grid built",
		"cols", cols,
		"rows", rows,
		"elapsed", time.Since(start))
	return g, nil
}
