// Package efield samples and visually encodes the electric field of static
// two-dimensional charge arrangements.
//
// # Overview
//
// A [Window] holds point charges, infinite line charges, charged discs and
// charged annuli, sums their fields and keeps an undo stack of removed
// charges. [SampleGrid] evaluates any [Field] on a lattice spanning
// [GraphBounds], and [Arrows] turns the samples into drawable arrows whose
// colour encodes the sample's percentile rank (green, yellow, red) and
// whose length encodes its magnitude relative to the strongest sample.
//
// # Quick Start
//
//	import "github.com/gogpu/efield"
//
//	q, _ := efield.NewPointCharge(efield.Pt(0, 0), 10)
//	w, _ := efield.NewWindow(q)
//
//	grid, err := efield.SampleGrid(ctx, w, w.DefaultBounds(), efield.WithResolution(30))
//	if err != nil {
//	    return err
//	}
//	arrows := efield.Arrows(grid, efield.DefaultMaxArrowLength)
//
// # Coordinate System
//
// Scene coordinates follow the plotting convention:
//   - X increases right
//   - Y increases up
//   - Angles in radians, 0 is right, increases counter-clockwise
//
// # Singularities
//
// Field evaluation never fails. At the position of a point charge, on a
// line charge or at the centre of a disc every component is exactly 0, and
// any non-finite contribution is dropped from sums and grids.
//
// # Equations
//
// Every charge also describes its field symbolically through
// [Charge.Equations], using the expression trees of package symbolic over
// the free symbols x, y and the Coulomb constant k.
//
// # Background builds
//
// [Scene] combines a Window with [Settings] and builds frames either
// synchronously or on background goroutines where a newer build cancels
// and replaces an older one.
package efield
