package efield

import "github.com/gogpu/efield/internal/parallel"

// DefaultResolution is the number of samples along the horizontal axis.
const DefaultResolution = 20

// SampleOption configures SampleGrid.
//
// Example:
//
//	grid, err := efield.SampleGrid(ctx, window, window.DefaultBounds(),
//	    efield.WithResolution(40),
//	    efield.WithAspectRatio(16.0/9.0))
type SampleOption func(*sampleOptions)

type sampleOptions struct {
	resolution int
	aspect     float64
	workers    int
	pool       *parallel.WorkerPool
}

func defaultSampleOptions() sampleOptions {
	return sampleOptions{
		resolution: DefaultResolution,
		aspect:     1,
	}
}

// WithResolution sets the number of columns. Values below 1 produce an
// empty grid.
func WithResolution(r int) SampleOption {
	return func(o *sampleOptions) {
		o.resolution = r
	}
}

// WithAspectRatio sets the display width/height ratio used to derive the
// number of rows. Non-positive or non-finite ratios are treated as 1.
func WithAspectRatio(widthOverHeight float64) SampleOption {
	return func(o *sampleOptions) {
		if widthOverHeight > 0 && isFinite(widthOverHeight) {
			o.aspect = widthOverHeight
		}
	}
}

// WithWorkers sets the number of goroutines evaluating columns.
// 0 uses GOMAXPROCS.
func WithWorkers(n int) SampleOption {
	return func(o *sampleOptions) {
		o.workers = n
	}
}

// withPool makes SampleGrid run on an existing pool instead of starting one.
func withPool(p *parallel.WorkerPool) SampleOption {
	return func(o *sampleOptions) {
		o.pool = p
	}
}
