package efield

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/efield/internal/parallel"
)

// Frame is everything needed to draw one view of the field.
type Frame struct {
	// Revision is the window revision the frame was built from.
	Revision uint64

	Bounds   GraphBounds
	Aspect   float64
	Settings Settings

	Grid   *Grid
	Arrows []Arrow
	Shapes []Shape
}

// EquationFrame holds the rounded equations of every charge.
type EquationFrame struct {
	Revision uint64
	Rounding int
	Sets     []Equations
}

// Scene ties a Window to its Settings and builds frames from it, either
// synchronously or in the background.
//
// Background builds are latest-wins: starting one cancels the previous
// build of the same kind, and a superseded build never reaches the
// OnFrame or OnEquations callbacks. Close must be called to release the
// worker goroutines.
type Scene struct {
	window *Window
	pool   *parallel.WorkerPool

	mu          sync.Mutex
	settings    Settings
	onFrame     func(*Frame)
	onEquations func(*EquationFrame)

	frames    *parallel.Latest[*Frame]
	equations *parallel.Latest[*EquationFrame]
}

// NewScene creates a scene over w. workers sets the number of sampling
// goroutines; 0 uses GOMAXPROCS.
func NewScene(w *Window, settings Settings, workers int) (*Scene, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		window:   w,
		pool:     parallel.NewWorkerPool(workers),
		settings: settings,
	}
	s.frames = parallel.NewLatest(s.publishFrame, s.buildFailed)
	s.equations = parallel.NewLatest(s.publishEquations, s.buildFailed)
	return s, nil
}

// Window returns the charges behind the scene.
func (s *Scene) Window() *Window { return s.window }

// Settings returns the current settings.
func (s *Scene) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies fn to a copy of the settings and keeps the result
// if it is valid.
func (s *Scene) UpdateSettings(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// OnFrame sets the callback receiving frames from Rebuild.
func (s *Scene) OnFrame(fn func(*Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// OnEquations sets the callback receiving equations from RebuildEquations.
func (s *Scene) OnEquations(fn func(*EquationFrame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEquations = fn
}

func (s *Scene) publishFrame(f *Frame) {
	s.mu.Lock()
	fn := s.onFrame
	s.mu.Unlock()
	if fn != nil {
		fn(f)
	}
}

func (s *Scene) publishEquations(e *EquationFrame) {
	s.mu.Lock()
	fn := s.onEquations
	s.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func (s *Scene) buildFailed(err error) {
	Logger().Warn("efield: background build failed", "err", err)
}

// BuildFrame samples the field over bounds for a display with the given
// width/height ratio.
func (s *Scene) BuildFrame(ctx context.Context, bounds GraphBounds, aspect float64) (*Frame, error) {
	snap := s.window.Snapshot()
	settings := s.Settings()

	grid, err := SampleGrid(ctx, snap, bounds,
		WithResolution(settings.Resolution),
		WithAspectRatio(aspect),
		withPool(s.pool))
	if err != nil {
		return nil, err
	}
	return &Frame{
		Revision: snap.Revision(),
		Bounds:   bounds,
		Aspect:   aspect,
		Settings: settings,
		Grid:     grid,
		Arrows:   Arrows(grid, settings.MaxArrowLength),
		Shapes:   Shapes(snap.charges),
	}, nil
}

// BuildEquations returns the equations of every charge rounded to the
// configured number of decimal places.
func (s *Scene) BuildEquations(ctx context.Context) (*EquationFrame, error) {
	snap := s.window.Snapshot()
	rounding := s.Settings().Rounding

	sets := make([]Equations, len(snap.charges))
	for i, c := range snap.charges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sets[i] = c.Equations().Round(rounding)
	}
	return &EquationFrame{Revision: snap.Revision(), Rounding: rounding, Sets: sets}, nil
}

// Refresh builds a frame and the equations concurrently.
func (s *Scene) Refresh(ctx context.Context, bounds GraphBounds, aspect float64) (*Frame, *EquationFrame, error) {
	var (
		frame *Frame
		eqs   *EquationFrame
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		frame, err = s.BuildFrame(gctx, bounds, aspect)
		return err
	})
	g.Go(func() error {
		var err error
		eqs, err = s.BuildEquations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return frame, eqs, nil
}

// Rebuild starts a background frame build, cancelling any previous one.
func (s *Scene) Rebuild(bounds GraphBounds, aspect float64) {
	s.frames.Go(func(ctx context.Context) (*Frame, error) {
		return s.BuildFrame(ctx, bounds, aspect)
	})
}

// RebuildEquations starts a background equation build, cancelling any
// previous one.
func (s *Scene) RebuildEquations() {
	s.equations.Go(s.BuildEquations)
}

// Wait blocks until the background builds started so far have finished.
func (s *Scene) Wait() {
	s.frames.Wait()
	s.equations.Wait()
}

// Close cancels background builds, waits for them and stops the workers.
func (s *Scene) Close() {
	s.frames.Close()
	s.equations.Close()
	s.pool.Close()
}
