package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/efield"
)

var (
	// ErrNilFrame is returned when there is nothing to draw.
	ErrNilFrame = errors.New("render: nil frame")

	// ErrInvalidSize is returned for non-positive image dimensions.
	ErrInvalidSize = errors.New("render: invalid image size")

	// ErrInvalidColor is returned by ParseHex for malformed colours.
	ErrInvalidColor = errors.New("render: invalid colour")
)

// Drawing constants, in pixels.
const (
	shaftWidth = 2.0
	headRatio  = 0.35
	maxHead    = 10.0
)

// Options controls image output.
type Options struct {
	Width, Height int

	// Background fills the whole image, including letterbox margins.
	Background color.Color

	// Legend draws the magnitude key in the top-left corner.
	Legend bool

	// FontSize is the legend text size in points.
	FontSize float64
}

// DefaultOptions returns an 800×600 white image with a legend.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Background: color.White,
		Legend:     true,
		FontSize:   12,
	}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Image draws f into a new image of the configured size.
func Image(f *efield.Frame, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if err := Draw(dst, f, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

// Draw draws f over the whole of dst. Width and Height in opts are ignored.
func Draw(dst *image.RGBA, f *efield.Frame, opts Options) error {
	if f == nil {
		return ErrNilFrame
	}
	if !f.Bounds.Valid() {
		return fmt.Errorf("render: %w", efield.ErrInvalidBounds)
	}
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	vp := NewViewport(f.Bounds, dst.Bounds(), f.Settings.AspectLocked)
	if !vp.Rect.Empty() {
		c := newCanvas(dst, vp.Rect)
		for _, s := range f.Shapes {
			drawShape(c, vp, s)
		}
		for _, a := range f.Arrows {
			drawArrow(c, vp, a)
		}
	}

	if opts.Legend && f.Grid != nil {
		return drawLegend(dst, f, opts.FontSize)
	}
	return nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

func nrgba(c efield.RGB, alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

func drawShape(c *canvas, vp Viewport, s efield.Shape) {
	sx, sy := vp.Scale()
	center := vp.ToPixel(s.Center)

	switch s.Kind {
	case efield.ShapeDisc:
		c.path(ellipse(center, s.Radius*sx, s.Radius*sy))
	case efield.ShapeAnnulus:
		outer, inner := s.Radius+s.Width/2, s.Radius-s.Width/2
		c.path(ellipse(center, outer*sx, outer*sy))
		if inner > 0 {
			c.hole(ellipse(center, inner*sx, inner*sy))
		}
	case efield.ShapeLine:
		dir := efield.Pt(math.Cos(s.Angle)*sx, -math.Sin(s.Angle)*sy)
		dir = dir.Mul(1 / dir.Length())
		mid := efield.Pt(c.w/2, c.h/2)
		// Long enough to cross the view from any anchor; clipping trims it.
		reach := 2 * (math.Hypot(c.w, c.h) + center.Distance(mid))
		c.path(segment(center.Sub(dir.Mul(reach)), center.Add(dir.Mul(reach)), s.Width))
	default:
		panic(fmt.Sprintf("render: unknown shape kind %d", s.Kind))
	}
	c.fill(nrgba(s.Color, s.Alpha))
}

// drawArrow draws a, centred on its sample. Angles are screen angles, so
// arrows keep their direction in an unlocked view.
func drawArrow(c *canvas, vp Viewport, a efield.Arrow) {
	if a.Length <= 0 {
		return
	}
	center := vp.ToPixel(a.Pos)
	dir := efield.Pt(math.Cos(a.Angle), -math.Sin(a.Angle))
	half := dir.Mul(a.Length / 2)
	tail, tip := center.Sub(half), center.Add(half)

	head := min(a.Length*headRatio, maxHead)
	neck := tip.Sub(dir.Mul(head))
	c.path(segment(tail, neck, shaftWidth))
	n := efield.Pt(-dir.Y, dir.X).Mul(head / 2)
	c.path([]efield.Point{tip, neck.Add(n), neck.Sub(n)})
	c.fill(nrgba(a.Color, 0xff))
}
