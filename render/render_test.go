package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/efield"
)

var white = color.RGBA{255, 255, 255, 255}

func TestNewViewport(t *testing.T) {
	bounds := efield.DefaultBounds()
	area := image.Rect(0, 0, 200, 100)

	t.Run("unlocked", func(t *testing.T) {
		vp := NewViewport(bounds, area, false)
		if vp.Rect != area {
			t.Errorf("Rect = %v, want %v", vp.Rect, area)
		}
		if got := vp.ToPixel(bounds.TopLeft); got != efield.Pt(0, 0) {
			t.Errorf("ToPixel(top-left) = %v, want (0,0)", got)
		}
		if got := vp.ToPixel(bounds.BottomRight); got != efield.Pt(200, 100) {
			t.Errorf("ToPixel(bottom-right) = %v, want (200,100)", got)
		}
		if got := vp.Aspect(); got != 2 {
			t.Errorf("Aspect() = %v, want 2", got)
		}
	})

	t.Run("locked letterbox", func(t *testing.T) {
		vp := NewViewport(bounds, area, true)
		if want := image.Rect(50, 0, 150, 100); vp.Rect != want {
			t.Errorf("Rect = %v, want %v", vp.Rect, want)
		}
		sx, sy := vp.Scale()
		if sx != 50 || sy != 50 {
			t.Errorf("Scale() = (%v, %v), want (50, 50)", sx, sy)
		}
		if got := vp.Aspect(); got != 1 {
			t.Errorf("Aspect() = %v, want 1", got)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		vp := NewViewport(bounds, area, false)
		p := efield.Pt(0.25, -0.75)
		if got := vp.ToScene(vp.ToPixel(p)); got != p {
			t.Errorf("ToScene(ToPixel(%v)) = %v", p, got)
		}
	})
}

func TestClipPolygon(t *testing.T) {
	square := []efield.Point{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}}

	clipped := clipPolygon(square, 10, 10)
	if got := math.Abs(signedArea(clipped)); got != 25 {
		t.Errorf("clipped area = %v, want 25", got)
	}
	for _, p := range clipped {
		if p.X < 0 || p.X > 10 || p.Y < 0 || p.Y > 10 {
			t.Errorf("point %v outside the clip rectangle", p)
		}
	}

	outside := []efield.Point{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 30}}
	if got := clipPolygon(outside, 10, 10); len(got) != 0 {
		t.Errorf("clipPolygon(outside) = %v, want empty", got)
	}
}

func TestReversedFlipsWinding(t *testing.T) {
	tri := []efield.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 3}}
	if a, b := signedArea(tri), signedArea(reversed(tri)); a != -b || a == 0 {
		t.Errorf("signedArea = %v and %v, want opposite non-zero", a, b)
	}
}

// testFrame has one of each drawable on a 200×100 letterboxed view, where
// one scene unit is 50 px and the plot spans x in [50, 150].
func testFrame() *efield.Frame {
	return &efield.Frame{
		Bounds:   efield.DefaultBounds(),
		Settings: efield.DefaultSettings(),
		Shapes: []efield.Shape{
			{Kind: efield.ShapeDisc, Center: efield.Pt(0.5, 0.5), Radius: 0.2, Color: efield.Red, Alpha: efield.Opaque},
			{Kind: efield.ShapeAnnulus, Center: efield.Pt(-0.5, -0.5), Radius: 0.3, Width: 0.2, Color: efield.Blue, Alpha: efield.Translucent},
			{Kind: efield.ShapeLine, Center: efield.Pt(0, 0.8), Angle: 0, Width: efield.LineWidth, Color: efield.Blue, Alpha: efield.Opaque},
		},
		Arrows: []efield.Arrow{
			{Pos: efield.Pt(-0.5, 0.5), Angle: 0, Length: 20, Magnitude: 1, Color: efield.Green},
		},
	}
}

func TestDraw(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 100
	opts.Legend = false

	img, err := Image(testFrame(), opts)
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"disc centre", 125, 25, color.RGBA{255, 0, 0, 255}},
		{"line inside view", 100, 9, color.RGBA{0, 0, 255, 255}},
		{"line clipped at letterbox", 20, 9, white},
		{"annulus hole", 75, 75, white},
		{"arrow shaft", 70, 24, color.RGBA{0, 255, 0, 255}},
		{"empty plot", 140, 90, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	ring := img.RGBAAt(90, 75)
	if ring.B != 255 || ring.R > 200 || ring.R < 100 {
		t.Errorf("annulus pixel = %v, want translucent blue over white", ring)
	}
}

func TestDraw_UnlockedStretches(t *testing.T) {
	f := testFrame()
	f.Settings.AspectLocked = false
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 100
	opts.Legend = false

	img, err := Image(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	// The line now spans the full width.
	if got := img.RGBAAt(5, 10); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (5,10) = %v, want line colour", got)
	}
}

func TestDraw_Legend(t *testing.T) {
	f := &efield.Frame{
		Bounds:   efield.DefaultBounds(),
		Settings: efield.DefaultSettings(),
		Grid:     &efield.Grid{},
	}
	opts := DefaultOptions()
	opts.Width, opts.Height = 400, 200

	countInk := func(img *image.RGBA) int {
		n := 0
		for y := 0; y < 60; y++ {
			for x := 0; x < 60; x++ {
				if img.RGBAAt(x, y) != white {
					n++
				}
			}
		}
		return n
	}

	with, err := Image(f, opts)
	if err != nil {
		t.Fatalf("Image(legend) error = %v", err)
	}
	opts.Legend = false
	without, err := Image(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if countInk(without) != 0 {
		t.Error("top-left corner should be blank without a legend")
	}
	if countInk(with) == 0 {
		t.Error("legend drew nothing")
	}
}

func TestImage_Errors(t *testing.T) {
	opts := DefaultOptions()
	if _, err := Image(nil, opts); !errors.Is(err, ErrNilFrame) {
		t.Errorf("Image(nil) error = %v, want ErrNilFrame", err)
	}

	opts.Width = 0
	if _, err := Image(testFrame(), opts); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Image(width 0) error = %v, want ErrInvalidSize", err)
	}

	f := testFrame()
	f.Bounds = efield.GraphBounds{TopLeft: efield.Pt(1, 1), BottomRight: efield.Pt(-1, -1)}
	if _, err := Image(f, DefaultOptions()); !errors.Is(err, efield.ErrInvalidBounds) {
		t.Errorf("Image(inverted bounds) error = %v, want ErrInvalidBounds", err)
	}
}

func TestDraw_UnknownShapePanics(t *testing.T) {
	f := testFrame()
	f.Shapes = append(f.Shapes, efield.Shape{Kind: efield.ShapeKind(99), Color: efield.Red, Alpha: efield.Opaque})

	defer func() {
		if recover() == nil {
			t.Error("Image() with an unknown shape kind did not panic")
		}
	}()
	_, _ = Image(f, Options{Width: 200, Height: 100, Background: color.White})
}

func TestEncodePNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48
	img, err := Image(testFrame(), opts)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff8000", color.NRGBA{255, 128, 0, 255}, false},
		{"102030", color.NRGBA{16, 32, 48, 255}, false},
		{"#10203040", color.NRGBA{16, 32, 48, 64}, false},
		{"#fff", color.NRGBA{}, true},
		{"#gg0000", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseHex(%q) error = %v, want ErrInvalidColor", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatMagnitude(t *testing.T) {
	p := message.NewPrinter(language.English)
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{1.5, "1.50"},
		{1234.567, "1,234.57"},
	}
	for _, tt := range tests {
		if got := FormatMagnitude(p, tt.v); got != tt.want {
			t.Errorf("FormatMagnitude(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func BenchmarkImage_Demo(b *testing.B) {
	w, err := efield.NewWindow(efield.DemoCharges()...)
	if err != nil {
		b.Fatal(err)
	}
	s, err := efield.NewScene(w, efield.DefaultSettings(), 0)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	opts := DefaultOptions()
	bounds := w.DefaultBounds()
	vp := NewViewport(bounds, image.Rect(0, 0, opts.Width, opts.Height), true)
	frame, err := s.BuildFrame(b.Context(), bounds, vp.Aspect())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Image(frame, opts); err != nil {
			b.Fatal(err)
		}
	}
}
