package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/efield"
)

const (
	defaultFontSize = 12.0
	legendPad       = 6
)

var (
	legendBox = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xd0}
	legendInk = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

var loadFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("render: parse font: %w", err)
	}
	if size <= 0 {
		size = defaultFontSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create face: %w", err)
	}
	return face, nil
}

// FormatMagnitude formats a field strength with digit grouping.
func FormatMagnitude(p *message.Printer, v float64) string {
	switch {
	case v == 0:
		return "0"
	case math.Abs(v) >= 1e6 || math.Abs(v) < 1e-2:
		return p.Sprintf("%.3e", v)
	default:
		return p.Sprintf("%.2f", v)
	}
}

type legendRow struct {
	swatch *efield.RGB
	text   string
}

func legendRows(f *efield.Frame) []legendRow {
	p := message.NewPrinter(language.English)
	green, yellow, red := efield.Green, efield.Yellow, efield.Red
	return []legendRow{
		{text: p.Sprintf("max |E| %s N/C", FormatMagnitude(p, f.Grid.Max()))},
		{text: p.Sprintf("%d × %d samples", f.Grid.Cols, f.Grid.Rows)},
		{swatch: &green, text: "weakest"},
		{swatch: &yellow, text: "median"},
		{swatch: &red, text: "strongest"},
	}
}

// drawLegend draws the magnitude key in the top-left corner of dst.
func drawLegend(dst *image.RGBA, f *efield.Frame, size float64) error {
	face, err := newFace(size)
	if err != nil {
		return err
	}
	defer func() {
		_ = face.Close()
	}()

	m := face.Metrics()
	lineH := m.Height.Ceil()
	ascent := m.Ascent.Ceil()
	swatch := ascent

	rows := legendRows(f)
	textW := 0
	for _, r := range rows {
		textW = max(textW, font.MeasureString(face, r.text).Ceil())
	}

	origin := dst.Bounds().Min.Add(image.Pt(legendPad, legendPad))
	box := image.Rectangle{
		Min: origin,
		Max: origin.Add(image.Pt(textW+swatch+3*legendPad, len(rows)*lineH+2*legendPad)),
	}
	draw.Draw(dst, box, image.NewUniform(legendBox), image.Point{}, draw.Over)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(legendInk), Face: face}
	for i, r := range rows {
		top := box.Min.Y + legendPad + i*lineH
		x := box.Min.X + legendPad
		if r.swatch != nil {
			sw := image.Rect(x, top, x+swatch, top+swatch)
			draw.Draw(dst, sw, image.NewUniform(nrgba(*r.swatch, 0xff)), image.Point{}, draw.Src)
		}
		x += swatch + legendPad
		d.Dot = fixed.P(x, top+ascent)
		d.DrawString(r.text)
	}
	return nil
}
