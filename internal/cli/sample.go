package cli

import (
	"io"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/gogpu/efield"
)

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type boundsJSON struct {
	TopLeft     pointJSON `json:"top_left"`
	BottomRight pointJSON `json:"bottom_right"`
}

type sampleJSON struct {
	I      int     `json:"i"`
	J      int     `json:"j"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	FieldX float64 `json:"ex"`
	FieldY float64 `json:"ey"`
	Net    float64 `json:"net"`
}

type arrowJSON struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	Length    float64 `json:"length"`
	Magnitude float64 `json:"magnitude"`
	Color     string  `json:"color"`
}

type frameJSON struct {
	Revision uint64       `json:"revision"`
	Bounds   boundsJSON   `json:"bounds"`
	Aspect   float64      `json:"aspect"`
	Cols     int          `json:"cols"`
	Rows     int          `json:"rows"`
	Max      float64      `json:"max"`
	Samples  []sampleJSON `json:"samples"`
	Arrows   []arrowJSON  `json:"arrows,omitempty"`
}

func toPointJSON(p efield.Point) pointJSON { return pointJSON{X: p.X, Y: p.Y} }

func newFrameJSON(f *efield.Frame, arrows bool) frameJSON {
	out := frameJSON{
		Revision: f.Revision,
		Bounds:   boundsJSON{TopLeft: toPointJSON(f.Bounds.TopLeft), BottomRight: toPointJSON(f.Bounds.BottomRight)},
		Aspect:   f.Aspect,
		Samples:  []sampleJSON{},
	}
	if g := f.Grid; g != nil {
		out.Cols, out.Rows, out.Max = g.Cols, g.Rows, g.Max()
		out.Samples = make([]sampleJSON, 0, g.Len())
		for i := range g.Cols {
			for j := range g.Rows {
				s := g.At(i, j)
				out.Samples = append(out.Samples, sampleJSON{
					I: i, J: j,
					X: s.Pos.X, Y: s.Pos.Y,
					FieldX: s.FieldX, FieldY: s.FieldY, Net: s.Net,
				})
			}
		}
	}
	if arrows {
		for _, a := range f.Arrows {
			out.Arrows = append(out.Arrows, arrowJSON{
				X: a.Pos.X, Y: a.Pos.Y,
				Angle: a.Angle, Length: a.Length, Magnitude: a.Magnitude,
				Color: a.Color.Hex(),
			})
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSampleCmd(o *options) *cobra.Command {
	var (
		aspect float64
		arrows bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample the field on the arrow grid and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scene, err := o.scene()
			if err != nil {
				return err
			}
			defer scene.Close()

			bounds, err := o.viewBounds(scene.Window())
			if err != nil {
				return err
			}
			frame, err := scene.BuildFrame(cmd.Context(), bounds, aspect)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, func(w io.Writer) error {
				return writeJSON(w, newFrameJSON(frame, arrows))
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&aspect, "aspect", 1, "width/height ratio of the target view")
	f.BoolVar(&arrows, "arrows", false, "include the arrows built from the samples")
	f.StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
