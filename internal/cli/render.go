package cli

import (
	"image"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gogpu/efield/internal/observability"
	"github.com/gogpu/efield/render"
)

func newRenderCmd(o *options, v *viper.Viper) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the field as a PNG image",
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
			opts, err := o.cfg.Render.Options()
			if err != nil {
				return err
			}

			vp := render.NewViewport(bounds, image.Rect(0, 0, opts.Width, opts.Height), scene.Settings().AspectLocked)
			frame, err := scene.BuildFrame(cmd.Context(), bounds, vp.Aspect())
			if err != nil {
				return err
			}
			img, err := render.Image(frame, opts)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, func(w io.Writer) error {
				return render.EncodePNG(w, img)
			}); err != nil {
				return err
			}

			observability.GetLogger().Info("rendered field",
				zap.String("output", output),
				zap.Int("charges", scene.Window().Len()),
				zap.Int("arrows", len(frame.Arrows)),
				zap.Int("width", opts.Width),
				zap.Int("height", opts.Height))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "efield.png", "output file, - for stdout")
	f.Int("width", 0, "image width in pixels")
	f.Int("height", 0, "image height in pixels")
	f.Bool("legend", true, "draw the magnitude legend")
	f.String("background", "", "background colour as #rrggbb or #rrggbbaa")
	for key, name := range map[string]string{
		"render.width":      "width",
		"render.height":     "height",
		"render.legend":     "legend",
		"render.background": "background",
	} {
		_ = v.BindPFlag(key, f.Lookup(name))
	}
	return cmd
}

// writeOutput hands write either the command's stdout, for "-", or a newly
// created file at path.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
