package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type equationJSON struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Magnitude   string `json:"magnitude"`
	X           string `json:"x"`
	Y           string `json:"y"`
}

func newEquationsCmd(o *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "equations",
		Short: "Print the symbolic field equations of every charge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			scene, err := o.scene()
			if err != nil {
				return err
			}
			defer scene.Close()

			eqs, err := scene.BuildEquations(cmd.Context())
			if err != nil {
				return err
			}
			charges := scene.Window().Charges()

			rows := make([]equationJSON, len(eqs.Sets))
			for i, e := range eqs.Sets {
				rows[i] = equationJSON{
					Kind:        e.Kind.String(),
					Description: describe(charges[i]),
					Magnitude:   e.Magnitude.String(),
					X:           e.X.String(),
					Y:           e.Y.String(),
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(out, rows)
			}
			return writeEquations(out, rows)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func writeEquations(w io.Writer, rows []equationJSON) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no charges")
		return err
	}
	for i, r := range rows {
		if _, err := fmt.Fprintf(w, "#%d %s\n  |E| = %s\n  Ex  = %s\n  Ey  = %s\n",
			i+1, r.Description, r.Magnitude, r.X, r.Y); err != nil {
			return err
		}
	}
	return nil
}
