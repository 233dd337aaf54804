package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBoundsCmd(o *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Print the region that fits the charges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scene, err := o.scene()
			if err != nil {
				return err
			}
			defer scene.Close()

			b, err := o.viewBounds(scene.Window())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, boundsJSON{TopLeft: toPointJSON(b.TopLeft), BottomRight: toPointJSON(b.BottomRight)})
			}
			_, err = fmt.Fprintf(out, "top-left (%g, %g)  bottom-right (%g, %g)\n",
				b.TopLeft.X, b.TopLeft.Y, b.BottomRight.X, b.BottomRight.Y)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
