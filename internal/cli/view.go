package cli

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/efield"
	"github.com/gogpu/efield/internal/termview"
)

func newViewCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Edit charges and watch the field in the terminal",
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

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			// The terminal owns stderr while the editor runs.
			efield.SetLogger(nil)

			err = termview.New(screen, scene, bounds).Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
