// Package cli implements the efield command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gogpu/efield"
	"github.com/gogpu/efield/internal/config"
	"github.com/gogpu/efield/internal/observability"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// options is the state shared by every subcommand of one invocation.
type options struct {
	cfgFile      string
	bounds       string
	centerOrigin bool
	charges      chargeFlags

	cfg *config.Config
}

// NewRootCmd builds the command tree. Each call gets its own viper
// instance so commands can be executed repeatedly in one process.
func NewRootCmd() *cobra.Command {
	o := &options{}
	v := viper.New()

	root := &cobra.Command{
		Use:           "efield",
		Short:         "Sample and draw the electric field of 2D charge layouts.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.initialize(v); err != nil {
				return err
			}
			observability.GetLogger().Debug("starting efield",
				zap.String("version", Version),
				zap.String("command", cmd.Name()))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			observability.Sync()
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&o.cfgFile, "config", "c", "", "config file (default is ./efield.yaml)")
	pf.StringVar(&o.bounds, "bounds", "", "visible region as left,top,right,bottom (default fits the charges)")
	pf.BoolVar(&o.centerOrigin, "center-origin", false, "move the visible region so the origin is in the middle")
	pf.Int("resolution", efield.DefaultResolution, "arrows per row")
	pf.Int("rounding", efield.DefaultRounding, "decimal places kept in equations")
	pf.Bool("aspect-locked", true, "draw both axes at the same scale")
	pf.Int("workers", 0, "sampling goroutines, 0 uses GOMAXPROCS")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	for key, name := range map[string]string{
		"graph.resolution":    "resolution",
		"graph.rounding":      "rounding",
		"graph.aspect_locked": "aspect-locked",
		"graph.workers":       "workers",
		"logger.level":        "log-level",
	} {
		_ = v.BindPFlag(key, pf.Lookup(name))
	}
	o.charges.register(root)

	root.AddCommand(
		newRenderCmd(o, v),
		newSampleCmd(o),
		newEquationsCmd(o),
		newBoundsCmd(o),
		newViewCmd(o),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger.Core().Enabled(zap.ErrorLevel) {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "efield:", err)
		}
		return 1
	}
	return 0
}

// initialize reads the config file and environment, then sets up logging.
func (o *options) initialize(v *viper.Viper) error {
	config.SetDefaults(v)
	config.BindEnv(v)

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("efield")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	efield.SetLogger(observability.NewSlogLogger(observability.GetLogger()))
	return nil
}

// scene builds the window from the charge flags and wraps it in a scene.
// The caller must Close the scene.
func (o *options) scene() (*efield.Scene, error) {
	charges, err := o.charges.build()
	if err != nil {
		return nil, err
	}
	w, err := efield.NewWindow(charges...)
	if err != nil {
		return nil, err
	}
	return efield.NewScene(w, o.cfg.Graph.Settings(), o.cfg.Graph.Workers)
}

// viewBounds returns the region selected by --bounds and --center-origin,
// falling back to the region that fits w's charges.
func (o *options) viewBounds(w *efield.Window) (efield.GraphBounds, error) {
	b := w.DefaultBounds()
	if o.bounds != "" {
		v, err := parseFloats(o.bounds, 4)
		if err != nil {
			return efield.GraphBounds{}, fmt.Errorf("--bounds %q: %w", o.bounds, err)
		}
		b = efield.GraphBounds{TopLeft: efield.Pt(v[0], v[1]), BottomRight: efield.Pt(v[2], v[3])}
		if !b.Valid() {
			return efield.GraphBounds{}, fmt.Errorf("--bounds %q: %w", o.bounds, efield.ErrInvalidBounds)
		}
	}
	if o.centerOrigin {
		b = b.CenterOrigin()
	}
	return b, nil
}
