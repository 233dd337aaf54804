// Package config loads efield's command-line configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gogpu/efield"
	"github.com/gogpu/efield/render"
)

// EnvPrefix prefixes environment overrides, e.g. EFIELD_GRAPH_RESOLUTION.
const EnvPrefix = "EFIELD"

// Config holds the whole configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Graph  GraphConfig  `mapstructure:"graph" yaml:"graph"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig configures the zap logger and its optional rotating file.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// GraphConfig holds the sampling and display knobs.
type GraphConfig struct {
	Resolution     int     `mapstructure:"resolution" yaml:"resolution"`
	Rounding       int     `mapstructure:"rounding" yaml:"rounding"`
	MaxArrowLength float64 `mapstructure:"max_arrow_length" yaml:"max_arrow_length"`
	AspectLocked   bool    `mapstructure:"aspect_locked" yaml:"aspect_locked"`
	// Workers is the number of sampling goroutines; 0 uses GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// RenderConfig controls PNG output.
type RenderConfig struct {
	Width      int     `mapstructure:"width" yaml:"width"`
	Height     int     `mapstructure:"height" yaml:"height"`
	Legend     bool    `mapstructure:"legend" yaml:"legend"`
	Background string  `mapstructure:"background" yaml:"background"`
	FontSize   float64 `mapstructure:"font_size" yaml:"font_size"`
}

// Settings converts the graph section into library settings.
func (g GraphConfig) Settings() efield.Settings {
	return efield.Settings{
		Resolution:     g.Resolution,
		Rounding:       g.Rounding,
		MaxArrowLength: g.MaxArrowLength,
		AspectLocked:   g.AspectLocked,
	}
}

// Options converts the render section into render options.
func (r RenderConfig) Options() (render.Options, error) {
	bg, err := render.ParseHex(r.Background)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Width:      r.Width,
		Height:     r.Height,
		Background: bg,
		Legend:     r.Legend,
		FontSize:   r.FontSize,
	}, nil
}

// NewDefaultConfig returns the configuration built from defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "efield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	// -- Graph --
	d := efield.DefaultSettings()
	v.SetDefault("graph.resolution", d.Resolution)
	v.SetDefault("graph.rounding", d.Rounding)
	v.SetDefault("graph.max_arrow_length", d.MaxArrowLength)
	v.SetDefault("graph.aspect_locked", d.AspectLocked)
	v.SetDefault("graph.workers", 0)

	// -- Render --
	r := render.DefaultOptions()
	v.SetDefault("render.width", r.Width)
	v.SetDefault("render.height", r.Height)
	v.SetDefault("render.legend", r.Legend)
	v.SetDefault("render.background", "#ffffff")
	v.SetDefault("render.font_size", r.FontSize)
}

// BindEnv makes every key overridable through EFIELD_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks every section and reports all problems found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Logger.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format))
	}

	if err := c.Graph.Settings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("graph: %w", err))
	}
	if c.Graph.Workers < 0 {
		errs = append(errs, errors.New("graph.workers must not be negative"))
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render.width and render.height must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if _, err := render.ParseHex(c.Render.Background); err != nil {
		errs = append(errs, fmt.Errorf("render.background: %w", err))
	}

	return errors.Join(errs...)
}
