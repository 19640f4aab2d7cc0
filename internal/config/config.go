// Package config loads the tsplot configuration from defaults, the
// tsplot.yaml file, TSPLOT_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/source"
)

// ConfigFileNames are looked up in the working directory if no config
// file is given explicitly.
var ConfigFileNames = []string{"tsplot.yaml", "tsplot.yml"}

// EnvPrefix prefixes environment variables. Nested keys use a double
// underscore: TSPLOT_FIGURE__WIDTH=10 sets figure.width.
const EnvPrefix = "TSPLOT_"

// Config holds all configuration options.
type Config struct {
	Backend  string       `koanf:"backend"`
	MaxPlots int          `koanf:"max_plots"`
	Verbose  bool         `koanf:"verbose"`
	Display  string       `koanf:"display"`
	Figure   FigureConfig `koanf:"figure"`
	Line     LineConfig   `koanf:"line"`
	Term     TermConfig   `koanf:"term"`
	Datasets []Dataset    `koanf:"datasets"`

	// File is the config file used, empty if none.
	File string `koanf:"-"`
}

// FigureConfig sizes the figures.
type FigureConfig struct {
	Width      float64 `koanf:"width"`  // inches
	Height     float64 `koanf:"height"` // inches
	DPI        int     `koanf:"dpi"`
	DateFormat string  `koanf:"date_format"`
}

// LineConfig styles the line of a time series.
type LineConfig struct {
	Color string  `koanf:"color"`
	Width float64 `koanf:"width"` // points
	Type  string  `koanf:"type"`
}

// TermConfig sizes the charts of the term backend, in characters.
type TermConfig struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// Dataset declares a data frame to plot.
type Dataset struct {
	Name       string   `koanf:"name"`
	Path       string   `koanf:"path"`
	Driver     string   `koanf:"driver"`
	DSN        string   `koanf:"dsn"`
	Query      string   `koanf:"query"`
	Index      string   `koanf:"index"`
	DateFormat string   `koanf:"date_format"`
	Delimiter  string   `koanf:"delimiter"`
	Columns    []string `koanf:"columns"`
}

// Source returns the source description of d.
func (d Dataset) Source() source.Dataset {
	src := source.Dataset{
		Name:       d.Name,
		Path:       d.Path,
		Driver:     d.Driver,
		DSN:        d.DSN,
		Query:      d.Query,
		Index:      d.Index,
		DateFormat: d.DateFormat,
	}
	if d.Delimiter != "" {
		src.Delimiter, _ = utf8.DecodeRuneInString(d.Delimiter)
	}
	return src
}

// Defaults are the lowest priority configuration layer.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"backend":            "gonum",
		"max_plots":          tsplot.DefaultMaxPlots,
		"verbose":            false,
		"display":            "iterm",
		"figure.width":       float64(tsplot.DefaultTheme.Width / vg.Inch),
		"figure.height":      float64(tsplot.DefaultTheme.Height / vg.Inch),
		"figure.dpi":         96,
		"figure.date_format": tsplot.DefaultTheme.DateFormat,
		"line.color":         "#1f77b4",
		"line.width":         1.5,
		"line.type":          "solid",
		"term.width":         100,
		"term.height":        20,
	}
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"dpi":         "figure.dpi",
	"width":       "figure.width",
	"height":      "figure.height",
	"date-format": "figure.date_format",
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables: TSPLOT_MAX_PLOTS -> max_plots
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns explicit or the first existing default config
// file, or "" if there is none.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate checks c for values no figure can be drawn with.
func (c *Config) Validate() error {
	var errs []error
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		errs = append(errs, fmt.Errorf("figure size must be positive, got %gin x %gin",
			c.Figure.Width, c.Figure.Height))
	}
	if c.MaxPlots < 0 {
		errs = append(errs, fmt.Errorf("max_plots must not be negative, got %d", c.MaxPlots))
	}
	if c.Line.Type != "" && tsplot.String2LineType(c.Line.Type) == tsplot.BlankLine && c.Line.Type != "blank" && c.Line.Type != "0" {
		errs = append(errs, fmt.Errorf("unknown line type %q", c.Line.Type))
	}
	for i, d := range c.Datasets {
		if _, err := d.Source().Kind(); err != nil {
			errs = append(errs, fmt.Errorf("datasets[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Theme returns the plotting theme described by c.
func (c *Config) Theme() tsplot.Theme {
	theme := tsplot.DefaultTheme
	theme.Width = vg.Length(c.Figure.Width) * vg.Inch
	theme.Height = vg.Length(c.Figure.Height) * vg.Inch
	if c.Figure.DateFormat != "" {
		theme.DateFormat = c.Figure.DateFormat
	}
	if c.Line.Color != "" {
		theme.Line.Color = tsplot.String2Color(c.Line.Color)
	}
	if c.Line.Width > 0 {
		theme.Line.Width = vg.Points(c.Line.Width)
	}
	if c.Line.Type != "" {
		theme.Line.Type = tsplot.String2LineType(c.Line.Type)
	}
	return theme
}

// BackendConfig returns the configuration of the backend factories.
func (c *Config) BackendConfig(out io.Writer, logger *slog.Logger) tsplot.BackendConfig {
	return tsplot.BackendConfig{
		Out:        out,
		Display:    c.Display,
		DPI:        c.Figure.DPI,
		TermWidth:  c.Term.Width,
		TermHeight: c.Term.Height,
		Logger:     logger,
	}
}

// Selection maps dataset names to their explicit column selections.
func (c *Config) Selection() map[string][]string {
	sel := make(map[string][]string)
	for _, d := range c.Datasets {
		if d.Columns != nil {
			sel[d.Source().DisplayName()] = d.Columns
		}
	}
	return sel
}
