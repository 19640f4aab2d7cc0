// Package cli provides the command-line interface of tsplot.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/internal/config"

	// Register the backends.
	_ "github.com/vdobler/tsplot/backend/gochart"
	_ "github.com/vdobler/tsplot/backend/gonum"
	_ "github.com/vdobler/tsplot/backend/term"
)

// Version information (set at build time).
var Version = "0.1.0"

// configKey is used to store the config in the command context.
type configKey struct{}

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "tsplot",
		Short: "Plot the columns of time series data sets",
		Long: `tsplot draws one chart per column of time indexed data sets.

Data sets are CSV, Arrow, Parquet or JSON files or SQL queries against
DuckDB or SQLite. Charts are shown inline in the terminal.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./tsplot.yaml)")
	pf.StringP("backend", "b", "", "Rendering backend (gonum|gochart|term|record)")
	pf.IntP("max-plots", "n", tsplot.DefaultMaxPlots, "Maximum number of charts per data set")
	pf.String("display", "", "Inline image protocol (iterm|kitty)")
	pf.Int("dpi", 0, "Resolution of rendered images")
	pf.Float64("width", 0, "Figure width in inches")
	pf.Float64("height", 0, "Figure height in inches")
	pf.String("date-format", "", "Layout of the date tick labels")
	pf.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return tsplot.Backends(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewPlotCommand())
	rootCmd.AddCommand(NewColumnsCommand())
	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	cfg, err := config.Load("", nil)
	if err != nil {
		return &config.Config{Backend: "gonum", MaxPlots: tsplot.DefaultMaxPlots}
	}
	return cfg
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tsplot v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backends: %v\n", tsplot.Backends())
		},
	}
}
