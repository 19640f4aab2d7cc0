package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/internal/config"
	"github.com/vdobler/tsplot/source"
)

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	var (
		columns []string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "plot [files...]",
		Short: "Plot the columns of one or more data sets",
		Long: `Plot draws one time series chart per column of each data set.

Data sets are the files given as arguments followed by the datasets of
the config file. Without --column all numeric and boolean columns are
plotted, at most --max-plots per data set.`,
		Example: `  tsplot plot sales.csv
  tsplot plot -c revenue -c units sales.csv
  tsplot plot --backend term -n 3 metrics.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			logger := GetLogger(ctx)

			datasets := make([]config.Dataset, 0, len(args)+len(cfg.Datasets))
			for _, path := range args {
				datasets = append(datasets, config.Dataset{Path: path})
			}
			datasets = append(datasets, cfg.Datasets...)
			if len(datasets) == 0 {
				return fmt.Errorf("no data sets given")
			}

			frames, err := loadAll(ctx, datasets, logger)
			if err != nil {
				return err
			}

			backend, err := tsplot.NewBackend(cfg.Backend, cfg.BackendConfig(cmd.OutOrStdout(), logger))
			if err != nil {
				return err
			}
			p := &tsplot.Plotter{
				Backend: backend,
				Theme:   cfg.Theme(),
				Out:     cmd.OutOrStdout(),
				Logger:  logger,
			}

			if title != "" {
				if len(frames) != 1 || len(columns) != 1 {
					return fmt.Errorf("--title needs exactly one data set and one column")
				}
				return p.TimeSeries(frames[0].Frame, columns[0], title)
			}

			if len(frames) == 1 {
				sel := columns
				if sel == nil {
					sel = cfg.Selection()[frames[0].Name]
				}
				return p.AllTimeSeries(frames[0].Frame, sel, cfg.MaxPlots)
			}

			selection := cfg.Selection()
			if columns != nil {
				for _, nf := range frames {
					if _, ok := selection[nf.Name]; !ok {
						selection[nf.Name] = columns
					}
				}
			}
			return p.AllDataFrames(frames, selection, cfg.MaxPlots)
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "column", "c", nil, "Column to plot (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title, needs a single data set and column")

	return cmd
}

// loadAll loads all datasets concurrently. The result keeps the order
// of datasets. Data set names must be unique.
func loadAll(ctx context.Context, datasets []config.Dataset, logger *slog.Logger) ([]tsplot.NamedFrame, error) {
	frames := make([]tsplot.NamedFrame, len(datasets))
	eg, egctx := errgroup.WithContext(ctx)
	for i, d := range datasets {
		i, src := i, d.Source()
		eg.Go(func() error {
			df, err := source.Load(egctx, src)
			if err != nil {
				return fmt.Errorf("cannot load %s: %w", src.DisplayName(), err)
			}
			logger.Debug("loaded data set", "name", src.DisplayName(), "rows", df.N, "columns", len(df.Columns))
			frames[i] = tsplot.NamedFrame{Name: src.DisplayName(), Frame: df}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	seen := tsplot.NewStringSet()
	for _, nf := range frames {
		if !seen.Add(nf.Name) {
			return nil, fmt.Errorf("duplicate data set name %q, set name: in the config", nf.Name)
		}
	}
	return frames, nil
}
