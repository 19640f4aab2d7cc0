package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/internal/config"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns [files...]",
		Short: "List the columns of one or more data sets",
		Long: `Columns lists the columns of each data set with their type and the
number of missing values. Columns marked as default are plotted when no
columns are selected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			datasets := make([]config.Dataset, 0, len(args)+len(cfg.Datasets))
			for _, path := range args {
				datasets = append(datasets, config.Dataset{Path: path})
			}
			datasets = append(datasets, cfg.Datasets...)
			if len(datasets) == 0 {
				return fmt.Errorf("no data sets given")
			}

			frames, err := loadAll(ctx, datasets, GetLogger(ctx))
			if err != nil {
				return err
			}
			for i, nf := range frames {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				renderColumns(cmd.OutOrStdout(), nf, cfg.Figure.DateFormat)
			}
			return nil
		},
	}
}

// renderColumns writes the column table of nf to w.
func renderColumns(w io.Writer, nf tsplot.NamedFrame, dateFormat string) {
	df := nf.Frame
	span := "empty"
	if df.N > 0 {
		span = fmt.Sprintf("%s .. %s", df.Index[0].Format(dateFormat), df.Index[df.N-1].Format(dateFormat))
	}
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%s: %d rows, %s", nf.Name, df.N, span)))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Column", "Type", "Missing", "Range", "Default"})
	for i, name := range df.FieldNames() {
		f := df.Columns[name]
		scale := tsplot.NewScale(f)
		scale.Train(f)
		def := ""
		if f.Type.Numeric() {
			def = "yes"
		}
		t.AppendRow(table.Row{i + 1, name, f.Type.String(), scale.Missing, scale.Range(f), def})
	}
	t.Render()
}
