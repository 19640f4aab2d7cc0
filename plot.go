package tsplot

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// DefaultMaxPlots is the number of columns plotted per data frame if no
// positive limit is given.
const DefaultMaxPlots = 10

// Plotter draws time series charts of data frames through a Backend.
// Plotting is strictly sequential: every chart is shown before the
// next one is started.
type Plotter struct {
	Backend Backend

	Theme Theme

	// Out receives the notices (limit reached, data frame separators).
	Out io.Writer

	Logger *slog.Logger
}

// NewPlotter returns a plotter drawing to backend with the default theme,
// notices to os.Stdout and no logging.
func NewPlotter(backend Backend) *Plotter {
	return &Plotter{
		Backend: backend,
		Theme:   DefaultTheme,
		Out:     os.Stdout,
	}
}

// NamedFrame is one entry of an ordered collection of data frames.
type NamedFrame struct {
	Name  string
	Frame *DataFrame
}

// Collection turns frames into a collection ordered by name.
func Collection(frames map[string]*DataFrame) []NamedFrame {
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)
	coll := make([]NamedFrame, len(names))
	for i, name := range names {
		coll[i] = NamedFrame{Name: name, Frame: frames[name]}
	}
	return coll
}

// Noticef prints an informational line to p.Out.
func (p *Plotter) Noticef(f string, args ...interface{}) {
	if !strings.HasSuffix(f, "\n") {
		f = f + "\n"
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, f, args...)
}

func (p *Plotter) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

// TimeSeries draws one chart of column in df against the index of df.
// An empty title selects DefaultTitle(column).
//
// The error is a *ColumnError if df has no such column; the backend is
// not touched in this case.
func (p *Plotter) TimeSeries(df *DataFrame, column, title string) error {
	theme := p.Theme.merged()
	geom := GeomLine{Style: theme.Line, DateFormat: theme.DateFormat}
	grobs, err := geom.Construct(df, column, title)
	if err != nil {
		return err
	}

	p.logger().Debug("plotting time series", "frame", df.Name, "column", column, "rows", df.N)
	return p.withFigure(theme, func(fig Figure) error {
		for _, g := range grobs {
			if err := g.Draw(fig); err != nil {
				return err
			}
		}
		fig.TightLayout()
		return nil
	})
}

// withFigure acquires a figure, lets draw fill it, shows it and
// releases it again, even if drawing or showing fails.
func (p *Plotter) withFigure(theme Theme, draw func(fig Figure) error) (err error) {
	fig, err := p.Backend.NewFigure(theme.Width, theme.Height)
	if err != nil {
		return fmt.Errorf("cannot create figure: %w", err)
	}
	defer func() {
		if cerr := fig.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close figure: %w", cerr)
		}
	}()

	if err := draw(fig); err != nil {
		return err
	}
	return fig.Show()
}

// AllTimeSeries draws one chart per selected column of df, in order.
// A nil columns selects all Int, Float and Bool columns in native
// order; an explicit selection is used as given, whatever the column
// types. At most maxPlots charts are drawn (DefaultMaxPlots if
// maxPlots <= 0); surplus columns are skipped after a notice.
func (p *Plotter) AllTimeSeries(df *DataFrame, columns []string, maxPlots int) error {
	if maxPlots <= 0 {
		maxPlots = DefaultMaxPlots
	}
	if columns == nil {
		columns = df.NumericFields()
	}

	for i, col := range columns {
		if i >= maxPlots {
			p.Noticef("Only plotting first %d columns.", maxPlots)
			p.logger().Debug("plot limit reached", "frame", df.Name, "skipped", len(columns)-maxPlots)
			break
		}
		if err := p.TimeSeries(df, col, ""); err != nil {
			return err
		}
	}
	return nil
}

// AllDataFrames calls AllTimeSeries for every data frame of frames in
// order, each preceded by a separator notice naming the data frame.
// columns optionally maps data frame names to explicit column
// selections; data frames without entry get the default selection.
// maxPlots applies to each data frame individually.
// The first error stops processing.
func (p *Plotter) AllDataFrames(frames []NamedFrame, columns map[string][]string, maxPlots int) error {
	if len(columns) > 0 {
		known := NewStringSet()
		for _, nf := range frames {
			known.Add(nf.Name)
		}
		selected := make([]string, 0, len(columns))
		for name := range columns {
			selected = append(selected, name)
		}
		sort.Strings(selected)
		for _, name := range known.Missing(selected) {
			p.logger().Debug("column selection for unknown data frame ignored", "frame", name)
		}
	}

	for _, nf := range frames {
		p.Noticef("\n--- %s ---", nf.Name)
		if err := p.AllTimeSeries(nf.Frame, columns[nf.Name], maxPlots); err != nil {
			return err
		}
	}
	return nil
}
