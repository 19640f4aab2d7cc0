package tsplot

import "fmt"

// DateLabel labels the horizontal axis of every time series chart.
const DateLabel = "Date"

// DefaultTitle is the title of a chart of column if none is given.
func DefaultTitle(column string) string {
	return fmt.Sprintf("Time Series of %s", column)
}

// GeomLine is the geom of a time series chart: the values of one column
// connected by a line in index order.
type GeomLine struct {
	Style      LineStyle
	DateFormat string
}

// Construct looks up column in df and returns the grobs of its chart in
// drawing order. An empty title selects DefaultTitle.
// Nothing is constructed if column is missing.
func (g GeomLine) Construct(df *DataFrame, column, title string) ([]Grob, error) {
	f, err := df.Column(column)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = DefaultTitle(column)
	}

	line := GrobLine{
		Series: Series{
			Name:       column,
			Index:      df.Index,
			Values:     f.Data,
			Levels:     f.Levels(),
			Style:      g.Style,
			DateFormat: g.DateFormat,
		},
	}
	return []Grob{
		line,
		GrobTitle{Text: title},
		GrobLabel{Axis: "x", Text: DateLabel},
		GrobLabel{Axis: "y", Text: column},
	}, nil
}
