package tsplot

import "gonum.org/v1/plot/vg"

// Theme controls the look of every figure a Plotter draws.
type Theme struct {
	// Width and Height of the figure canvas. Time series are best
	// viewed wide.
	Width, Height vg.Length

	Line LineStyle

	// DateFormat is used for the tick labels of the Date axis.
	DateFormat string
}

var DefaultTheme = Theme{
	Width:  12 * vg.Inch,
	Height: 4 * vg.Inch,
	Line: LineStyle{
		Color: String2Color("#1f77b4"),
		Width: vg.Points(1.5),
		Type:  SolidLine,
	},
	DateFormat: "2006-01-02",
}

// merged returns t with unset values taken from DefaultTheme.
func (t Theme) merged() Theme {
	if t.Width <= 0 {
		t.Width = DefaultTheme.Width
	}
	if t.Height <= 0 {
		t.Height = DefaultTheme.Height
	}
	if t.Line.Color == nil {
		t.Line = DefaultTheme.Line
	}
	if t.Line.Width <= 0 {
		t.Line.Width = DefaultTheme.Line.Width
	}
	if t.DateFormat == "" {
		t.DateFormat = DefaultTheme.DateFormat
	}
	return t
}
