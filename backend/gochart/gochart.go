// Package gochart renders figures with github.com/wcharczuk/go-chart.
package gochart

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/display"
)

const DefaultDPI = 96

func init() {
	tsplot.RegisterBackend("gochart", func(cfg tsplot.BackendConfig) (tsplot.Backend, error) {
		d, err := display.New(cfg.Display, cfg.Output())
		if err != nil {
			return nil, err
		}
		return &Backend{Display: d, DPI: cfg.DPI, Logger: cfg.Logger}, nil
	})
}

// Backend draws figures as go-chart charts rendered to PNG.
type Backend struct {
	Display display.Display
	DPI     int
	Logger  *slog.Logger

	figures int
}

var _ tsplot.Backend = (*Backend)(nil)

func (b *Backend) dpi() int {
	if b.DPI <= 0 {
		return DefaultDPI
	}
	return b.DPI
}

func (b *Backend) NewFigure(width, height vg.Length) (tsplot.Figure, error) {
	dpi := float64(b.dpi())
	w, h := int(float64(width/vg.Inch)*dpi), int(float64(height/vg.Inch)*dpi)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid figure size %dpx x %dpx", w, h)
	}
	b.figures++
	return &figure{
		backend: b,
		n:       b.figures,
		chart: &chart.Chart{
			Width:  w,
			Height: h,
			DPI:    dpi,
		},
	}, nil
}

type figure struct {
	backend *Backend
	n       int
	chart   *chart.Chart
}

// strokeColor converts c to a go-chart color.
func strokeColor(c color.Color) drawing.Color {
	if c == nil {
		return chart.ColorBlue
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func (f *figure) Line(s tsplot.Series) error {
	if f.chart == nil {
		return tsplot.ErrFigureClosed
	}
	// go-chart cannot draw missing values; they are dropped.
	xs := make([]time.Time, 0, len(s.Values))
	ys := make([]float64, 0, len(s.Values))
	for i, y := range s.Values {
		if i >= len(s.Index) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, s.Index[i])
		ys = append(ys, y)
	}

	var dashes []float64
	for _, d := range s.Style.Type.Dashes(s.Style.Width) {
		dashes = append(dashes, float64(d))
	}
	style := chart.Style{
		StrokeColor:     strokeColor(s.Style.Color),
		StrokeWidth:     float64(s.Style.Width),
		StrokeDashArray: dashes,
	}
	switch len(xs) {
	case 0:
		// go-chart needs one visible value per chart; a lone point
		// without dot draws nothing.
		anchor := time.Unix(0, 0).UTC()
		if len(s.Index) > 0 {
			anchor = s.Index[0]
		}
		xs, ys = []time.Time{anchor}, []float64{0}
	case 1:
		style.DotColor = style.StrokeColor
		style.DotWidth = math.Max(2, float64(s.Style.Width))
	}
	f.chart.Series = append(f.chart.Series, chart.TimeSeries{
		Name:    s.Name,
		XValues: xs,
		YValues: ys,
		Style:   style,
	})
	if s.DateFormat != "" {
		f.chart.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(s.DateFormat)
	}
	if len(s.Levels) > 0 {
		ticks := make([]chart.Tick, len(s.Levels))
		for i, l := range s.Levels {
			ticks[i] = chart.Tick{Value: float64(i), Label: l}
		}
		f.chart.YAxis.Ticks = ticks
	}
	return nil
}

func (f *figure) Title(text string) {
	if f.chart != nil {
		f.chart.Title = text
	}
}

func (f *figure) XLabel(text string) {
	if f.chart != nil {
		f.chart.XAxis.Name = text
	}
}

func (f *figure) YLabel(text string) {
	if f.chart != nil {
		f.chart.YAxis.Name = text
	}
}

func (f *figure) TightLayout() {
	if f.chart == nil {
		return
	}
	f.chart.Background = chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}}
}

func (f *figure) Show() error {
	if f.chart == nil {
		return tsplot.ErrFigureClosed
	}
	f.padRanges()
	var buf bytes.Buffer
	if err := f.chart.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("cannot render figure %d: %w", f.n, err)
	}
	if f.backend.Logger != nil {
		f.backend.Logger.Debug("showing figure", "figure", f.n, "bytes", buf.Len())
	}
	return f.backend.Display.Show(fmt.Sprintf("figure-%d.png", f.n), buf.Bytes())
}

// padRanges widens axes spanning a single value, which go-chart cannot
// scale: the x axis to one day around it, the y axis to +/-1.
func (f *figure) padRanges() {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range f.chart.Series {
		ts, ok := s.(chart.TimeSeries)
		if !ok {
			continue
		}
		for i, x := range ts.XValues {
			fx := chart.TimeToFloat64(x)
			xmin, xmax = math.Min(xmin, fx), math.Max(xmax, fx)
			ymin, ymax = math.Min(ymin, ts.YValues[i]), math.Max(ymax, ts.YValues[i])
		}
	}
	if xmin > xmax {
		return
	}
	if xmin == xmax && f.chart.XAxis.Range == nil {
		half := float64(12 * time.Hour)
		f.chart.XAxis.Range = &chart.ContinuousRange{Min: xmin - half, Max: xmax + half}
	}
	if ymin == ymax && f.chart.YAxis.Range == nil && len(f.chart.YAxis.Ticks) == 0 {
		f.chart.YAxis.Range = &chart.ContinuousRange{Min: ymin - 1, Max: ymax + 1}
	}
}

func (f *figure) Close() error {
	f.chart = nil
	return nil
}
