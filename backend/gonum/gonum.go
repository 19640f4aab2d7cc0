// Package gonum renders figures with gonum.org/v1/plot and shows them
// on an inline image display.
package gonum

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/vdobler/tsplot"
	"github.com/vdobler/tsplot/display"
)

// DefaultDPI is used if the backend has no DPI set.
const DefaultDPI = 96

func init() {
	tsplot.RegisterBackend("gonum", func(cfg tsplot.BackendConfig) (tsplot.Backend, error) {
		d, err := display.New(cfg.Display, cfg.Output())
		if err != nil {
			return nil, err
		}
		return &Backend{Display: d, DPI: cfg.DPI, Logger: cfg.Logger}, nil
	})
}

// Backend draws figures as gonum plots rendered to PNG.
type Backend struct {
	Display display.Display
	DPI     int
	Logger  *slog.Logger

	figures int
}

var _ tsplot.Backend = (*Backend)(nil)

func (b *Backend) NewFigure(width, height vg.Length) (tsplot.Figure, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid figure size %v x %v", width, height)
	}
	b.figures++
	return &figure{
		backend: b,
		n:       b.figures,
		plot:    plot.New(),
		width:   width,
		height:  height,
	}, nil
}

type figure struct {
	backend       *Backend
	n             int
	plot          *plot.Plot
	width, height vg.Length
}

func (f *figure) Line(s tsplot.Series) error {
	if f.plot == nil {
		return tsplot.ErrFigureClosed
	}
	p := f.plot
	p.X.Tick.Marker = plot.TimeTicks{Format: s.DateFormat}
	if len(s.Levels) > 0 {
		ticks := make([]plot.Tick, len(s.Levels))
		for i, l := range s.Levels {
			ticks[i] = plot.Tick{Value: float64(i), Label: l}
		}
		p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}

	for _, seg := range segments(s) {
		if len(seg) == 1 {
			// A lone value between missing ones would be invisible as a line.
			sc, err := plotter.NewScatter(seg)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = s.Style.Color
			sc.GlyphStyle.Radius = s.Style.Width
			p.Add(sc)
			continue
		}
		line, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		line.LineStyle.Color = s.Style.Color
		line.LineStyle.Width = s.Style.Width
		line.LineStyle.Dashes = s.Style.Type.Dashes(s.Style.Width)
		p.Add(line)
	}
	return nil
}

// segments splits s at missing values into runs of plottable points.
func segments(s tsplot.Series) []plotter.XYs {
	var segs []plotter.XYs
	var cur plotter.XYs
	n := len(s.Values)
	if len(s.Index) < n {
		n = len(s.Index)
	}
	for i := 0; i < n; i++ {
		y := s.Values[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			if len(cur) > 0 {
				segs = append(segs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: tsplot.SecondsOf(s.Index[i]), Y: y})
	}
	if len(cur) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

func (f *figure) Title(text string) {
	if f.plot != nil {
		f.plot.Title.Text = text
	}
}

func (f *figure) XLabel(text string) {
	if f.plot != nil {
		f.plot.X.Label.Text = text
	}
}

func (f *figure) YLabel(text string) {
	if f.plot != nil {
		f.plot.Y.Label.Text = text
	}
}

func (f *figure) TightLayout() {
	if f.plot == nil {
		return
	}
	f.plot.X.Padding = vg.Points(2)
	f.plot.Y.Padding = vg.Points(2)
	f.plot.Title.Padding = vg.Points(4)
}

func (f *figure) Show() error {
	if f.plot == nil {
		return tsplot.ErrFigureClosed
	}
	img, err := f.render()
	if err != nil {
		return err
	}
	if f.backend.Logger != nil {
		f.backend.Logger.Debug("showing figure", "figure", f.n, "bytes", len(img))
	}
	return f.backend.Display.Show(fmt.Sprintf("figure-%d.png", f.n), img)
}

// render encodes the plot as PNG.
func (f *figure) render() ([]byte, error) {
	dpi := f.backend.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(f.width, f.height), vgimg.UseDPI(dpi))
	f.plot.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("cannot encode figure %d: %w", f.n, err)
	}
	return buf.Bytes(), nil
}

func (f *figure) Close() error {
	f.plot = nil
	return nil
}
