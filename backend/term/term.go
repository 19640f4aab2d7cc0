// Package term draws figures as character line charts with
// github.com/buger/goterm.
package term

import (
	"fmt"
	"io"
	"math"
	"strings"

	tm "github.com/buger/goterm"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/tsplot"
)

// Default chart size in characters.
const (
	DefaultWidth  = 100
	DefaultHeight = 20
)

func init() {
	tsplot.RegisterBackend("term", func(cfg tsplot.BackendConfig) (tsplot.Backend, error) {
		return &Backend{Out: cfg.Output(), Width: cfg.TermWidth, Height: cfg.TermHeight}, nil
	})
}

// Backend draws charts of Width x Height characters to Out. The figure
// size requested by the plotter only determines the aspect ratio if
// Height is unset.
type Backend struct {
	Out           io.Writer
	Width, Height int
}

var _ tsplot.Backend = (*Backend)(nil)

func (b *Backend) NewFigure(width, height vg.Length) (tsplot.Figure, error) {
	w, h := b.Width, b.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
		if width > 0 && height > 0 {
			// Characters are about twice as high as wide.
			h = int(float64(w) * float64(height/width) / 2)
		}
	}
	if h < 5 {
		h = 5
	}
	return &figure{out: b.Out, width: w, height: h}, nil
}

type figure struct {
	out           io.Writer
	width, height int

	series         []tsplot.Series
	title          string
	xlabel, ylabel string
	closed         bool
}

func (f *figure) Line(s tsplot.Series) error {
	if f.closed {
		return tsplot.ErrFigureClosed
	}
	f.series = append(f.series, s)
	return nil
}

func (f *figure) Title(text string)  { f.title = text }
func (f *figure) XLabel(text string) { f.xlabel = text }
func (f *figure) YLabel(text string) { f.ylabel = text }

// TightLayout is a no-op: character charts have no padding.
func (f *figure) TightLayout() {}

func (f *figure) Show() error {
	if f.closed {
		return tsplot.ErrFigureClosed
	}
	var sb strings.Builder
	if f.title != "" {
		pad := (f.width - len(f.title)) / 2
		if pad < 0 {
			pad = 0
		}
		sb.WriteString(strings.Repeat(" ", pad) + f.title + "\n")
	}

	for _, s := range f.series {
		data, rows := table(s)
		if rows < 2 {
			fmt.Fprintf(&sb, "%s: not enough data to draw (%d values)\n", s.Name, rows)
			continue
		}
		chart := tm.NewLineChart(f.width, f.height)
		sb.WriteString(chart.Draw(data))
		if len(s.Index) > 0 {
			fmt.Fprintf(&sb, "  %s: days since %s\n", f.xlabel, s.Index[0].Format(dateFormat(s)))
		}
	}
	if f.ylabel != "" {
		fmt.Fprintf(&sb, "  y: %s\n", f.ylabel)
	}

	_, err := io.WriteString(f.out, sb.String())
	return err
}

func (f *figure) Close() error {
	f.closed = true
	f.series = nil
	return nil
}

func dateFormat(s tsplot.Series) string {
	if s.DateFormat == "" {
		return tsplot.DefaultTheme.DateFormat
	}
	return s.DateFormat
}

// table converts s to a goterm data table; x is measured in days since
// the first index value. Missing values are dropped.
func table(s tsplot.Series) (*tm.DataTable, int) {
	data := new(tm.DataTable)
	data.AddColumn("Date")
	data.AddColumn(s.Name)
	if len(s.Index) == 0 {
		return data, 0
	}
	origin := s.Index[0]
	rows := 0
	for i, y := range s.Values {
		if i >= len(s.Index) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		data.AddRow(s.Index[i].Sub(origin).Hours()/24, y)
		rows++
	}
	return data, rows
}
