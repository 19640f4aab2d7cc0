package tsplot

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gonum.org/v1/plot/vg"
)

// Backend creates figures. Backends are opaque sinks for the draw
// instructions of a Plotter.
type Backend interface {
	// NewFigure acquires a fresh canvas of the given size. The caller
	// owns the figure and must Close it.
	NewFigure(width, height vg.Length) (Figure, error)
}

// Figure is one chart under construction.
type Figure interface {
	Line(s Series) error
	Title(text string)
	XLabel(text string)
	YLabel(text string)

	// TightLayout shrinks paddings so that title and labels fit.
	TightLayout()

	// Show flushes the figure to the display surface and blocks until
	// this is done.
	Show() error

	// Close releases the figure. It is safe to call Close more than once.
	Close() error
}

// Series is the data of one line: Values[i] is drawn at Index[i].
type Series struct {
	Name   string
	Index  []time.Time
	Values []float64

	// Levels labels the values of categorical data, Levels[v] is the
	// label of value v. Nil for numeric data.
	Levels []string

	Style LineStyle

	// DateFormat formats the tick labels of the index axis.
	DateFormat string
}

// -------------------------------------------------------------------------
// Grobs

// Grob is a graphical object which draws itself onto a figure.
type Grob interface {
	Draw(fig Figure) error
}

// GrobLine draws a time series.
type GrobLine struct {
	Series Series
}

func (line GrobLine) Draw(fig Figure) error {
	return fig.Line(line.Series)
}

// GrobTitle sets the figure title.
type GrobTitle struct {
	Text string
}

func (title GrobTitle) Draw(fig Figure) error {
	fig.Title(title.Text)
	return nil
}

// GrobLabel labels the x or y axis.
type GrobLabel struct {
	Axis string // "x" or "y"
	Text string
}

func (label GrobLabel) Draw(fig Figure) error {
	switch label.Axis {
	case "x":
		fig.XLabel(label.Text)
	case "y":
		fig.YLabel(label.Text)
	default:
		return fmt.Errorf("unknown axis %q", label.Axis)
	}
	return nil
}

// -------------------------------------------------------------------------
// Recorder

// Op names recorded by a Recorder.
const (
	OpFigure      = "figure"
	OpLine        = "line"
	OpTitle       = "title"
	OpXLabel      = "xlabel"
	OpYLabel      = "ylabel"
	OpTightLayout = "tight_layout"
	OpShow        = "show"
	OpClose       = "close"
)

// ErrFigureClosed is returned when drawing onto a closed figure.
var ErrFigureClosed = errors.New("figure already closed")

// Instruction is one recorded call.
type Instruction struct {
	Figure int // 1 for the first figure of a Recorder
	Op     string
	Text   string
	Series *Series

	Width, Height vg.Length
}

func (in Instruction) String() string {
	switch in.Op {
	case OpFigure:
		return fmt.Sprintf("fig %d: figure %.1fin x %.1fin", in.Figure, float64(in.Width/vg.Inch), float64(in.Height/vg.Inch))
	case OpLine:
		return fmt.Sprintf("fig %d: line %q (%d points)", in.Figure, in.Series.Name, len(in.Series.Values))
	case OpTitle, OpXLabel, OpYLabel:
		return fmt.Sprintf("fig %d: %s %q", in.Figure, in.Op, in.Text)
	}
	return fmt.Sprintf("fig %d: %s", in.Figure, in.Op)
}

// Recorder is a Backend which records the draw instructions instead of
// drawing them.
type Recorder struct {
	Instructions []Instruction

	// Out, if set, receives every instruction as a line of text.
	Out io.Writer

	// ShowErr, if set, is returned from every Show.
	ShowErr error

	figures int
}

var _ Backend = (*Recorder)(nil)

func (r *Recorder) NewFigure(width, height vg.Length) (Figure, error) {
	r.figures++
	fig := &recordedFigure{rec: r, n: r.figures}
	r.record(Instruction{Figure: fig.n, Op: OpFigure, Width: width, Height: height})
	return fig, nil
}

// Figures returns the number of figures created so far.
func (r *Recorder) Figures() int { return r.figures }

// Ops returns the op sequence of figure n.
func (r *Recorder) Ops(n int) []string {
	var ops []string
	for _, in := range r.Instructions {
		if in.Figure == n {
			ops = append(ops, in.Op)
		}
	}
	return ops
}

// Lines returns all recorded series in drawing order.
func (r *Recorder) Lines() []Series {
	var lines []Series
	for _, in := range r.Instructions {
		if in.Op == OpLine {
			lines = append(lines, *in.Series)
		}
	}
	return lines
}

func (r *Recorder) record(in Instruction) {
	r.Instructions = append(r.Instructions, in)
	if r.Out != nil {
		fmt.Fprintln(r.Out, in.String())
	}
}

type recordedFigure struct {
	rec    *Recorder
	n      int
	closed bool
}

func (f *recordedFigure) Line(s Series) error {
	if f.closed {
		return ErrFigureClosed
	}
	f.rec.record(Instruction{Figure: f.n, Op: OpLine, Series: &s})
	return nil
}

func (f *recordedFigure) Title(text string) {
	f.rec.record(Instruction{Figure: f.n, Op: OpTitle, Text: text})
}

func (f *recordedFigure) XLabel(text string) {
	f.rec.record(Instruction{Figure: f.n, Op: OpXLabel, Text: text})
}

func (f *recordedFigure) YLabel(text string) {
	f.rec.record(Instruction{Figure: f.n, Op: OpYLabel, Text: text})
}

func (f *recordedFigure) TightLayout() {
	f.rec.record(Instruction{Figure: f.n, Op: OpTightLayout})
}

func (f *recordedFigure) Show() error {
	if f.closed {
		return ErrFigureClosed
	}
	f.rec.record(Instruction{Figure: f.n, Op: OpShow})
	return f.rec.ShowErr
}

func (f *recordedFigure) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.rec.record(Instruction{Figure: f.n, Op: OpClose})
	return nil
}
