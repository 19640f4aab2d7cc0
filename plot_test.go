package tsplot

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

// frame returns a data frame over three days with the given columns.
func frame(t *testing.T, name string, cols ...string) *DataFrame {
	t.Helper()
	df := NewDataFrame(name, []time.Time{day(1), day(2), day(3)})
	for i, c := range cols {
		typ := Float
		switch {
		case strings.HasPrefix(c, "b"):
			typ = Bool
		case strings.HasPrefix(c, "i"):
			typ = Int
		case strings.HasPrefix(c, "s"):
			typ = String
		case strings.HasPrefix(c, "t"):
			typ = Time
		}
		f := NewField(3, typ, nil)
		for r := range f.Data {
			f.Data[r] = float64(i*10 + r)
		}
		if typ == String {
			for r := range f.Data {
				f.Data[r] = float64(df.Pool.Add(c + "-level"))
			}
		}
		require.NoError(t, df.Add(c, f))
	}
	return df
}

func newTestPlotter() (*Plotter, *Recorder, *bytes.Buffer) {
	out := &bytes.Buffer{}
	rec := &Recorder{Out: out}
	p := NewPlotter(rec)
	p.Out = out
	return p, rec, out
}

func TestTimeSeries(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "f1", "f2")

	require.NoError(t, p.TimeSeries(df, "f2", ""))

	assert.Equal(t, 1, rec.Figures())
	assert.Equal(t,
		[]string{OpFigure, OpLine, OpTitle, OpXLabel, OpYLabel, OpTightLayout, OpShow, OpClose},
		rec.Ops(1))

	lines := rec.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "f2", lines[0].Name)
	assert.Equal(t, df.Columns["f2"].Data, lines[0].Values)
	assert.Equal(t, df.Index, lines[0].Index)
	assert.Equal(t, DefaultTheme.Line, lines[0].Style)

	texts := map[string]string{}
	for _, in := range rec.Instructions {
		if in.Text != "" {
			texts[in.Op] = in.Text
		}
	}
	assert.Equal(t, "Time Series of f2", texts[OpTitle])
	assert.Equal(t, "Date", texts[OpXLabel])
	assert.Equal(t, "f2", texts[OpYLabel])

	fig := rec.Instructions[0]
	assert.Equal(t, 12*vg.Inch, fig.Width)
	assert.Equal(t, 4*vg.Inch, fig.Height)
	assert.Greater(t, fig.Width, fig.Height)
}

func TestTimeSeriesTitle(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "f1")

	require.NoError(t, p.TimeSeries(df, "f1", "Revenue"))
	assert.Equal(t, OpTitle, rec.Instructions[2].Op)
	assert.Equal(t, "Revenue", rec.Instructions[2].Text)
}

func TestTimeSeriesMissingColumn(t *testing.T) {
	p, rec, out := newTestPlotter()
	df := frame(t, "df", "f1")

	err := p.TimeSeries(df, "nope", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuchColumn))
	assert.Empty(t, rec.Instructions, "no backend call before the lookup error")
	assert.Empty(t, out.String())
}

func TestTimeSeriesStringLevels(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "s1")

	require.NoError(t, p.TimeSeries(df, "s1", ""))
	assert.Equal(t, []string{"s1-level"}, rec.Lines()[0].Levels)
}

func TestTimeSeriesShowError(t *testing.T) {
	p, rec, _ := newTestPlotter()
	rec.ShowErr = errors.New("display gone")
	df := frame(t, "df", "f1")

	err := p.TimeSeries(df, "f1", "")
	assert.EqualError(t, err, "display gone")
	ops := rec.Ops(1)
	assert.Equal(t, OpClose, ops[len(ops)-1], "figure released after a failed show")
}

func TestAllTimeSeriesLimit(t *testing.T) {
	notice := "Only plotting first 2 columns."
	tests := []struct {
		name    string
		cols    []string
		max     int
		plots   int
		notices int
	}{
		{"below limit", []string{"f1"}, 2, 1, 0},
		{"at limit", []string{"f1", "i2"}, 2, 2, 0},
		{"above limit", []string{"f1", "i2", "b3", "f4"}, 2, 2, 1},
		{"non numeric skipped", []string{"s1", "t2", "f3"}, 2, 1, 0},
		{"no eligible columns", []string{"s1"}, 2, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, rec, out := newTestPlotter()
			df := frame(t, "df", tc.cols...)

			require.NoError(t, p.AllTimeSeries(df, nil, tc.max))
			assert.Equal(t, tc.plots, rec.Figures())
			assert.Equal(t, tc.notices, strings.Count(out.String(), notice))
		})
	}
}

func TestAllTimeSeriesDefaultLimit(t *testing.T) {
	var cols []string
	for i := 0; i < 12; i++ {
		cols = append(cols, "f"+string(rune('a'+i)))
	}
	for _, max := range []int{0, -3} {
		p, rec, out := newTestPlotter()
		df := frame(t, "df", cols...)

		require.NoError(t, p.AllTimeSeries(df, nil, max))
		assert.Equal(t, DefaultMaxPlots, rec.Figures())
		assert.Equal(t, 1, strings.Count(out.String(), "Only plotting first 10 columns."))
	}
}

func TestAllTimeSeriesNativeOrder(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "f3", "s1", "b1", "i2")

	require.NoError(t, p.AllTimeSeries(df, nil, 10))
	var names []string
	for _, s := range rec.Lines() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"f3", "b1", "i2"}, names)
}

func TestAllTimeSeriesExplicit(t *testing.T) {
	p, rec, out := newTestPlotter()
	df := frame(t, "df", "f1", "s2", "t3", "b4")

	require.NoError(t, p.AllTimeSeries(df, []string{"t3", "s2", "f1"}, 5))
	var names []string
	for _, s := range rec.Lines() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"t3", "s2", "f1"}, names)
	assert.NotContains(t, out.String(), "Only plotting")
}

func TestAllTimeSeriesEmptySelection(t *testing.T) {
	p, rec, out := newTestPlotter()
	df := frame(t, "df", "f1", "f2")

	require.NoError(t, p.AllTimeSeries(df, []string{}, 5))
	assert.Equal(t, 0, rec.Figures())
	assert.Empty(t, out.String())
}

func TestAllTimeSeriesMissingColumn(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "f1", "f2")

	err := p.AllTimeSeries(df, []string{"f1", "zz", "f2"}, 5)
	assert.True(t, errors.Is(err, ErrNoSuchColumn))
	assert.Equal(t, 1, rec.Figures())
}

func TestAllDataFramesSeparators(t *testing.T) {
	p, _, out := newTestPlotter()
	frames := []NamedFrame{
		{Name: "A", Frame: frame(t, "A", "a1", "a2")},
		{Name: "B", Frame: frame(t, "B", "f1")},
	}

	require.NoError(t, p.AllDataFrames(frames, nil, 10))

	s := out.String()
	sepA := strings.Index(s, "\n--- A ---\n")
	sepB := strings.Index(s, "\n--- B ---\n")
	require.NotEqual(t, -1, sepA)
	require.NotEqual(t, -1, sepB)
	firstA := strings.Index(s, `line "a1"`)
	lastA := strings.Index(s, `line "a2"`)
	firstB := strings.Index(s, `line "f1"`)
	assert.Less(t, sepA, firstA)
	assert.Less(t, lastA, sepB)
	assert.Less(t, sepB, firstB)
}

func TestAllDataFramesSelectionFallback(t *testing.T) {
	p, rec, _ := newTestPlotter()
	frames := []NamedFrame{
		{Name: "A", Frame: frame(t, "A", "f1", "f2", "s3")},
		{Name: "B", Frame: frame(t, "B", "f1", "i2")},
	}
	sel := map[string][]string{"B": {"i2"}, "C": {"x"}}

	require.NoError(t, p.AllDataFrames(frames, sel, 10))
	var names []string
	for _, s := range rec.Lines() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"f1", "f2", "i2"}, names)
}

func TestAllDataFramesSharedLimit(t *testing.T) {
	p, rec, out := newTestPlotter()
	frames := []NamedFrame{
		{Name: "A", Frame: frame(t, "A", "f1", "f2", "f3")},
		{Name: "B", Frame: frame(t, "B", "f1", "f2", "f3")},
	}

	require.NoError(t, p.AllDataFrames(frames, nil, 2))
	assert.Equal(t, 4, rec.Figures())
	assert.Equal(t, 2, strings.Count(out.String(), "Only plotting first 2 columns."))
}

func TestAllDataFramesStopsAtError(t *testing.T) {
	p, rec, out := newTestPlotter()
	frames := []NamedFrame{
		{Name: "A", Frame: frame(t, "A", "f1")},
		{Name: "B", Frame: frame(t, "B", "f1")},
		{Name: "C", Frame: frame(t, "C", "f1")},
	}
	sel := map[string][]string{"B": {"missing"}}

	err := p.AllDataFrames(frames, sel, 10)
	require.Error(t, err)

	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "B", ce.Frame)
	assert.Equal(t, "missing", ce.Column)

	assert.Equal(t, 1, rec.Figures())
	assert.NotContains(t, out.String(), "--- C ---")
}

func TestCollection(t *testing.T) {
	a, b := frame(t, "a"), frame(t, "b")
	coll := Collection(map[string]*DataFrame{"zeta": a, "alpha": b})
	require.Len(t, coll, 2)
	assert.Equal(t, "alpha", coll[0].Name)
	assert.Same(t, b, coll[0].Frame)
	assert.Equal(t, "zeta", coll[1].Name)
}

func TestNaNPassedThrough(t *testing.T) {
	p, rec, _ := newTestPlotter()
	df := frame(t, "df", "f1")
	df.Columns["f1"].Data[1] = math.NaN()

	require.NoError(t, p.TimeSeries(df, "f1", ""))
	assert.True(t, math.IsNaN(rec.Lines()[0].Values[1]))
}
