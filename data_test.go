package tsplot

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Obs struct {
	Time    time.Time
	Age     int
	Origin  string
	Weight  float64
	Height  float64
	Smoker  bool
	Special []byte
}

func (o Obs) BMI() float64 {
	return o.Weight / (o.Height * o.Height)
}

func (o Obs) Country() string {
	o2c := map[string]string{
		"ch": "Schweiz",
		"de": "Deutschland",
		"uk": "England",
	}
	return o2c[o.Origin]
}

func (o Obs) Other2(a int) int {
	return 0
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

var measurement = []Obs{
	{Time: day(1), Age: 20, Origin: "de", Weight: 80, Height: 1.88},
	{Time: day(2), Age: 22, Origin: "de", Weight: 85, Height: 1.85, Smoker: true},
	{Time: day(3), Age: 20, Origin: "ch", Weight: 77, Height: 1.78},
	{Time: day(4), Age: 28, Origin: "ch", Weight: 85, Height: 1.80},
	{Time: day(5), Age: 42, Origin: "uk", Weight: 60, Height: 1.68, Smoker: true},
}

func TestNewDataFrameFrom(t *testing.T) {
	df, err := NewDataFrameFrom("obs", measurement, "Time")
	require.NoError(t, err)

	assert.Equal(t, "obs", df.Name)
	assert.Equal(t, 5, df.N)
	assert.Equal(t, day(3), df.Index[2])
	assert.Equal(t,
		[]string{"Age", "Origin", "Weight", "Height", "Smoker", "BMI", "Country"},
		df.FieldNames())
	assert.Equal(t,
		[]string{"Age", "Weight", "Height", "Smoker", "BMI"},
		df.NumericFields())

	tests := []struct {
		column string
		typ    FieldType
		row    int
		want   string
	}{
		{"Age", Int, 4, "42"},
		{"Origin", String, 2, "ch"},
		{"Weight", Float, 1, "85"},
		{"Smoker", Bool, 1, "true"},
		{"Smoker", Bool, 0, "false"},
		{"Country", String, 4, "England"},
	}
	for _, tc := range tests {
		t.Run(tc.column, func(t *testing.T) {
			f, err := df.Column(tc.column)
			require.NoError(t, err)
			assert.Equal(t, tc.typ, f.Type)
			assert.Equal(t, tc.want, f.String(f.Data[tc.row]))
		})
	}

	bmi, err := df.Column("BMI")
	require.NoError(t, err)
	assert.InDelta(t, 80/(1.88*1.88), bmi.Data[0], 1e-9)
}

func TestNewDataFrameFromErrors(t *testing.T) {
	_, err := NewDataFrameFrom("x", 17, "Time")
	assert.Error(t, err)

	_, err = NewDataFrameFrom("x", measurement, "Age")
	assert.Error(t, err, "index must be a time.Time")

	_, err = NewDataFrameFrom("x", measurement, "Nope")
	assert.Error(t, err)
}

func TestColumnError(t *testing.T) {
	df, err := NewDataFrameFrom("obs", measurement, "Time")
	require.NoError(t, err)

	_, err = df.Column("Salary")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSuchColumn))

	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Salary", ce.Column)
	assert.Equal(t, "obs", ce.Frame)
	assert.Contains(t, err.Error(), `"Salary"`)
}

func TestAdd(t *testing.T) {
	df := NewDataFrame("df", []time.Time{day(1), day(2), day(3)})

	f := NewField(3, Float, nil)
	for _, x := range f.Data {
		assert.True(t, math.IsNaN(x))
	}
	f.Data[1] = 2.5
	require.NoError(t, df.Add("a", f))
	assert.Error(t, df.Add("a", f), "duplicate column")
	assert.Error(t, df.Add("b", NewField(2, Float, nil)), "length mismatch")

	s := NewField(3, String, nil)
	s.Data[0] = float64(df.Pool.Add("up"))
	require.NoError(t, df.Add("s", s))
	assert.Same(t, df.Pool, df.Columns["s"].Pool)
	assert.Equal(t, []string{"up"}, df.Columns["s"].Levels())
	assert.Nil(t, df.Columns["a"].Levels())

	assert.True(t, df.Has("s"))
	assert.False(t, df.Has("t"))
	assert.Equal(t, "NA", df.Columns["a"].String(df.Columns["a"].Data[0]))
}

func TestColumnsSetDirectly(t *testing.T) {
	df := NewDataFrame("df", []time.Time{day(1), day(2)})
	require.NoError(t, df.Add("z", NewField(2, Float, nil)))
	require.NoError(t, df.Add("label", NewField(2, String, nil)))
	df.Columns["b"] = NewField(2, Int, nil)
	df.Columns["a"] = NewField(2, Bool, nil)

	assert.Equal(t, []string{"z", "label", "a", "b"}, df.FieldNames())
	assert.Equal(t, []string{"z", "a", "b"}, df.NumericFields())

	delete(df.Columns, "z")
	assert.Equal(t, []string{"label", "a", "b"}, df.FieldNames())
}

func TestLevels(t *testing.T) {
	df, err := NewDataFrameFrom("obs", measurement, "Time")
	require.NoError(t, err)

	origin := df.Columns["Origin"]
	levels := origin.Levels()
	for _, x := range origin.Data {
		assert.Less(t, int(x), len(levels))
	}
	assert.Equal(t, "de", levels[int(origin.Data[0])])
	assert.True(t, origin.Discrete())
	assert.False(t, df.Columns["Weight"].Discrete())
}

func TestSecondsOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500000000, time.UTC)
	assert.True(t, ts.Equal(TimeOf(SecondsOf(ts))))
	assert.Equal(t, float64(0), SecondsOf(time.Unix(0, 0)))
}

func TestStringPool(t *testing.T) {
	sp := NewStringPool()
	assert.Equal(t, 0, sp.Add("a"))
	assert.Equal(t, 1, sp.Add("b"))
	assert.Equal(t, 0, sp.Add("a"))
	assert.Equal(t, 2, sp.Len())
	assert.Equal(t, 1, sp.Find("b"))
	assert.Equal(t, -1, sp.Find("c"))
	assert.Equal(t, "b", sp.Get(1))
	assert.Equal(t, "--NA--", sp.Get(7))
	assert.Equal(t, []string{"a", "b"}, sp.Strings())
}
