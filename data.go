package tsplot

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// ErrNoSuchColumn is matched by every *ColumnError.
var ErrNoSuchColumn = errors.New("no such column")

// ColumnError reports a lookup of a column which is not part of a data frame.
type ColumnError struct {
	Frame  string
	Column string
}

func (e *ColumnError) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("no such column %q", e.Column)
	}
	return fmt.Sprintf("no such column %q in %s", e.Column, e.Frame)
}

func (e *ColumnError) Is(target error) bool { return target == ErrNoSuchColumn }

// DataFrame is a table of named, typed columns sharing one ordered
// time index.
type DataFrame struct {
	Name string

	// N is the number of rows.
	N int

	// Index determines the horizontal position of row i.
	Index []time.Time

	// Columns should be filled with Add, which records the native
	// column order. Columns stored directly follow, sorted by name.
	Columns map[string]Field

	// Pool is shared by all String columns of this data frame.
	Pool *StringPool

	order []string // native column order
}

// Field is one column of a data frame.
type Field struct {
	Type FieldType

	// Data holds the values, NaN marks a missing value.
	// See the package documentation for how values are encoded.
	Data []float64

	// Pool resolves values of String fields.
	Pool *StringPool
}

// FieldType represents the basic type of a field.
type FieldType uint

const (
	Int FieldType = iota
	Float
	Bool
	String
	Time
)

func (t FieldType) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Time:
		return "time"
	}
	return fmt.Sprintf("FieldType(%d)", uint(t))
}

// Numeric reports whether fields of type t are numeric or boolean and
// thus plotted by default.
func (t FieldType) Numeric() bool {
	return t == Int || t == Float || t == Bool
}

// NewDataFrame returns an empty data frame over index.
func NewDataFrame(name string, index []time.Time) *DataFrame {
	return &DataFrame{
		Name:    name,
		N:       len(index),
		Index:   index,
		Columns: make(map[string]Field),
		Pool:    NewStringPool(),
	}
}

// NewField returns a field of type t with n missing values.
func NewField(n int, t FieldType, pool *StringPool) Field {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.NaN()
	}
	return Field{Type: t, Data: data, Pool: pool}
}

// Add appends f as column name.
func (df *DataFrame) Add(name string, f Field) error {
	if _, ok := df.Columns[name]; ok {
		return fmt.Errorf("duplicate column %q in %s", name, df.Name)
	}
	if len(f.Data) != df.N {
		return fmt.Errorf("column %q has %d values, index of %s has %d",
			name, len(f.Data), df.Name, df.N)
	}
	if f.Type == String && f.Pool == nil {
		f.Pool = df.Pool
	}
	df.Columns[name] = f
	df.order = append(df.order, name)
	return nil
}

// Has reports whether df contains a column name.
func (df *DataFrame) Has(name string) bool {
	_, ok := df.Columns[name]
	return ok
}

// Column looks up the named column. The error is a *ColumnError.
func (df *DataFrame) Column(name string) (Field, error) {
	f, ok := df.Columns[name]
	if !ok {
		return Field{}, &ColumnError{Frame: df.Name, Column: name}
	}
	return f, nil
}

// FieldNames returns the column names in native order.
func (df *DataFrame) FieldNames() []string {
	names := make([]string, 0, len(df.Columns))
	known := NewStringSet()
	for _, name := range df.order {
		if _, ok := df.Columns[name]; ok && known.Add(name) {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range df.Columns {
		if !known.Contains(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// NumericFields returns the names of all Int, Float and Bool columns
// in native order.
func (df *DataFrame) NumericFields() []string {
	var names []string
	for _, name := range df.FieldNames() {
		if df.Columns[name].Type.Numeric() {
			names = append(names, name)
		}
	}
	return names
}

// Discrete reports whether f holds discrete data.
func (f Field) Discrete() bool {
	return f.Type == Int || f.Type == Bool || f.Type == String
}

// String formats the value x of f.
func (f Field) String(x float64) string {
	if math.IsNaN(x) {
		return "NA"
	}
	switch f.Type {
	case Int:
		return fmt.Sprintf("%d", int64(x))
	case Bool:
		if x != 0 {
			return "true"
		}
		return "false"
	case String:
		return f.Pool.Get(int(x))
	case Time:
		return TimeOf(x).Format(time.RFC3339)
	}
	return fmt.Sprintf("%g", x)
}

// Levels returns the labels of a String field: Levels()[i] is the label
// of value i. It is nil for all other field types.
func (f Field) Levels() []string {
	if f.Type != String || f.Pool == nil {
		return nil
	}
	return f.Pool.Strings()
}

// SecondsOf converts t to the encoding of Time fields.
func SecondsOf(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// TimeOf is the inverse of SecondsOf.
func TimeOf(x float64) time.Time {
	sec, frac := math.Modf(x)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// -------------------------------------------------------------------------
// Slice of measurements

var timeType = reflect.TypeOf(time.Time{})

// NewDataFrameFrom constructs a data frame from data which must be a
// slice of structs. The time.Time field named index becomes the index.
// All other exported fields and all methods without parameters of kind
// int, uint, float, bool, string or time.Time become columns, fields
// first.
func NewDataFrameFrom(name string, data interface{}, index string) (*DataFrame, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot convert %T to data frame", data)
	}
	t := v.Type().Elem()
	n := v.Len()

	sf, ok := t.FieldByName(index)
	if !ok || sf.Type != timeType {
		return nil, fmt.Errorf("%s has no time.Time field %q", t.String(), index)
	}
	idx := make([]time.Time, n)
	for i := 0; i < n; i++ {
		idx[i] = v.Index(i).FieldByIndex(sf.Index).Interface().(time.Time)
	}
	df := NewDataFrame(name, idx)

	// Fields first.
	for j := 0; j < t.NumField(); j++ {
		f := t.Field(j)
		if f.PkgPath != "" || f.Name == index {
			continue
		}
		ft, ok := fieldTypeOf(f.Type)
		if !ok {
			continue
		}
		field := NewField(n, ft, df.Pool)
		for i := 0; i < n; i++ {
			field.Data[i] = encode(v.Index(i).Field(j), ft, df.Pool)
		}
		if err := df.Add(f.Name, field); err != nil {
			return nil, err
		}
	}

	// The same for methods.
	for j := 0; j < t.NumMethod(); j++ {
		m := t.Method(j)
		// Look for methods with signatures like "func(elemtype) [int,string,float,time]"
		mt := m.Type
		if mt.NumIn() != 1 || mt.NumOut() != 1 || df.Has(m.Name) {
			continue
		}
		ft, ok := fieldTypeOf(mt.Out(0))
		if !ok {
			continue
		}
		field := NewField(n, ft, df.Pool)
		for i := 0; i < n; i++ {
			out := m.Func.Call([]reflect.Value{v.Index(i)})[0]
			field.Data[i] = encode(out, ft, df.Pool)
		}
		if err := df.Add(m.Name, field); err != nil {
			return nil, err
		}
	}

	return df, nil
}

func fieldTypeOf(t reflect.Type) (FieldType, bool) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int, true
	case reflect.Float32, reflect.Float64:
		return Float, true
	case reflect.Bool:
		return Bool, true
	case reflect.String:
		return String, true
	case reflect.Struct:
		if t == timeType {
			return Time, true
		}
	}
	return 0, false
}

func encode(v reflect.Value, ft FieldType, pool *StringPool) float64 {
	switch ft {
	case Int:
		if v.CanInt() {
			return float64(v.Int())
		}
		return float64(v.Uint())
	case Float:
		return v.Float()
	case Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case String:
		return float64(pool.Add(v.String()))
	case Time:
		return SecondsOf(v.Interface().(time.Time))
	}
	return math.NaN()
}
