package source

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vdobler/tsplot"
)

// LoadArrow loads a data frame from an Arrow IPC file. indexColumn names
// the timestamp or date column holding the index; if empty the first
// such column is used. Integer, floating point, boolean, string,
// timestamp and date columns are loaded, all others are skipped.
func LoadArrow(path, name, indexColumn string) (*tsplot.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("cannot read arrow file %s: %w", path, err)
	}
	defer rdr.Close()

	schema := rdr.Schema()
	idx := -1
	types := make([]tsplot.FieldType, schema.NumFields())
	usable := make([]bool, schema.NumFields())
	for j, fld := range schema.Fields() {
		types[j], usable[j] = arrowType(fld.Type)
		if idx == -1 && usable[j] && types[j] == tsplot.Time &&
			(indexColumn == "" || fld.Name == indexColumn) {
			idx = j
		}
	}
	if idx == -1 {
		if indexColumn != "" {
			return nil, fmt.Errorf("%s has no time column %q", path, indexColumn)
		}
		return nil, fmt.Errorf("%s has no time column", path)
	}

	var index []time.Time
	values := make([][]float64, schema.NumFields())
	pool := tsplot.NewStringPool()
	for r := 0; r < rdr.NumRecords(); r++ {
		rec, err := rdr.Record(r)
		if err != nil {
			return nil, fmt.Errorf("cannot read record %d of %s: %w", r, path, err)
		}
		for j := 0; j < int(rec.NumCols()); j++ {
			if !usable[j] {
				continue
			}
			col := rec.Column(j)
			for k := 0; k < col.Len(); k++ {
				if j == idx {
					if col.IsNull(k) {
						return nil, fmt.Errorf("%s: null index value in record %d", path, r)
					}
					index = append(index, arrowTime(col, k))
					continue
				}
				values[j] = append(values[j], arrowValue(col, k, pool))
			}
		}
	}

	df := tsplot.NewDataFrame(name, index)
	df.Pool = pool
	for j, fld := range schema.Fields() {
		if !usable[j] || j == idx {
			continue
		}
		data := values[j]
		if data == nil {
			data = []float64{}
		}
		field := tsplot.Field{Type: types[j], Data: data, Pool: pool}
		if err := df.Add(fld.Name, field); err != nil {
			return nil, err
		}
	}
	return df, nil
}

func arrowType(dt arrow.DataType) (tsplot.FieldType, bool) {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return tsplot.Int, true
	case arrow.FLOAT32, arrow.FLOAT64:
		return tsplot.Float, true
	case arrow.BOOL:
		return tsplot.Bool, true
	case arrow.STRING, arrow.LARGE_STRING:
		return tsplot.String, true
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return tsplot.Time, true
	}
	return 0, false
}

func arrowTime(col arrow.Array, k int) time.Time {
	switch a := col.(type) {
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(k).ToTime(unit)
	case *array.Date32:
		return a.Value(k).ToTime()
	case *array.Date64:
		return a.Value(k).ToTime()
	}
	return time.Time{}
}

func arrowValue(col arrow.Array, k int, pool *tsplot.StringPool) float64 {
	if col.IsNull(k) {
		return math.NaN()
	}
	switch a := col.(type) {
	case *array.Int8:
		return float64(a.Value(k))
	case *array.Int16:
		return float64(a.Value(k))
	case *array.Int32:
		return float64(a.Value(k))
	case *array.Int64:
		return float64(a.Value(k))
	case *array.Uint8:
		return float64(a.Value(k))
	case *array.Uint16:
		return float64(a.Value(k))
	case *array.Uint32:
		return float64(a.Value(k))
	case *array.Uint64:
		return float64(a.Value(k))
	case *array.Float32:
		return float64(a.Value(k))
	case *array.Float64:
		return a.Value(k)
	case *array.Boolean:
		if a.Value(k) {
			return 1
		}
		return 0
	case *array.String:
		return float64(pool.Add(a.Value(k)))
	case *array.LargeString:
		return float64(pool.Add(a.Value(k)))
	case *array.Timestamp, *array.Date32, *array.Date64:
		return tsplot.SecondsOf(arrowTime(col, k))
	}
	return math.NaN()
}
