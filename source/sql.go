package source

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vdobler/tsplot"
)

// Open opens and pings a database. driver is one of the registered
// database/sql drivers, e.g. DuckDB or SQLite.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return db, nil
}

// Query runs query on db and turns the result set into a data frame.
// indexColumn names the result column holding the index; if empty the
// first column with time values is used. Column types are inferred from
// the scanned values, NULL is a missing value.
func Query(ctx context.Context, db *sql.DB, name, query, indexColumn string) (*tsplot.DataFrame, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([][]interface{}, len(names))
	for rows.Next() {
		row := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range row {
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	idx := -1
	for i, n := range names {
		if indexColumn != "" && n == indexColumn {
			idx = i
			break
		}
		if indexColumn == "" && columnType(values[i]) == tsplot.Time {
			idx = i
			break
		}
	}
	if idx == -1 && indexColumn == "" {
		// SQLite hands out dates as text.
		for i := range names {
			if columnType(values[i]) == tsplot.String && allTimes(values[i]) {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		if indexColumn != "" {
			return nil, fmt.Errorf("query result has no column %q", indexColumn)
		}
		return nil, fmt.Errorf("query result has no time column in %v", names)
	}

	index := make([]time.Time, len(values[idx]))
	for r, v := range values[idx] {
		t, ok := timeValue(v)
		if !ok {
			return nil, fmt.Errorf("row %d: %s value %v is not a time", r+1, names[idx], v)
		}
		index[r] = t
	}

	df := tsplot.NewDataFrame(name, index)
	for i, n := range names {
		if i == idx {
			continue
		}
		ft := columnType(values[i])
		field := tsplot.NewField(len(index), ft, df.Pool)
		for r, v := range values[i] {
			field.Data[r] = sqlValue(v, ft, df.Pool)
		}
		if err := df.Add(n, field); err != nil {
			return nil, err
		}
	}
	return df, nil
}

type floater interface {
	Float64() float64
}

// kindOf maps a scanned value to a field type; ok is false for NULL.
func kindOf(v interface{}) (ft tsplot.FieldType, ok bool) {
	switch v.(type) {
	case nil:
		return 0, false
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return tsplot.Int, true
	case float32, float64, floater:
		return tsplot.Float, true
	case bool:
		return tsplot.Bool, true
	case time.Time:
		return tsplot.Time, true
	}
	return tsplot.String, true
}

// columnType merges the kinds of all values: ints and floats give
// Float, any other mix gives String.
func columnType(values []interface{}) tsplot.FieldType {
	var ft tsplot.FieldType
	seen := false
	for _, v := range values {
		k, ok := kindOf(v)
		if !ok {
			continue
		}
		switch {
		case !seen:
			ft, seen = k, true
		case ft == k:
		case (ft == tsplot.Int && k == tsplot.Float) || (ft == tsplot.Float && k == tsplot.Int):
			ft = tsplot.Float
		default:
			return tsplot.String
		}
	}
	if !seen {
		return tsplot.Float
	}
	return ft
}

func timeValue(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}, false
}

func allTimes(values []interface{}) bool {
	for _, v := range values {
		if _, ok := timeValue(v); !ok {
			return false
		}
	}
	return len(values) > 0
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range DateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sqlValue(v interface{}, ft tsplot.FieldType, pool *tsplot.StringPool) float64 {
	if v == nil {
		return math.NaN()
	}
	switch ft {
	case tsplot.Int, tsplot.Float:
		switch x := v.(type) {
		case int:
			return float64(x)
		case int8:
			return float64(x)
		case int16:
			return float64(x)
		case int32:
			return float64(x)
		case int64:
			return float64(x)
		case uint:
			return float64(x)
		case uint8:
			return float64(x)
		case uint16:
			return float64(x)
		case uint32:
			return float64(x)
		case uint64:
			return float64(x)
		case float32:
			return float64(x)
		case float64:
			return x
		case floater:
			return x.Float64()
		}
	case tsplot.Bool:
		if v.(bool) {
			return 1
		}
		return 0
	case tsplot.Time:
		return tsplot.SecondsOf(v.(time.Time))
	case tsplot.String:
		switch x := v.(type) {
		case string:
			return float64(pool.Add(x))
		case []byte:
			return float64(pool.Add(string(x)))
		}
		return float64(pool.Add(fmt.Sprint(v)))
	}
	return math.NaN()
}
