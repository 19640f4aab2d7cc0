package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vdobler/tsplot"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Name       string // Data frame name (default: file name without extension)
	DateColumn string // Column name of the index (detected if empty)
	DateFormat string // Layout of index and time values (detected if empty)
	Delimiter  rune   // Field delimiter (default: ',')
	SkipRows   int    // Number of rows to skip before the header
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Delimiter: ',',
	}
}

// DateLayouts are tried in order when no DateFormat is given.
var DateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"2006-01",
}

// dateHeaders are column names taken as index if no DateColumn is given.
var dateHeaders = tsplot.NewStringSet("date", "ds", "time", "timestamp", "datetime", "month", "year")

// LoadCSV loads a data frame from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*tsplot.DataFrame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	o := *opts
	if o.Name == "" {
		o.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return LoadCSVFromReader(file, &o)
}

// LoadCSVFromReader loads a data frame from an io.Reader.
// Column types are inferred from the values: int, float, bool, time and
// string are tried in this order. Empty cells, "NA" and "NaN" are
// missing values.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*tsplot.DataFrame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // rows before the header may be ragged

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("cannot skip row %d: %w", i+1, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	seen := tsplot.NewStringSet()
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		if !seen.Add(h) {
			return nil, fmt.Errorf("duplicate column %q in header", h)
		}
		header[i] = h
	}
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	cols := make([][]string, len(header))
	for _, rec := range records {
		for j := range header {
			cols[j] = append(cols[j], rec[j])
		}
	}

	dateIdx, layout, err := findIndex(header, cols, opts)
	if err != nil {
		return nil, err
	}

	index := make([]time.Time, len(records))
	for i, s := range cols[dateIdx] {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s value %q: %w", i+2+opts.SkipRows, header[dateIdx], s, err)
		}
		index[i] = t
	}

	df := tsplot.NewDataFrame(opts.Name, index)
	for j, name := range header {
		if j == dateIdx {
			continue
		}
		field := parseColumn(cols[j], opts.DateFormat, df.Pool)
		if err := df.Add(name, field); err != nil {
			return nil, err
		}
	}
	return df, nil
}

// findIndex determines the index column and its time layout. Without
// data rows a named or conventionally named column is taken as is.
func findIndex(header []string, cols [][]string, opts *CSVOptions) (int, string, error) {
	if opts.DateColumn != "" {
		for j, h := range header {
			if h == opts.DateColumn {
				layout, ok := timeLayout(cols[j], opts.DateFormat)
				if !ok && len(cols[j]) > 0 {
					return -1, "", fmt.Errorf("column %q does not hold dates", h)
				}
				return j, layout, nil
			}
		}
		return -1, "", fmt.Errorf("no date column %q", opts.DateColumn)
	}

	for j, h := range header {
		if dateHeaders.Contains(strings.ToLower(h)) {
			if layout, ok := timeLayout(cols[j], opts.DateFormat); ok || len(cols[j]) == 0 {
				return j, layout, nil
			}
		}
	}
	for j := range header {
		if layout, ok := timeLayout(cols[j], opts.DateFormat); ok {
			return j, layout, nil
		}
	}
	return -1, "", fmt.Errorf("no date column found in %v", header)
}

func missing(s string) bool {
	return s == "" || s == "NA" || s == "NaN"
}

// timeLayout returns the first layout all non-missing values parse with.
func timeLayout(values []string, layout string) (string, bool) {
	layouts := DateLayouts
	if layout != "" {
		layouts = []string{layout}
	}
	for _, l := range layouts {
		ok, n := true, 0
		for _, s := range values {
			s = strings.TrimSpace(s)
			if missing(s) {
				continue
			}
			if _, err := time.Parse(l, s); err != nil {
				ok = false
				break
			}
			n++
		}
		if ok && n > 0 {
			return l, true
		}
	}
	return "", false
}

func all(values []string, parses func(string) bool) bool {
	n := 0
	for _, s := range values {
		s = strings.TrimSpace(s)
		if missing(s) {
			continue
		}
		if !parses(s) {
			return false
		}
		n++
	}
	return n > 0
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	_, err := strconv.ParseBool(s)
	return err == nil
}

// parseColumn infers the type of values and converts them.
func parseColumn(values []string, dateFormat string, pool *tsplot.StringPool) tsplot.Field {
	ft := tsplot.String
	var layout string
	switch {
	case all(values, isInt):
		ft = tsplot.Int
	case all(values, isFloat):
		ft = tsplot.Float
	case all(values, isBool):
		ft = tsplot.Bool
	default:
		if l, ok := timeLayout(values, dateFormat); ok {
			ft, layout = tsplot.Time, l
		}
	}

	field := tsplot.NewField(len(values), ft, pool)
	for i, s := range values {
		s = strings.TrimSpace(s)
		if missing(s) {
			continue
		}
		field.Data[i] = parseValue(s, ft, layout, pool)
	}
	return field
}

func parseValue(s string, ft tsplot.FieldType, layout string, pool *tsplot.StringPool) float64 {
	switch ft {
	case tsplot.Int:
		n, _ := strconv.ParseInt(s, 10, 64)
		return float64(n)
	case tsplot.Float:
		x, _ := strconv.ParseFloat(s, 64)
		return x
	case tsplot.Bool:
		if b, _ := strconv.ParseBool(s); b {
			return 1
		}
		return 0
	case tsplot.Time:
		t, _ := time.Parse(layout, s)
		return tsplot.SecondsOf(t)
	case tsplot.String:
		return float64(pool.Add(s))
	}
	return math.NaN()
}
