// Package source loads data frames from files and databases.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vdobler/tsplot"
)

// Dataset describes where a data frame comes from: either a file (Path)
// or a query against a database (Driver, DSN, Query).
type Dataset struct {
	Name string

	Path string

	Driver string
	DSN    string
	Query  string

	// Index is the name of the index column (detected if empty).
	Index string

	// DateFormat and Delimiter apply to CSV files.
	DateFormat string
	Delimiter  rune
}

// Kind classifies how ds is loaded: "sql", "csv", "arrow" or "duckdb"
// (files read through DuckDB, e.g. Parquet or JSON).
func (ds Dataset) Kind() (string, error) {
	if ds.Driver != "" || ds.Query != "" {
		if ds.Driver == "" || ds.Query == "" {
			return "", fmt.Errorf("dataset %q: driver and query must be given together", ds.Name)
		}
		return "sql", nil
	}
	switch strings.ToLower(filepath.Ext(ds.Path)) {
	case ".csv", ".tsv", ".txt":
		return "csv", nil
	case ".arrow", ".feather", ".ipc":
		return "arrow", nil
	case ".parquet", ".json", ".ndjson", ".jsonl":
		return "duckdb", nil
	case "":
		return "", fmt.Errorf("dataset %q: neither path nor query given", ds.Name)
	}
	return "", fmt.Errorf("dataset %q: unsupported file type %q", ds.Name, filepath.Ext(ds.Path))
}

// DisplayName returns ds.Name or the base name of ds.Path.
func (ds Dataset) DisplayName() string {
	if ds.Name != "" {
		return ds.Name
	}
	base := filepath.Base(ds.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load loads the data frame described by ds.
func Load(ctx context.Context, ds Dataset) (*tsplot.DataFrame, error) {
	kind, err := ds.Kind()
	if err != nil {
		return nil, err
	}
	name := ds.DisplayName()

	switch kind {
	case "csv":
		opts := DefaultCSVOptions()
		opts.Name = name
		opts.DateColumn = ds.Index
		opts.DateFormat = ds.DateFormat
		if ds.Delimiter != 0 {
			opts.Delimiter = ds.Delimiter
		} else if strings.EqualFold(filepath.Ext(ds.Path), ".tsv") {
			opts.Delimiter = '\t'
		}
		return LoadCSV(ds.Path, opts)

	case "arrow":
		return LoadArrow(ds.Path, name, ds.Index)

	case "duckdb":
		query := fmt.Sprintf("SELECT * FROM '%s'", strings.ReplaceAll(ds.Path, "'", "''"))
		return queryDB(ctx, DuckDB, "", name, query, ds.Index)
	}
	return queryDB(ctx, ds.Driver, ds.DSN, name, ds.Query, ds.Index)
}

func queryDB(ctx context.Context, driver, dsn, name, query, index string) (*tsplot.DataFrame, error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return Query(ctx, db, name, query, index)
}
