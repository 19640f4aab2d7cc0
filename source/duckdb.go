package source

import (
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDB is the database/sql driver name of DuckDB. An empty DSN opens an
// in-memory database, which can still read files through SQL, e.g.
//	SELECT * FROM read_parquet('weather.parquet')
const DuckDB = "duckdb"
