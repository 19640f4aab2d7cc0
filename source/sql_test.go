package source

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdobler/tsplot"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), SQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE readings (day TEXT, temp REAL, rain INTEGER, station TEXT);
		INSERT INTO readings VALUES
			('2024-01-01', 1.5, 3, 'north'),
			('2024-01-02', NULL, 4, 'south'),
			('2024-01-03', 2.5, 5, 'north');
	`)
	require.NoError(t, err)
	return db
}

func TestQuerySQLite(t *testing.T) {
	db := openSQLite(t)

	df, err := Query(context.Background(), db, "readings", "SELECT * FROM readings ORDER BY day", "")
	require.NoError(t, err)

	assert.Equal(t, 3, df.N)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), df.Index[1])
	assert.Equal(t, []string{"temp", "rain", "station"}, df.FieldNames())
	assert.Equal(t, tsplot.Float, df.Columns["temp"].Type)
	assert.Equal(t, tsplot.Int, df.Columns["rain"].Type)
	assert.Equal(t, tsplot.String, df.Columns["station"].Type)

	assert.True(t, math.IsNaN(df.Columns["temp"].Data[1]))
	assert.Equal(t, []float64{3, 4, 5}, df.Columns["rain"].Data)
	assert.Equal(t, []string{"north", "south"}, df.Columns["station"].Levels())
}

func TestQueryIndexColumn(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	df, err := Query(ctx, db, "r", "SELECT rain, day FROM readings", "day")
	require.NoError(t, err)
	assert.Equal(t, []string{"rain"}, df.FieldNames())

	_, err = Query(ctx, db, "r", "SELECT * FROM readings", "when")
	assert.Error(t, err)

	_, err = Query(ctx, db, "r", "SELECT temp, rain FROM readings", "")
	assert.Error(t, err, "no time column")

	_, err = Query(ctx, db, "r", "SELECT * FROM nowhere", "")
	assert.Error(t, err)
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   tsplot.FieldType
	}{
		{"ints", []interface{}{int64(1), nil, int64(3)}, tsplot.Int},
		{"int and float", []interface{}{int64(1), 2.5}, tsplot.Float},
		{"bools", []interface{}{true, false}, tsplot.Bool},
		{"times", []interface{}{time.Now(), nil}, tsplot.Time},
		{"mixed", []interface{}{int64(1), "x"}, tsplot.String},
		{"bytes", []interface{}{[]byte("a")}, tsplot.String},
		{"all null", []interface{}{nil, nil}, tsplot.Float},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, columnType(tc.values))
		})
	}
}

func TestQueryDuckDB(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DuckDB, "")
	require.NoError(t, err)
	defer db.Close()

	df, err := Query(ctx, db, "series", `
		SELECT TIMESTAMP '2024-01-01 00:00:00' + INTERVAL (i) DAY AS ts,
		       i AS n,
		       i * 1.5::DOUBLE AS x,
		       i % 2 = 0 AS even
		FROM range(4) t(i)
		ORDER BY ts`, "")
	require.NoError(t, err)

	assert.Equal(t, 4, df.N)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), df.Index[2].UTC())
	assert.Equal(t, []string{"n", "x", "even"}, df.FieldNames())
	assert.Equal(t, tsplot.Int, df.Columns["n"].Type)
	assert.Equal(t, tsplot.Float, df.Columns["x"].Type)
	assert.Equal(t, tsplot.Bool, df.Columns["even"].Type)
	assert.Equal(t, []float64{0, 1.5, 3, 4.5}, df.Columns["x"].Data)
	assert.Equal(t, []float64{1, 0, 1, 0}, df.Columns["even"].Data)
}

func TestLoadParquet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "series.parquet")

	db, err := Open(ctx, DuckDB, "")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `COPY (
		SELECT DATE '2024-01-01' + INTERVAL (i) DAY AS day, i * 2 AS v
		FROM range(5) t(i)
	) TO '`+path+`' (FORMAT PARQUET)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	df, err := Load(ctx, Dataset{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "series", df.Name)
	assert.Equal(t, 5, df.N)
	assert.Equal(t, []string{"v"}, df.FieldNames())
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, df.Columns["v"].Data)
}
