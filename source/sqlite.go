package source

import (
	_ "modernc.org/sqlite" // sqlite driver
)

// SQLite is the database/sql driver name of SQLite.
const SQLite = "sqlite"
