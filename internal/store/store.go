// Package store persists datasets into a relational database and runs
// free-form queries against it. The default backend is a single SQLite
// file; PostgreSQL is available for deployments that outgrow one.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JonMunkholm/dataprep/internal/dataset"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	_ "modernc.org/sqlite"             // pure-Go sqlite driver
)

// Mode selects how SaveTable treats an existing table.
type Mode string

const (
	// ModeReplace drops and recreates the table.
	ModeReplace Mode = "replace"
	// ModeAppend keeps the table but deletes all existing rows first, so
	// repeated ingestion never grows the table unboundedly.
	ModeAppend Mode = "append"
)

// QueryResult holds the rendered rows of one query execution.
type QueryResult struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the query succeeded but returned no rows. This is
// an informational outcome, not an error.
func (r *QueryResult) Empty() bool { return len(r.Rows) == 0 }

// DropReport is the per-table outcome of a drop request.
type DropReport struct {
	Table   string `json:"table"`
	Dropped bool   `json:"dropped"`
	Error   string `json:"error,omitempty"`
}

// Store is the persistence boundary. Every call opens, uses and releases
// its resources before returning; there are no transactions spanning
// multiple user actions.
type Store interface {
	SaveTable(ctx context.Context, table string, d *dataset.Dataset, mode Mode) error
	Query(ctx context.Context, query string) (*QueryResult, error)
	ListTables(ctx context.Context) ([]string, error)
	DropTables(ctx context.Context, tables []string) []DropReport
	Close() error
}

// Open connects a store backend. Supported drivers: "sqlite" (dsn is a
// file path or ":memory:") and "postgres" (dsn is a pgx connection
// string).
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		db  *sql.DB
		dia dialect
		err error
	)
	switch driver {
	case "sqlite":
		db, err = sql.Open("sqlite", dsn)
		dia = sqliteDialect{}
	case "postgres":
		db, err = sql.Open("pgx", dsn)
		dia = postgresDialect{}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	if driver == "sqlite" {
		// modernc's in-memory databases are private to each pooled
		// connection, so a second connection would see none of the saved
		// tables. One connection also sidesteps file-lock contention.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s store: %w", driver, err)
	}
	return &sqlStore{db: db, dialect: dia}, nil
}
