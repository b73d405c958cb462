package store

import (
	"fmt"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// dialect captures the few places SQLite and PostgreSQL SQL diverge.
type dialect interface {
	// Placeholder returns the bind marker for the i-th parameter (1-based).
	Placeholder(i int) string
	// ColumnType maps a cell kind to a column type for CREATE TABLE.
	ColumnType(k dataset.Kind) string
	// ListTablesSQL returns the catalog query for user table names.
	ListTablesSQL() string
}

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInt, dataset.KindBool:
		return "INTEGER"
	case dataset.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) ListTablesSQL() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(i int) string { return fmt.Sprintf("$%d", i) }

func (postgresDialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInt:
		return "BIGINT"
	case dataset.KindBool:
		return "BOOLEAN"
	case dataset.KindFloat:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func (postgresDialect) ListTablesSQL() string {
	return "SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename"
}
