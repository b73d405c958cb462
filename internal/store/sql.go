package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// sqlStore implements Store over database/sql for both backends.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*sqlStore)(nil)

func (s *sqlStore) Close() error { return s.db.Close() }

// SaveTable persists the dataset under the given table name. ModeReplace
// drops and recreates the table; ModeAppend deletes all existing rows
// first and requires the table to exist. Either way a second save of the
// same data leaves the same row count.
func (s *sqlStore) SaveTable(ctx context.Context, table string, d *dataset.Dataset, mode Mode) error {
	if d.NumColumns() == 0 {
		return fmt.Errorf("dataset has no columns")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save of %s: %w", table, err)
	}
	defer tx.Rollback()

	quoted := QuoteIdentifier(table)

	switch mode {
	case ModeReplace:
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, s.createTableSQL(quoted, d)); err != nil {
			return fmt.Errorf("creating %s: %w", table, err)
		}
	case ModeAppend:
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoted); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	default:
		return fmt.Errorf("unsupported save mode %q", mode)
	}

	if err := s.insertRows(ctx, tx, quoted, d); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save of %s: %w", table, err)
	}
	return nil
}

func (s *sqlStore) createTableSQL(quoted string, d *dataset.Dataset) string {
	defs := make([]string, 0, d.NumColumns())
	for _, name := range d.Columns() {
		values, _ := d.Column(name)
		defs = append(defs, QuoteIdentifier(name)+" "+s.dialect.ColumnType(columnKind(values)))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoted, strings.Join(defs, ", "))
}

func (s *sqlStore) insertRows(ctx context.Context, tx *sql.Tx, quoted string, d *dataset.Dataset) error {
	cols := d.Columns()
	quotedCols := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		quotedCols[i] = QuoteIdentifier(c)
		placeholders[i] = s.dialect.Placeholder(i + 1)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		args := make([]any, len(row))
		for c, v := range row {
			args[c] = v.Native()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// columnKind picks a storage type for a column from its cell kinds:
// uniform columns keep their kind, int/float mixes widen to float, and
// anything else (or an all-missing column) falls back to text.
func columnKind(values []dataset.Value) dataset.Kind {
	kind := dataset.KindMissing
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		switch {
		case kind == dataset.KindMissing:
			kind = v.Kind()
		case kind == v.Kind():
		case kind == dataset.KindInt && v.Kind() == dataset.KindFloat,
			kind == dataset.KindFloat && v.Kind() == dataset.KindInt:
			kind = dataset.KindFloat
		default:
			return dataset.KindString
		}
	}
	if kind == dataset.KindMissing {
		return dataset.KindString
	}
	return kind
}

// Query executes one free-form SQL statement and renders the result as
// strings. NULLs render as empty cells. An empty result is returned as a
// QueryResult with no rows, not as an error.
func (s *sqlStore) Query(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	result := &QueryResult{Columns: cols, Rows: [][]string{}}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rendered := make([]string, len(cols))
		for i, c := range cells {
			rendered[i] = dataset.FromAny(c).Render()
		}
		result.Rows = append(result.Rows, rendered)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// ListTables returns the user table names in the store.
func (s *sqlStore) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.ListTablesSQL())
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tables, nil
}

// DropTables drops each table independently and reports per-table
// outcomes. Dropping a table that does not exist is a successful no-op.
func (s *sqlStore) DropTables(ctx context.Context, tables []string) []DropReport {
	reports := make([]DropReport, 0, len(tables))
	for _, table := range tables {
		report := DropReport{Table: table}
		if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdentifier(table)); err != nil {
			report.Error = err.Error()
		} else {
			report.Dropped = true
		}
		reports = append(reports, report)
	}
	return reports
}
