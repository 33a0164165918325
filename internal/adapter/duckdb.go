// Package adapter wraps the DuckDB connection used to ingest dataset files.
package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DefaultSchema is the schema DuckDB creates tables in.
const DefaultSchema = "main"

// Column is a column of a DuckDB table as reported by information_schema.
type Column struct {
	Name     string
	Type     string
	Position int
}

var errNotConnected = errors.New("duckdb: not connected")

// DuckDB is a thin wrapper over a DuckDB *sql.DB.
type DuckDB struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// New wraps an existing connection. It is used with sqlmock in tests.
func New(db *sql.DB, logger *slog.Logger) *DuckDB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DuckDB{DB: db, Logger: logger}
}

// Open connects to DuckDB. An empty path or ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DuckDB, error) {
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	return New(db, logger), nil
}

// Close closes the database connection.
func (a *DuckDB) Close() error {
	if a.DB == nil {
		return nil
	}
	a.Logger.Debug("closing database connection")
	return a.DB.Close()
}

// Exec executes a statement that doesn't return rows.
func (a *DuckDB) Exec(ctx context.Context, query string, args ...any) error {
	if a.DB == nil {
		return errNotConnected
	}
	if _, err := a.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query executes a statement that returns rows. The caller closes the rows and
// checks rows.Err after iterating.
func (a *DuckDB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if a.DB == nil {
		return nil, errNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// LoadCSV creates table from a CSV file with a header row, letting DuckDB infer
// column types.
func (a *DuckDB) LoadCSV(ctx context.Context, table, filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", filePath, err)
	}

	query := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto(%s, header=true)",
		QuoteIdent(table),
		quoteLiteral(absPath),
	)
	a.Logger.Debug("loading csv", "table", table, "path", absPath)

	if err := a.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}
	return nil
}

// TableColumns returns the columns of a table in ordinal order.
func (a *DuckDB) TableColumns(ctx context.Context, table string) ([]Column, error) {
	rows, err := a.Query(ctx, `
		SELECT column_name, data_type, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, DefaultSchema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// CountNonNull returns how many rows of table hold a value in column.
func (a *DuckDB) CountNonNull(ctx context.Context, table, column string) (int64, error) {
	rows, err := a.Query(ctx, fmt.Sprintf("SELECT count(%s) FROM %s", QuoteIdent(column), QuoteIdent(table)))
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
	}
	return n, rows.Err()
}

// QuoteIdent quotes a SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
