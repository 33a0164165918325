package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/moviescope/internal/adapter"
)

// DefaultPath is where the dashboard looks for its data file.
const DefaultPath = "data/data.csv"

const stagingTable = "dataset"

// Opener returns a fresh database connection for one load.
type Opener func(ctx context.Context) (*adapter.DuckDB, error)

// Loader reads delimited files into Datasets.
type Loader struct {
	schema Schema
	open   Opener
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSchema overrides the expected schema. The default is MovieSchema.
func WithSchema(s Schema) LoaderOption {
	return func(l *Loader) { l.schema = s }
}

// WithOpener overrides how the loader obtains a database connection.
func WithOpener(open Opener) LoaderOption {
	return func(l *Loader) { l.open = open }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader backed by in-memory DuckDB.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		schema: MovieSchema(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.open == nil {
		logger := l.logger
		l.open = func(ctx context.Context) (*adapter.DuckDB, error) {
			return adapter.Open(ctx, ":memory:", logger)
		}
	}
	return l
}

// Schema returns the schema the loader validates against.
func (l *Loader) Schema() Schema { return l.schema }

// Load reads the file at path. Every failure is a *DataLoadError.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, loadError(path, "file not found", err)
		}
		return nil, loadError(path, "cannot stat file", err)
	}

	db, err := l.open(ctx)
	if err != nil {
		return nil, loadError(path, "open database", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.LoadCSV(ctx, stagingTable, path); err != nil {
		return nil, loadError(path, "parse csv", err)
	}

	raw, err := db.TableColumns(ctx, stagingTable)
	if err != nil {
		return nil, loadError(path, "read columns", err)
	}

	empty, err := l.emptyNumeric(ctx, db, raw)
	if err != nil {
		return nil, loadError(path, "read columns", err)
	}

	columns, err := l.shape(raw, empty)
	if err != nil {
		return nil, loadError(path, "invalid columns", err)
	}

	ds, err := l.readRows(ctx, db, columns)
	if err != nil {
		return nil, loadError(path, "read rows", err)
	}

	l.logger.Info("dataset loaded", "path", path, "rows", ds.Len(), "columns", len(columns))
	return ds, nil
}

// emptyNumeric returns the required numeric columns that DuckDB typed as
// non-numeric only because they hold no values at all. A header-only file or
// an all-blank column sniffs as VARCHAR.
func (l *Loader) emptyNumeric(ctx context.Context, db *adapter.DuckDB, raw []adapter.Column) (map[string]bool, error) {
	types := make(map[string]string, len(raw))
	for _, c := range raw {
		types[c.Name] = c.Type
	}

	empty := make(map[string]bool)
	for _, name := range l.schema.Numeric {
		typ, ok := types[name]
		if !ok || kindForType(typ) == KindNumeric {
			continue
		}
		n, err := db.CountNonNull(ctx, stagingTable, name)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			empty[name] = true
		}
	}
	return empty, nil
}

// shape validates the raw table columns against the schema and returns the
// columns of the result, with dropped columns removed and date columns typed.
// Columns named in empty are typed numeric whatever DuckDB inferred.
func (l *Loader) shape(raw []adapter.Column, empty map[string]bool) ([]Column, error) {
	present := make(map[string]adapter.Column, len(raw))
	for _, c := range raw {
		present[c.Name] = c
	}

	var missing []string
	for _, name := range l.schema.required() {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for _, name := range l.schema.Numeric {
		if !empty[name] && kindForType(present[name].Type) != KindNumeric {
			return nil, fmt.Errorf("column %q is %s, want a numeric type", name, present[name].Type)
		}
	}

	columns := make([]Column, 0, len(raw))
	for _, c := range raw {
		if l.schema.drops(c.Name) {
			continue
		}
		kind := kindForType(c.Type)
		switch {
		case empty[c.Name]:
			kind = KindNumeric
		case l.schema.isDate(c.Name):
			kind = KindDate
		}
		columns = append(columns, Column{Name: c.Name, Kind: kind, SourceType: c.Type})
	}
	return columns, nil
}

func (l *Loader) readRows(ctx context.Context, db *adapter.DuckDB, columns []Column) (*Dataset, error) {
	rows, err := db.Query(ctx, selectQuery(columns))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		out = append(out, Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(columns, out)
}

// selectQuery projects the staging table onto columns. Numeric columns are
// widened to DOUBLE and date columns cast to DATE so scanned values have one
// Go type per kind. Rows come back in insertion order, which is file order.
func selectQuery(columns []Column) string {
	exprs := make([]string, len(columns))
	for i, c := range columns {
		ident := adapter.QuoteIdent(c.Name)
		switch c.Kind {
		case KindNumeric:
			exprs[i] = fmt.Sprintf("CAST(%s AS DOUBLE) AS %s", ident, ident)
		case KindDate:
			exprs[i] = fmt.Sprintf("CAST(%s AS DATE) AS %s", ident, ident)
		default:
			exprs[i] = ident
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(exprs, ", "), adapter.QuoteIdent(stagingTable))
}
