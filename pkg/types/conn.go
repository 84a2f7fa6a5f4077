package types

import "context"

// Conn is the live database connection a table handler issues SQL through.
// Statements are complete SQL text; values have already been escaped by the
// connection's Dialect.
type Conn interface {
	// Query runs a statement that returns rows and materializes the result.
	Query(ctx context.Context, query string) (*ResultSet, error)

	// Exec runs a statement that does not return rows.
	Exec(ctx context.Context, query string) (ExecResult, error)

	// Dialect returns the quoting and escaping rules of the database.
	Dialect() Dialect
}

// Dialect renders identifiers and values as SQL text for one database flavour.
type Dialect interface {
	// Name is the driver name, e.g. "mysql" or "sqlite".
	Name() string

	// QuoteIdent quotes a table or column name.
	QuoteIdent(name string) string

	// Escape renders a scalar as a SQL literal. nil renders as NULL and
	// []byte renders as a hex blob literal.
	Escape(v any) (string, error)

	// SupportsTruncate reports whether TRUNCATE is available. When it is not,
	// DeleteAll falls back to DELETE FROM.
	SupportsTruncate() bool
}

// ExecResult reports the outcome of an Exec call.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

// Column describes one result column. WireType is the database type name as
// reported by the driver (e.g. "BIGINT", "VARCHAR", "BINARY").
type Column struct {
	Name     string
	WireType string
}

// ResultSet is a fully read query result. Each row maps column name to the
// raw value produced by the driver.
type ResultSet struct {
	Columns []Column
	Rows    []map[string]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// FieldTypes returns the column name to wire type map, or nil when the
// driver reported no type information.
func (r *ResultSet) FieldTypes() map[string]string {
	if r == nil || len(r.Columns) == 0 {
		return nil
	}
	types := make(map[string]string, len(r.Columns))
	for _, c := range r.Columns {
		if c.WireType != "" {
			types[c.Name] = c.WireType
		}
	}
	if len(types) == 0 {
		return nil
	}
	return types
}
