// Package sqlconn implements types.Conn over database/sql for the MySQL
// (go-sql-driver/mysql) and SQLite (modernc.org/sqlite) drivers.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// DatabaseFileName is the SQLite file created under Config.DataDir when no
// DSN is given.
const DatabaseFileName = "tablerow.db"

// Compile-time interface check: Conn must implement types.Conn.
var _ types.Conn = (*Conn)(nil)

// Conn is a types.Conn backed by a *sql.DB. Statements are sent as plain
// text; values are escaped by the dialect before they reach this type.
type Conn struct {
	db      *sql.DB
	dialect types.Dialect
	logger  *slog.Logger
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger statements are traced to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// New wraps an open database handle.
func New(db *sql.DB, dialect types.Dialect, opts ...Option) *Conn {
	c := &Conn{db: db, dialect: dialect, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("driver", dialect.Name())
	return c
}

// Open validates cfg and opens the configured database.
// For SQLite without a DSN, the database file lives in DataDir (created if
// needed); the pool is limited to one connection since SQLite serializes
// writers and in-memory databases are per connection.
func Open(cfg types.Config, opts ...Option) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch cfg.Driver {
	case types.DriverMySQL:
		db, err = openMySQL(cfg.DSN)
	case types.DriverSQLite:
		db, err = openSQLite(cfg)
	}
	if err != nil {
		return nil, err
	}
	return New(db, dialect, opts...), nil
}

func openMySQL(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("creating mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func openSQLite(cfg types.Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, DatabaseFileName)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Dialect returns the connection's dialect.
func (c *Conn) Dialect() types.Dialect { return c.dialect }

// DB exposes the underlying handle for schema setup and tests.
func (c *Conn) DB() *sql.DB { return c.db }

// Close closes the underlying handle.
func (c *Conn) Close() error { return c.db.Close() }

// Query runs query and reads every row into memory, keeping the driver's
// column type names so rows can be decoded into native types.
func (c *Conn) Query(ctx context.Context, query string) (*types.ResultSet, error) {
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		c.logger.Debug("query failed", "sql", query, "err", err)
		return nil, &types.QueryError{SQL: query, Err: err}
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, &types.QueryError{SQL: query, Err: err}
	}
	result := &types.ResultSet{Columns: make([]types.Column, len(colTypes))}
	for i, ct := range colTypes {
		result.Columns[i] = types.Column{Name: ct.Name(), WireType: ct.DatabaseTypeName()}
	}

	for rows.Next() {
		values := make([]any, len(colTypes))
		dest := make([]any, len(colTypes))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &types.QueryError{SQL: query, Err: fmt.Errorf("scanning row: %w", err)}
		}
		row := make(map[string]any, len(colTypes))
		for i, col := range result.Columns {
			row[col.Name] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.QueryError{SQL: query, Err: err}
	}

	c.logger.Debug("query", "sql", query, "rows", len(result.Rows), "duration", time.Since(start))
	return result, nil
}

// Exec runs a statement that returns no rows. LastInsertID and RowsAffected
// are zero when the driver cannot report them for the statement.
func (c *Conn) Exec(ctx context.Context, query string) (types.ExecResult, error) {
	start := time.Now()
	res, err := c.db.ExecContext(ctx, query)
	if err != nil {
		c.logger.Debug("exec failed", "sql", query, "err", err)
		return types.ExecResult{}, &types.QueryError{SQL: query, Err: err}
	}

	var out types.ExecResult
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	c.logger.Debug("exec", "sql", query, "affected", out.RowsAffected, "duration", time.Since(start))
	return out, nil
}
