package table

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/internal/sqlconn"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

type person struct {
	Name  string
	Email string
	Age   int64
}

func personSchema(name string) Schema[person] {
	return Schema[person]{
		Table: name,
		Fields: []Field[person]{
			Bind("name", func(p *person) *string { return &p.Name }, Rules(validation.Required)),
			Bind("email", func(p *person) *string { return &p.Email }, Rules(validation.Required, is.EmailFormat)),
			Bind("age", func(p *person) *int64 { return &p.Age }, HasDefault()),
		},
	}
}

const personDDL = `
CREATE TABLE "person" (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	age   INT NOT NULL DEFAULT 0
);
CREATE TABLE "person_uuid" (
	uuid  BINARY(16) PRIMARY KEY,
	name  VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	age   INT NOT NULL DEFAULT 0
);
CREATE TABLE "person_no_id" (
	name  VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	age   INT NOT NULL DEFAULT 0
);`

// countingConn counts the statements sent to the database.
type countingConn struct {
	types.Conn
	queries atomic.Int64
	execs   atomic.Int64
}

func (c *countingConn) Query(ctx context.Context, query string) (*types.ResultSet, error) {
	c.queries.Add(1)
	return c.Conn.Query(ctx, query)
}

func (c *countingConn) Exec(ctx context.Context, query string) (types.ExecResult, error) {
	c.execs.Add(1)
	return c.Conn.Exec(ctx, query)
}

func openTestConn(t *testing.T) *countingConn {
	t.Helper()
	cfg := types.Config{Driver: types.DriverSQLite, DataDir: filepath.Join(t.TempDir(), "data")}
	conn, err := sqlconn.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = conn.DB().Exec(personDDL)
	require.NoError(t, err)
	return &countingConn{Conn: conn}
}

func newAutoTable(t *testing.T, opts ...Option) (*Table[int64, person], *countingConn) {
	t.Helper()
	conn := openTestConn(t)
	return New(conn, personSchema("person"), AutoID(), opts...), conn
}

func newUUIDTable(t *testing.T, opts ...Option) (*Table[string, person], *countingConn) {
	t.Helper()
	conn := openTestConn(t)
	return New(conn, personSchema("person_uuid"), UUID(), opts...), conn
}

func newKeylessTable(t *testing.T, opts ...Option) (*Table[NoKey, person], *countingConn) {
	t.Helper()
	conn := openTestConn(t)
	return New(conn, personSchema("person_no_id"), Keyless(), opts...), conn
}

func personRow(name string) map[string]any {
	return map[string]any{"name": name, "email": name + "@example.com"}
}
