// Package sqlconn provides the public API for opening a database connection
// table handlers can use. Implementation details stay in internal/sqlconn.
package sqlconn

import (
	"io"
	"log/slog"

	"github.com/mesh-intelligence/tablerow/internal/sqlconn"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Conn is an open connection. It satisfies types.Conn and must be closed.
type Conn interface {
	types.Conn
	io.Closer
}

// Open validates cfg and opens the configured database. Statements are traced
// at debug level to logger; a nil logger uses slog.Default().
//
// Example:
//
//	conn, err := sqlconn.Open(types.Config{
//	    Driver:  types.DriverSQLite,
//	    DataDir: ".tablerow-db",
//	}, nil)
//	defer conn.Close()
func Open(cfg types.Config, logger *slog.Logger) (Conn, error) {
	conn, err := sqlconn.Open(cfg, sqlconn.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return conn, nil
}
