package demo

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

var mysqlSchema = []string{
	"CREATE TABLE IF NOT EXISTS `user` (" +
		"`id` int unsigned NOT NULL AUTO_INCREMENT, " +
		"`name` varchar(255) NOT NULL, " +
		"`email` text NOT NULL, " +
		"PRIMARY KEY (`id`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `user_uuid_table` (" +
		"`uuid` binary(16) NOT NULL, " +
		"`name` varchar(255) NOT NULL, " +
		"`email` text NOT NULL, " +
		"PRIMARY KEY (`uuid`)" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	"CREATE TABLE IF NOT EXISTS `user_no_id_table` (" +
		"`name` varchar(255) NOT NULL, " +
		"`email` text NOT NULL" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		"id"    INTEGER PRIMARY KEY AUTOINCREMENT,
		"name"  VARCHAR(255) NOT NULL,
		"email" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "user_uuid_table" (
		"uuid"  BINARY(16) NOT NULL PRIMARY KEY,
		"name"  VARCHAR(255) NOT NULL,
		"email" TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "user_no_id_table" (
		"name"  VARCHAR(255) NOT NULL,
		"email" TEXT NOT NULL
	)`,
}

// Schema returns the CREATE TABLE statements for the demo tables in the
// given driver's dialect.
func Schema(driver string) ([]string, error) {
	switch driver {
	case types.DriverMySQL:
		return mysqlSchema, nil
	case types.DriverSQLite:
		return sqliteSchema, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, driver)
	}
}

// CreateSchema creates any demo table that does not exist yet.
func CreateSchema(ctx context.Context, conn types.Conn) error {
	stmts, err := Schema(conn.Dialect().Name())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
