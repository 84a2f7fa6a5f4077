package sqlconn

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// timeLayout is the literal form of time.Time values; both dialects accept it
// for DATETIME columns.
const timeLayout = "2006-01-02 15:04:05.999999"

// DialectFor returns the dialect for a driver name.
func DialectFor(driver string) (types.Dialect, error) {
	switch driver {
	case types.DriverMySQL:
		return MySQL(), nil
	case types.DriverSQLite:
		return SQLite(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, driver)
	}
}

// MySQL returns the MySQL/MariaDB dialect: backtick identifiers, backslash
// string escaping, TRUNCATE available. It assumes the server does not run
// with NO_BACKSLASH_ESCAPES.
func MySQL() types.Dialect { return mysqlDialect{} }

// SQLite returns the SQLite dialect: double-quoted identifiers, doubled
// single quotes, no TRUNCATE.
func SQLite() types.Dialect { return sqliteDialect{} }

type mysqlDialect struct{}

func (mysqlDialect) Name() string           { return types.DriverMySQL }
func (mysqlDialect) SupportsTruncate() bool { return true }

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var mysqlStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

func (mysqlDialect) Escape(v any) (string, error) {
	return escapeValue(v, func(s string) string {
		return "'" + mysqlStringEscaper.Replace(s) + "'"
	})
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return types.DriverSQLite }
func (sqliteDialect) SupportsTruncate() bool { return false }

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) Escape(v any) (string, error) {
	return escapeValue(v, func(s string) string {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	})
}

// escapeValue renders the scalar kinds both dialects share; quote renders
// string literals.
func escapeValue(v any, quote func(string) string) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "NULL", nil
		}
		return escapeValue(rv.Elem().Interface(), quote)
	}

	switch x := v.(type) {
	case string:
		return quote(x), nil
	case []byte:
		return "X'" + hex.EncodeToString(x) + "'", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case time.Time:
		return quote(x.Format(timeLayout)), nil
	case fmt.Stringer:
		return quote(x.String()), nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: non-finite float %v", types.ErrUnsupportedValue, f)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case reflect.String:
		return quote(rv.String()), nil
	case reflect.Bool:
		return escapeValue(rv.Bool(), quote)
	}
	return "", fmt.Errorf("%w: %T", types.ErrUnsupportedValue, v)
}
