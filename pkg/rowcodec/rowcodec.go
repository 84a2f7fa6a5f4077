// Package rowcodec decodes raw driver values into native Go types using the
// wire type names a query reports for its columns.
package rowcodec

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Kind is the decoding class of a wire type.
type Kind int

const (
	Other Kind = iota
	Integer
	Float
	Binary
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Binary:
		return "binary"
	default:
		return "other"
	}
}

var kinds = map[string]Kind{
	"TINYINT":   Integer,
	"SMALLINT":  Integer,
	"MEDIUMINT": Integer,
	"INT":       Integer,
	"INTEGER":   Integer,
	"BIGINT":    Integer,
	"BIT":       Integer,

	"FLOAT":   Float,
	"DOUBLE":  Float,
	"REAL":    Float,
	"DECIMAL": Float,
	"NUMERIC": Float,

	"BINARY":     Binary,
	"VARBINARY":  Binary,
	"BLOB":       Binary,
	"TINYBLOB":   Binary,
	"MEDIUMBLOB": Binary,
	"LONGBLOB":   Binary,
}

// Classify maps a driver type name such as "BIGINT", "int unsigned" or
// "binary(16)" to its Kind. Unknown names are Other.
func Classify(wireType string) Kind {
	name := strings.ToUpper(strings.TrimSpace(wireType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "UNSIGNED ")
	name = strings.TrimSuffix(strings.TrimSpace(name), " UNSIGNED")
	return kinds[strings.TrimSpace(name)]
}

// Decode converts raw into native values. types maps column name to wire
// type; when it is nil or empty every value passes through unchanged.
// Integer columns become int64, float columns float64, binary columns stay
// []byte, and any other column received as bytes becomes a string. nil is
// kept as nil.
func Decode(raw map[string]any, types map[string]string) (map[string]any, error) {
	if len(types) == 0 {
		return raw, nil
	}
	out := make(map[string]any, len(raw))
	for col, v := range raw {
		decoded, err := DecodeValue(v, Classify(types[col]))
		if err != nil {
			return nil, fmt.Errorf("decoding column %s: %w", col, err)
		}
		out[col] = decoded
	}
	return out, nil
}

// DecodeValue converts a single raw value to the native type for kind.
func DecodeValue(v any, kind Kind) (any, error) {
	if v == nil {
		return nil, nil
	}
	if kind == Binary {
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			return []byte(x), nil
		}
		return v, nil
	}
	// Text protocol drivers hand back numbers as bytes.
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch kind {
	case Integer:
		return cast.ToInt64E(v)
	case Float:
		return cast.ToFloat64E(v)
	default:
		return v, nil
	}
}
