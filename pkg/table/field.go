package table

import (
	"fmt"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Field binds one table column to a field of the row type R.
type Field[R any] struct {
	Column string
	Get    func(*R) any
	Set    func(*R, any) error

	// Nullable and Default mark columns a row may omit when an object is
	// initialized from it: the database stores NULL or its default.
	Nullable bool
	Default  bool

	// Rules validate the value written for this column on create, replace
	// and update.
	Rules []validation.Rule
}

// Optional reports whether the column may be absent from an initializing row.
func (f Field[R]) Optional() bool { return f.Nullable || f.Default }

// FieldOption configures a Field built by Bind.
type FieldOption func(*fieldConfig)

type fieldConfig struct {
	nullable bool
	dflt     bool
	rules    []validation.Rule
}

// Nullable marks the column as allowing NULL.
func Nullable() FieldOption {
	return func(c *fieldConfig) { c.nullable = true }
}

// HasDefault marks the column as having a database default.
func HasDefault() FieldOption {
	return func(c *fieldConfig) { c.dflt = true }
}

// Rules attaches ozzo-validation rules to the column.
func Rules(rules ...validation.Rule) FieldOption {
	return func(c *fieldConfig) { c.rules = append(c.rules, rules...) }
}

// Bind builds a Field for column from an accessor returning a pointer to the
// struct field. Values passed to Set are converted to V with spf13/cast, so
// decoded database values and loosely typed caller input both work.
//
//	table.Bind("email", func(u *User) *string { return &u.Email })
func Bind[R, V any](column string, field func(*R) *V, opts ...FieldOption) Field[R] {
	var cfg fieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return Field[R]{
		Column: column,
		Get:    func(r *R) any { return *field(r) },
		Set: func(r *R, v any) error {
			out, err := convert[V](v)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			*field(r) = out
			return nil
		},
		Nullable: cfg.nullable,
		Default:  cfg.dflt,
		Rules:    cfg.rules,
	}
}

// convert coerces v to V. nil yields the zero value, which is a nil pointer
// for nullable pointer fields.
func convert[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, nil
	}
	if x, ok := v.(V); ok {
		return x, nil
	}
	if b, ok := v.([]byte); ok {
		if _, wantBytes := any(zero).([]byte); !wantBytes {
			v = string(b)
		}
	}

	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = cast.ToStringE(v)
	case int:
		out, err = cast.ToIntE(v)
	case int32:
		out, err = cast.ToInt32E(v)
	case int64:
		out, err = cast.ToInt64E(v)
	case uint64:
		out, err = cast.ToUint64E(v)
	case float32:
		out, err = cast.ToFloat32E(v)
	case float64:
		out, err = cast.ToFloat64E(v)
	case bool:
		out, err = cast.ToBoolE(v)
	case []byte:
		s, serr := cast.ToStringE(v)
		out, err = []byte(s), serr
	case *string:
		s, serr := cast.ToStringE(v)
		out, err = &s, serr
	case *int64:
		n, serr := cast.ToInt64E(v)
		out, err = &n, serr
	case *float64:
		f, serr := cast.ToFloat64E(v)
		out, err = &f, serr
	default:
		return zero, fmt.Errorf("%w: cannot assign %T to %s", types.ErrInvalidData, v, reflect.TypeOf(&zero).Elem())
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return out.(V), nil
}

// Schema describes the row type R of one table: its name and column bindings.
type Schema[R any] struct {
	Table  string
	Fields []Field[R]
}

// Field returns the binding for column.
func (s Schema[R]) Field(column string) (Field[R], bool) {
	for _, f := range s.Fields {
		if f.Column == column {
			return f, true
		}
	}
	return Field[R]{}, false
}

// Columns lists the bound columns in declaration order.
func (s Schema[R]) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Column
	}
	return cols
}

// TypeName names the row type for error messages.
func (s Schema[R]) TypeName() string {
	return reflect.TypeOf((*R)(nil)).Elem().String()
}
