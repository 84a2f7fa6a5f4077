package sqlgen

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// matchNothing is the clause an empty membership list compiles to.
const matchNothing = "1 = 0"

// Where builds the body of a WHERE clause (without the keyword) from p,
// joining per-column clauses with conj. Columns are emitted in sorted order.
// It returns "" only when p is empty, in which case the caller omits WHERE.
func Where(d types.Dialect, p types.Predicate, conj types.Conjunction) (string, error) {
	c, err := types.ParseConjunction(string(conj))
	if err != nil {
		return "", err
	}
	if len(p) == 0 {
		return "", nil
	}

	columns := make([]string, 0, len(p))
	for col := range p {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	clauses := make([]string, 0, len(columns))
	for _, col := range columns {
		clause, err := columnClause(d, col, p[col])
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " "+string(c)+" "), nil
}

func columnClause(d types.Dialect, col string, value any) (string, error) {
	if value == nil {
		return d.QuoteIdent(col) + " IS NULL", nil
	}
	values, isList := ListValues(value)
	if !isList {
		lit, err := d.Escape(value)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col, err)
		}
		return d.QuoteIdent(col) + " = " + lit, nil
	}
	if len(values) == 0 {
		return matchNothing, nil
	}
	lits, err := escapeAll(d, values)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", col, err)
	}
	return d.QuoteIdent(col) + " IN (" + strings.Join(lits, ", ") + ")", nil
}

// ListValues reports whether v is a membership list and returns its
// elements. Byte slices and byte arrays, such as a uuid.UUID, are scalars
// (binary values), not lists.
func ListValues(v any) ([]any, bool) {
	switch x := v.(type) {
	case []byte:
		return nil, false
	case []any:
		return x, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func escapeAll(d types.Dialect, values []any) ([]string, error) {
	lits := make([]string, len(values))
	for i, v := range values {
		lit, err := d.Escape(v)
		if err != nil {
			return nil, err
		}
		lits[i] = lit
	}
	return lits, nil
}
