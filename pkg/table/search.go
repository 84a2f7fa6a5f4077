package table

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/tablerow/pkg/sqlgen"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// DefaultSearchLimit is the row limit of a search that sets none.
const DefaultSearchLimit int64 = 999999999999999999

// Search parameter names accepted by ParseSearchParams.
const (
	ParamStartID = "start_id"
	ParamEndID   = "end_id"
	ParamInID    = "in_id"
	ParamOffset  = "offset"
	ParamLimit   = "limit"
)

// SearchParams filters and pages a search. Identifier bounds are inclusive
// and apply to the key column. InIDs restricts results to those identifiers
// when HasInIDs is set; an empty list then matches nothing. A zero Limit
// means DefaultSearchLimit.
type SearchParams[K comparable] struct {
	StartID  *K
	EndID    *K
	InIDs    []K
	HasInIDs bool
	Offset   int64
	Limit    int64
}

// ParseSearchParams reads search parameters from loosely typed input such as
// decoded JSON or query strings. Unknown names are ignored. "in_id" must be
// a list; anything else is rejected with types.ErrInvalidFilter.
func (t *Table[K, R]) ParseSearchParams(m map[string]any) (SearchParams[K], error) {
	p := SearchParams[K]{Limit: DefaultSearchLimit}

	for _, name := range []string{ParamStartID, ParamEndID} {
		v, ok := m[name]
		if !ok || v == nil {
			continue
		}
		k, err := t.keys.Decode(v)
		if err != nil {
			return p, fmt.Errorf("%w: %s: %w", types.ErrInvalidFilter, name, err)
		}
		if name == ParamStartID {
			p.StartID = &k
		} else {
			p.EndID = &k
		}
	}

	if v, ok := m[ParamInID]; ok && v != nil {
		values, isList := sqlgen.ListValues(v)
		if !isList {
			return p, fmt.Errorf("%w: %s must be a list of ids, got %T", types.ErrInvalidFilter, ParamInID, v)
		}
		p.HasInIDs = true
		p.InIDs = make([]K, 0, len(values))
		for _, x := range values {
			k, err := t.keys.Decode(x)
			if err != nil {
				return p, fmt.Errorf("%w: %s: %w", types.ErrInvalidFilter, ParamInID, err)
			}
			p.InIDs = append(p.InIDs, k)
		}
	}

	var err error
	if v, ok := m[ParamOffset]; ok && v != nil {
		if p.Offset, err = cast.ToInt64E(v); err != nil {
			return p, fmt.Errorf("%w: %s: %w", types.ErrInvalidFilter, ParamOffset, err)
		}
	}
	if v, ok := m[ParamLimit]; ok && v != nil {
		if p.Limit, err = cast.ToInt64E(v); err != nil {
			return p, fmt.Errorf("%w: %s: %w", types.ErrInvalidFilter, ParamLimit, err)
		}
	}
	if p.Offset < 0 || p.Limit < 0 {
		return p, fmt.Errorf("%w: offset and limit must not be negative", types.ErrInvalidFilter)
	}
	return p, nil
}

// Search returns the rows selected by params. Results are not cached.
func (t *Table[K, R]) Search(ctx context.Context, params SearchParams[K]) ([]*Object[K, R], error) {
	return t.AdvancedSearch(ctx, params)
}

// AdvancedSearch is Search with extra raw WHERE conditions, joined with AND
// to the identifier filters. Each condition is parenthesized and otherwise
// sent as is.
func (t *Table[K, R]) AdvancedSearch(ctx context.Context, params SearchParams[K], clauses ...string) ([]*Object[K, R], error) {
	if params.StartID != nil || params.EndID != nil || params.HasInIDs {
		if !t.keys.Keyed() {
			return nil, types.ErrKeyless
		}
	}
	d := t.dialect()
	col := d.QuoteIdent(t.keys.Column())
	conds := make([]string, 0, len(clauses)+3)
	for _, c := range clauses {
		conds = append(conds, "("+c+")")
	}

	bound := func(op string, k *K) error {
		if k == nil {
			return nil
		}
		enc, err := t.keys.Encode(*k)
		if err != nil {
			return err
		}
		lit, err := d.Escape(enc)
		if err != nil {
			return err
		}
		conds = append(conds, col+" "+op+" "+lit)
		return nil
	}
	if err := bound(">=", params.StartID); err != nil {
		return nil, err
	}
	if err := bound("<=", params.EndID); err != nil {
		return nil, err
	}
	if params.HasInIDs {
		encoded := make([]any, len(params.InIDs))
		for i, k := range params.InIDs {
			enc, err := t.keys.Encode(k)
			if err != nil {
				return nil, err
			}
			encoded[i] = enc
		}
		in, err := sqlgen.Where(d, types.Predicate{t.keys.Column(): encoded}, types.And)
		if err != nil {
			return nil, err
		}
		conds = append(conds, in)
	}

	limit := params.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	sql := sqlgen.Limit(sqlgen.SelectWhere(d, t.schema.Table, strings.Join(conds, " AND ")), params.Offset, limit)
	return t.query(ctx, sql, false)
}
