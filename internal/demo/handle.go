package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tablerow/pkg/table"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Handle is a key-agnostic view of one demo table. Keys are passed as text
// and rows as column maps, which is what the command line deals in.
type Handle interface {
	Name() string
	Keyed() bool
	Create(ctx context.Context, row map[string]any) (map[string]any, error)
	Get(ctx context.Context, key string) (map[string]any, error)
	List(ctx context.Context, p types.Predicate, conj types.Conjunction, offset, limit int64) ([]map[string]any, error)
	Update(ctx context.Context, key string, partial map[string]any) (map[string]any, error)
	Delete(ctx context.Context, keys []string) (int64, error)
	Truncate(ctx context.Context, inTransaction bool) error
	Search(ctx context.Context, params map[string]any) ([]map[string]any, error)
}

// ErrUnknownTable is returned by Lookup for a name it does not know.
var ErrUnknownTable = errors.New("unknown table")

// Short names accepted by Lookup.
const (
	HandleUser     = "user"
	HandleUUIDUser = "user_uuid"
	HandleNoIDUser = "user_no_id"
)

// HandleNames lists the names Lookup accepts.
func HandleNames() []string {
	return []string{HandleUser, HandleUUIDUser, HandleNoIDUser}
}

// Lookup returns the handle for a short or full table name.
func (ts *Tables) Lookup(name string) (Handle, error) {
	switch name {
	case HandleUser: // same value as UserTable
		return handle[int64]{ts.Users}, nil
	case HandleUUIDUser, UUIDUserTable:
		return handle[string]{ts.UUIDUsers}, nil
	case HandleNoIDUser, NoIDUserTable:
		return handle[table.NoKey]{ts.NoIDUsers}, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownTable, name, HandleNames())
	}
}

type handle[K comparable] struct {
	t *table.Table[K, User]
}

func (h handle[K]) Name() string { return h.t.Name() }

func (h handle[K]) Keyed() bool { return h.t.Keys().Keyed() }

func (h handle[K]) key(s string) (K, error) {
	return h.t.Keys().Decode(s)
}

func (h handle[K]) Create(ctx context.Context, row map[string]any) (map[string]any, error) {
	o, err := h.t.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	return o.ArrayForm(), nil
}

func (h handle[K]) Get(ctx context.Context, key string) (map[string]any, error) {
	k, err := h.key(key)
	if err != nil {
		return nil, err
	}
	o, err := h.t.Load(ctx, k)
	if err != nil {
		return nil, err
	}
	return o.ArrayForm(), nil
}

// List loads rows matching p, or every row when p is empty. Without a
// predicate, offset and limit page in the database; with one they window
// the matches.
func (h handle[K]) List(ctx context.Context, p types.Predicate, conj types.Conjunction, offset, limit int64) ([]map[string]any, error) {
	var (
		objects []*table.Object[K, User]
		err     error
	)
	switch {
	case len(p) > 0 && conj == types.Or:
		objects, err = h.t.LoadWhereOr(ctx, p)
	case len(p) > 0:
		objects, err = h.t.LoadWhereAnd(ctx, p)
	case offset > 0 || limit > 0:
		if limit <= 0 {
			limit = table.DefaultSearchLimit
		}
		objects, err = h.t.LoadRange(ctx, offset, limit)
	default:
		objects, err = h.t.LoadAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(p) > 0 {
		objects = window(objects, offset, limit)
	}
	return rows(objects), nil
}

func (h handle[K]) Update(ctx context.Context, key string, partial map[string]any) (map[string]any, error) {
	k, err := h.key(key)
	if err != nil {
		return nil, err
	}
	o, err := h.t.Update(ctx, k, partial)
	if err != nil {
		return nil, err
	}
	return o.ArrayForm(), nil
}

func (h handle[K]) Delete(ctx context.Context, keys []string) (int64, error) {
	ks := make([]K, len(keys))
	for i, s := range keys {
		k, err := h.key(s)
		if err != nil {
			return 0, err
		}
		ks[i] = k
	}
	if len(ks) == 1 {
		if err := h.t.Delete(ctx, ks[0]); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return h.t.DeleteIDs(ctx, ks)
}

func (h handle[K]) Truncate(ctx context.Context, inTransaction bool) error {
	return h.t.DeleteAll(ctx, inTransaction)
}

func (h handle[K]) Search(ctx context.Context, params map[string]any) ([]map[string]any, error) {
	sp, err := h.t.ParseSearchParams(params)
	if err != nil {
		return nil, err
	}
	objects, err := h.t.Search(ctx, sp)
	if err != nil {
		return nil, err
	}
	return rows(objects), nil
}

func window[T any](items []T, offset, limit int64) []T {
	if offset >= int64(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func rows[K comparable](objects []*table.Object[K, User]) []map[string]any {
	out := make([]map[string]any, len(objects))
	for i, o := range objects {
		out[i] = o.ArrayForm()
	}
	return out
}
