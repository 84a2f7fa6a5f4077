package table

import (
	"context"
	"fmt"
	"maps"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mesh-intelligence/tablerow/pkg/sqlgen"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// validate runs the field rules of every column present in values.
func (t *Table[K, R]) validate(values map[string]any) error {
	errs := validation.Errors{}
	for col, v := range values {
		f, ok := t.schema.Field(col)
		if !ok || len(f.Rules) == 0 {
			continue
		}
		if err := validation.Validate(v, f.Rules...); err != nil {
			errs[col] = err
		}
	}
	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %s: %w", types.ErrInvalidData, t.schema.Table, err)
	}
	return nil
}

// Create inserts a row built from row and returns its object. Identifiers
// generated client side are assigned when row has none; auto-increment
// identifiers are read back from the insert.
func (t *Table[K, R]) Create(ctx context.Context, row map[string]any) (*Object[K, R], error) {
	o, err := t.FromRow(row)
	if err != nil {
		return nil, err
	}
	if err := t.insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (t *Table[K, R]) insert(ctx context.Context, o *Object[K, R]) error {
	if err := t.validate(o.ArrayForm()); err != nil {
		return err
	}
	if !o.hasKey {
		if k, ok := t.keys.Generate(); ok {
			o.key, o.hasKey = k, true
		}
	}
	stored, err := o.storedForm()
	if err != nil {
		return err
	}
	sql, err := sqlgen.Insert(t.dialect(), t.schema.Table, stored)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.conn.Exec(ctx, sql)
	if err != nil {
		return err
	}
	if !o.hasKey {
		if k, ok := t.keys.Assigned(res); ok {
			o.key, o.hasKey = k, true
		}
	}
	o.persisted = true
	if t.keys.Keyed() && o.hasKey {
		t.cache.Store(o.key, o)
	}
	return nil
}

// Replace writes row with REPLACE: an existing row with the same primary or
// unique key is overwritten, otherwise a new row is inserted. The cached
// object for the key is refreshed.
func (t *Table[K, R]) Replace(ctx context.Context, row map[string]any) (*Object[K, R], error) {
	o, err := t.FromRow(row)
	if err != nil {
		return nil, err
	}
	if err := t.replaceObject(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (t *Table[K, R]) replaceObject(ctx context.Context, o *Object[K, R]) error {
	if err := t.validate(o.ArrayForm()); err != nil {
		return err
	}
	if !o.hasKey {
		if k, ok := t.keys.Generate(); ok {
			o.key, o.hasKey = k, true
		}
	}
	stored, err := o.storedForm()
	if err != nil {
		return err
	}
	sql, err := sqlgen.Replace(t.dialect(), t.schema.Table, stored)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.conn.Exec(ctx, sql)
	if err != nil {
		return err
	}
	if !o.hasKey {
		if k, ok := t.keys.Assigned(res); ok {
			o.key, o.hasKey = k, true
		}
	}
	o.persisted = true
	if t.keys.Keyed() && o.hasKey {
		t.cache.Store(o.key, o)
	}
	return nil
}

// updateObject writes every column of a persisted object to the row
// identified by prev, moving the row to the object's key when it differs.
func (t *Table[K, R]) updateObject(ctx context.Context, o *Object[K, R], prev K) error {
	if err := t.validate(o.ArrayForm()); err != nil {
		return err
	}
	stored, err := o.storedForm()
	if err != nil {
		return err
	}
	if prev == o.key {
		delete(stored, t.keys.Column())
	}
	where, err := t.keyWhere(prev)
	if err != nil {
		return err
	}
	sql, err := sqlgen.Update(t.dialect(), t.schema.Table, stored, where)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.conn.Exec(ctx, sql); err != nil {
		return err
	}
	if prev != o.key {
		t.cache.Delete(prev)
	}
	t.cache.Store(o.key, o)
	return nil
}

// Update writes the columns in partial to the row identified by key and
// returns the updated object. When the object is cached the new state is the
// cached property map with partial applied; otherwise the row is read back.
// A key column in partial moves the row, and the old key leaves the cache.
//
// Update works on the table directly and never goes through an Object, whose
// Save calls back into the table.
func (t *Table[K, R]) Update(ctx context.Context, key K, partial map[string]any) (*Object[K, R], error) {
	key, err := t.canonical(key)
	if err != nil {
		return nil, err
	}
	if err := t.validate(partial); err != nil {
		return nil, err
	}

	newKey := key
	stored := maps.Clone(partial)
	col := t.keys.Column()
	if v, ok := partial[col]; ok {
		if newKey, err = t.keys.Decode(v); err != nil {
			return nil, err
		}
		if stored[col], err = t.keys.Encode(newKey); err != nil {
			return nil, err
		}
	}
	where, err := t.keyWhere(key)
	if err != nil {
		return nil, err
	}
	sql, err := sqlgen.Update(t.dialect(), t.schema.Table, stored, where)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.conn.Exec(ctx, sql); err != nil {
		return nil, err
	}

	var updated *Object[K, R]
	if cached, ok := t.cache.Load(key); ok {
		merged := cached.ArrayForm()
		maps.Copy(merged, partial)
		merged[col] = newKey
		updated = &Object[K, R]{table: t, persisted: true}
		if err := updated.initialize(merged, nil); err != nil {
			return nil, err
		}
	} else {
		loaded, err := t.loadIDs(ctx, []K{newKey}, loadOptions{noCache: true})
		if err != nil {
			return nil, err
		}
		var found bool
		if updated, found = loaded[newKey]; !found {
			return nil, fmt.Errorf("%w: no %s row with %s %v", types.ErrNoSuchID, t.schema.Table, col, newKey)
		}
	}

	if newKey != key {
		t.cache.Delete(key)
	}
	t.cache.Store(newKey, updated)
	return updated, nil
}

// Delete removes the row identified by key and evicts it from the cache. A
// cached object for the key is marked deleted. It returns an error matching
// types.ErrNoSuchID when no row was removed.
func (t *Table[K, R]) Delete(ctx context.Context, key K) error {
	key, err := t.canonical(key)
	if err != nil {
		return err
	}
	where, err := t.keyWhere(key)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.conn.Exec(ctx, sqlgen.Delete(t.dialect(), t.schema.Table, where))
	if err != nil {
		return err
	}
	if o, ok := t.cache.LoadAndDelete(key); ok {
		o.deleted = true
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no %s row with %s %v", types.ErrNoSuchID, t.schema.Table, t.keys.Column(), key)
	}
	return nil
}

// DeleteIDs removes the rows with any of the given identifiers and returns
// how many were removed. Identifiers with no row are ignored.
func (t *Table[K, R]) DeleteIDs(ctx context.Context, keys []K) (int64, error) {
	if !t.keys.Keyed() {
		return 0, types.ErrKeyless
	}
	canon := make([]K, len(keys))
	encoded := make([]any, len(keys))
	for i, k := range keys {
		c, err := t.canonical(k)
		if err != nil {
			return 0, err
		}
		enc, err := t.keys.Encode(c)
		if err != nil {
			return 0, err
		}
		canon[i], encoded[i] = c, enc
	}
	where, err := sqlgen.Where(t.dialect(), types.Predicate{t.keys.Column(): encoded}, types.And)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.conn.Exec(ctx, sqlgen.Delete(t.dialect(), t.schema.Table, where))
	if err != nil {
		return 0, err
	}
	for _, k := range canon {
		if o, ok := t.cache.LoadAndDelete(k); ok {
			o.deleted = true
		}
	}
	return res.RowsAffected, nil
}

// DeleteOption configures a predicate delete.
type DeleteOption func(*deleteOptions)

type deleteOptions struct {
	keepCache bool
}

// KeepCache leaves the cache untouched after a predicate delete. The caller
// takes responsibility for evicting objects whose rows were removed.
func KeepCache() DeleteOption {
	return func(o *deleteOptions) { o.keepCache = true }
}

// DeleteWhereAnd removes the rows matching every column of p and returns how
// many were removed. The whole cache is emptied unless KeepCache is given.
// An empty predicate removes every row.
func (t *Table[K, R]) DeleteWhereAnd(ctx context.Context, p types.Predicate, opts ...DeleteOption) (int64, error) {
	return t.deleteWhere(ctx, p, types.And, opts)
}

// DeleteWhereOr removes the rows matching any column of p.
func (t *Table[K, R]) DeleteWhereOr(ctx context.Context, p types.Predicate, opts ...DeleteOption) (int64, error) {
	return t.deleteWhere(ctx, p, types.Or, opts)
}

func (t *Table[K, R]) deleteWhere(ctx context.Context, p types.Predicate, conj types.Conjunction, opts []DeleteOption) (int64, error) {
	var do deleteOptions
	for _, opt := range opts {
		opt(&do)
	}
	p, err := t.encodePredicate(p)
	if err != nil {
		return 0, err
	}
	where, err := sqlgen.Where(t.dialect(), p, conj)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res, err := t.conn.Exec(ctx, sqlgen.Delete(t.dialect(), t.schema.Table, where))
	if err != nil {
		return 0, err
	}
	if !do.keepCache {
		t.cache.Clear()
	}
	return res.RowsAffected, nil
}

// DeleteAll removes every row and empties the cache. It uses TRUNCATE where
// the database has it, and DELETE FROM when inTransaction is set because
// TRUNCATE commits implicitly.
func (t *Table[K, R]) DeleteAll(ctx context.Context, inTransaction bool) error {
	sql := sqlgen.Truncate(t.dialect(), t.schema.Table)
	if inTransaction {
		sql = sqlgen.Delete(t.dialect(), t.schema.Table, "")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.conn.Exec(ctx, sql); err != nil {
		return err
	}
	t.cache.Clear()
	return nil
}
