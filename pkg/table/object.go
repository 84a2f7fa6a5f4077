package table

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/mesh-intelligence/tablerow/pkg/rowcodec"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Object is the in-memory form of one table row. Row holds the typed column
// values; the identifier and the persistence state are tracked alongside.
//
// An Object moves from unpersisted to persisted on its first successful
// Save and to deleted on Delete. A deleted object rejects every write with
// types.ErrDeleted.
type Object[K comparable, R any] struct {
	Row R

	table     *Table[K, R]
	key       K
	hasKey    bool
	persisted bool
	deleted   bool
}

// Key returns the row identifier and whether one is assigned.
func (o *Object[K, R]) Key() (K, bool) { return o.key, o.hasKey }

// Persisted reports whether the object has been written to or read from the
// database.
func (o *Object[K, R]) Persisted() bool { return o.persisted }

// Deleted reports whether the object's row has been deleted.
func (o *Object[K, R]) Deleted() bool { return o.deleted }

// Table returns the table the object belongs to.
func (o *Object[K, R]) Table() *Table[K, R] { return o.table }

// initialize fills the object from a row. The key column is read first and
// normalized to client form. Every bound column is then decoded and set; a
// column missing from row is an error unless it is nullable or has a
// database default.
func (o *Object[K, R]) initialize(row map[string]any, fieldTypes map[string]string) error {
	decoded, err := rowcodec.Decode(row, fieldTypes)
	if err != nil {
		return err
	}

	keys := o.table.keys
	if keys.Keyed() {
		if v, ok := decoded[keys.Column()]; ok && v != nil {
			k, err := keys.Decode(v)
			if err != nil {
				return err
			}
			o.key, o.hasKey = k, true
		}
	}

	for _, f := range o.table.schema.Fields {
		v, ok := decoded[f.Column]
		if !ok || v == nil {
			if !f.Optional() {
				return &types.MissingColumnError{Column: f.Column, Type: o.table.schema.TypeName()}
			}
			if !ok {
				continue
			}
		}
		if err := f.Set(&o.Row, v); err != nil {
			return err
		}
	}
	return nil
}

// ArrayForm returns the column to value map of the object in client form.
// The key column is included once an identifier is assigned.
func (o *Object[K, R]) ArrayForm() map[string]any {
	out := make(map[string]any, len(o.table.schema.Fields)+1)
	if o.table.keys.Keyed() && o.hasKey {
		out[o.table.keys.Column()] = o.key
	}
	for _, f := range o.table.schema.Fields {
		out[f.Column] = f.Get(&o.Row)
	}
	return out
}

// storedForm is ArrayForm with the key converted to its stored form.
func (o *Object[K, R]) storedForm() (map[string]any, error) {
	out := o.ArrayForm()
	if o.table.keys.Keyed() && o.hasKey {
		enc, err := o.table.keys.Encode(o.key)
		if err != nil {
			return nil, err
		}
		out[o.table.keys.Column()] = enc
	}
	return out, nil
}

// Get returns the value of column. The key column returns the identifier,
// or nil when none is assigned.
func (o *Object[K, R]) Get(column string) (any, error) {
	keys := o.table.keys
	if keys.Keyed() && column == keys.Column() {
		if !o.hasKey {
			return nil, nil
		}
		return o.key, nil
	}
	f, ok := o.table.schema.Field(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no column %q", types.ErrUnknownColumn, o.table.schema.TypeName(), column)
	}
	return f.Get(&o.Row), nil
}

// Set assigns value to column through its binding. The key column has no
// setter; identifiers change only through Table.Update.
func (o *Object[K, R]) Set(column string, value any) error {
	f, ok := o.table.schema.Field(column)
	if !ok {
		return types.MissingSetterWarning{Column: column, Type: o.table.schema.TypeName()}
	}
	return f.Set(&o.Row, value)
}

// Save writes the object. An unpersisted object is inserted; a persisted one
// is updated in place, or replaced wholesale when the key strategy says so.
// A persisted object whose key changed is always updated, which moves its
// row. Keyless objects can only be inserted.
func (o *Object[K, R]) Save(ctx context.Context) error {
	return o.save(ctx, o.key)
}

func (o *Object[K, R]) save(ctx context.Context, prev K) error {
	if o.deleted {
		return types.ErrDeleted
	}
	t := o.table
	if !o.persisted {
		return t.insert(ctx, o)
	}
	if !t.keys.Keyed() {
		return types.ErrKeyless
	}
	if t.keys.ReplaceOnSave() && prev == o.key {
		return t.replaceObject(ctx, o)
	}
	return t.updateObject(ctx, o, prev)
}

// Update applies the columns in partial through their setters and saves.
// A column without a setter is reported to the table's warning handler and
// skipped; on a table built with StrictSetters it fails the whole update
// before anything is applied. Row is left unchanged when the save fails.
func (o *Object[K, R]) Update(ctx context.Context, partial map[string]any) error {
	if o.deleted {
		return types.ErrDeleted
	}
	t := o.table
	typeName := t.schema.TypeName()

	if t.strict {
		for _, col := range slices.Sorted(maps.Keys(partial)) {
			if _, ok := t.schema.Field(col); !ok {
				return types.MissingSetterWarning{Column: col, Type: typeName}
			}
		}
	}

	row := o.Row
	for _, col := range slices.Sorted(maps.Keys(partial)) {
		f, ok := t.schema.Field(col)
		if !ok {
			t.warn(ctx, types.MissingSetterWarning{Column: col, Type: typeName})
			continue
		}
		if err := f.Set(&row, partial[col]); err != nil {
			return err
		}
	}
	saved := o.Row
	o.Row = row
	if err := o.Save(ctx); err != nil {
		o.Row = saved
		return err
	}
	return nil
}

// Replace re-initializes the object from a full row and saves it. Columns
// absent from full must be nullable or have a default, and are reset to
// their zero value. The identifier is kept unless full names a new one, in
// which case the row moves to it. The object is left unchanged when the save
// fails.
func (o *Object[K, R]) Replace(ctx context.Context, full map[string]any) error {
	if o.deleted {
		return types.ErrDeleted
	}
	next := Object[K, R]{table: o.table, persisted: o.persisted}
	if err := next.initialize(full, nil); err != nil {
		return err
	}
	if !next.hasKey {
		next.key, next.hasKey = o.key, o.hasKey
	}
	saved := *o
	*o = next
	if err := o.save(ctx, saved.key); err != nil {
		*o = saved
		return err
	}
	return nil
}

// Delete removes the object's row and marks the object deleted.
func (o *Object[K, R]) Delete(ctx context.Context) error {
	if o.deleted {
		return types.ErrDeleted
	}
	if !o.table.keys.Keyed() {
		return types.ErrKeyless
	}
	if !o.persisted {
		return types.ErrNotPersisted
	}
	if err := o.table.Delete(ctx, o.key); err != nil {
		return err
	}
	o.deleted = true
	return nil
}

// Clone returns an unpersisted copy without an identifier, so saving it
// inserts a new row instead of overwriting the original. Row is copied
// shallowly.
func (o *Object[K, R]) Clone() *Object[K, R] {
	return &Object[K, R]{Row: o.Row, table: o.table}
}
