package table

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/mesh-intelligence/tablerow/pkg/sqlgen"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// Table is the handler for one SQL table whose rows map to R and are
// identified by K. It issues every statement through a types.Conn and caches
// the objects it loads or writes, keyed by identifier.
type Table[K comparable, R any] struct {
	conn   types.Conn
	schema Schema[R]
	keys   KeyStrategy[K]
	logger *slog.Logger
	strict bool
	onWarn func(context.Context, error)

	// mu serializes statements that touch the cache, so the cache
	// follows statement order.
	mu    sync.Mutex
	cache *xsync.MapOf[K, *Object[K, R]]
}

// Option configures a Table.
type Option func(*options)

type options struct {
	logger *slog.Logger
	strict bool
	onWarn func(context.Context, error)
}

// WithLogger sets the table's logger. The table adds a "table" attribute.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// StrictSetters makes Object.Update fail with a MissingSetterWarning when a
// column has no setter, instead of logging it and applying the rest.
func StrictSetters() Option {
	return func(o *options) { o.strict = true }
}

// WithWarningHandler replaces the default handler for non-fatal warnings,
// which logs them at warn level.
func WithWarningHandler(fn func(context.Context, error)) Option {
	return func(o *options) { o.onWarn = fn }
}

// New returns a handler for the table described by schema.
func New[K comparable, R any](conn types.Conn, schema Schema[R], keys KeyStrategy[K], opts ...Option) *Table[K, R] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[K, R]{
		conn:   conn,
		schema: schema,
		keys:   keys,
		logger: o.logger.With("table", schema.Table),
		strict: o.strict,
		onWarn: o.onWarn,
		cache:  xsync.NewMapOf[K, *Object[K, R]](),
	}
}

// Name returns the table name.
func (t *Table[K, R]) Name() string { return t.schema.Table }

// Schema returns the column bindings of the table.
func (t *Table[K, R]) Schema() Schema[R] { return t.schema }

// Keys returns the table's key strategy.
func (t *Table[K, R]) Keys() KeyStrategy[K] { return t.keys }

func (t *Table[K, R]) dialect() types.Dialect { return t.conn.Dialect() }

func (t *Table[K, R]) warn(ctx context.Context, err error) {
	if t.onWarn != nil {
		t.onWarn(ctx, err)
		return
	}
	t.logger.WarnContext(ctx, "row object warning", "err", err)
}

// New returns an empty, unpersisted object. Tables whose keys are generated
// client side assign the identifier now.
func (t *Table[K, R]) New() *Object[K, R] {
	o := &Object[K, R]{table: t}
	if k, ok := t.keys.Generate(); ok {
		o.key, o.hasKey = k, true
	}
	return o
}

// FromRow builds an unpersisted object from a column to value map, as
// supplied by a caller. UUID tables assign a fresh key when the row carries
// none, as New does.
func (t *Table[K, R]) FromRow(row map[string]any) (*Object[K, R], error) {
	o := &Object[K, R]{table: t}
	if err := o.initialize(row, nil); err != nil {
		return nil, err
	}
	if !o.hasKey {
		if k, ok := t.keys.Generate(); ok {
			o.key, o.hasKey = k, true
		}
	}
	return o, nil
}

// canonical normalizes a caller supplied key so cache lookups match keys
// decoded from rows.
func (t *Table[K, R]) canonical(k K) (K, error) {
	if !t.keys.Keyed() {
		return k, types.ErrKeyless
	}
	return t.keys.Decode(k)
}

// keyWhere restricts a statement to the row with identifier k.
func (t *Table[K, R]) keyWhere(k K) (string, error) {
	enc, err := t.keys.Encode(k)
	if err != nil {
		return "", err
	}
	return sqlgen.Where(t.dialect(), types.Predicate{t.keys.Column(): enc}, types.And)
}

// encodePredicate converts key column values in p to their stored form.
func (t *Table[K, R]) encodePredicate(p types.Predicate) (types.Predicate, error) {
	if !t.keys.Keyed() {
		return p, nil
	}
	col := t.keys.Column()
	v, ok := p[col]
	if !ok || v == nil {
		return p, nil
	}
	out := maps.Clone(p)
	if values, isList := sqlgen.ListValues(v); isList {
		encoded := make([]any, len(values))
		for i, x := range values {
			enc, err := t.encodeKeyValue(x)
			if err != nil {
				return nil, err
			}
			encoded[i] = enc
		}
		out[col] = encoded
		return out, nil
	}
	enc, err := t.encodeKeyValue(v)
	if err != nil {
		return nil, err
	}
	out[col] = enc
	return out, nil
}

func (t *Table[K, R]) encodeKeyValue(v any) (any, error) {
	k, err := t.keys.Decode(v)
	if err != nil {
		return nil, err
	}
	return t.keys.Encode(k)
}

// query runs a SELECT and builds objects from its rows. Keyed objects are
// stored in the cache when cache is set, and the caller must then hold t.mu.
func (t *Table[K, R]) query(ctx context.Context, sql string, cache bool) ([]*Object[K, R], error) {
	rs, err := t.conn.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	fieldTypes := rs.FieldTypes()
	objects := make([]*Object[K, R], 0, rs.Len())
	for _, row := range rs.Rows {
		o := &Object[K, R]{table: t, persisted: true}
		if err := o.initialize(row, fieldTypes); err != nil {
			return nil, fmt.Errorf("%s: %w", t.schema.Table, err)
		}
		if cache && t.keys.Keyed() && o.hasKey {
			t.cache.Store(o.key, o)
		}
		objects = append(objects, o)
	}
	return objects, nil
}

// LoadOption configures a load by key.
type LoadOption func(*loadOptions)

type loadOptions struct {
	noCache bool
}

// NoCache forces a database read even when the object is cached. The fresh
// object replaces the cached one.
func NoCache() LoadOption {
	return func(o *loadOptions) { o.noCache = true }
}

// load runs a SELECT under the table lock and caches the objects it reads.
func (t *Table[K, R]) load(ctx context.Context, sql string) ([]*Object[K, R], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query(ctx, sql, true)
}

// LoadAll empties the cache and loads every row.
func (t *Table[K, R]) LoadAll(ctx context.Context) ([]*Object[K, R], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Clear()
	return t.query(ctx, sqlgen.SelectAll(t.dialect(), t.schema.Table), true)
}

// Load returns the object with identifier key, from the cache when present.
// It returns an error matching types.ErrNoSuchID when no row has that key.
func (t *Table[K, R]) Load(ctx context.Context, key K, opts ...LoadOption) (*Object[K, R], error) {
	canon, err := t.canonical(key)
	if err != nil {
		return nil, err
	}
	objects, err := t.LoadIDs(ctx, []K{canon}, opts...)
	if err != nil {
		return nil, err
	}
	o, ok := objects[canon]
	if !ok {
		return nil, fmt.Errorf("%w: no %s row with %s %v", types.ErrNoSuchID, t.schema.Table, t.keys.Column(), key)
	}
	return o, nil
}

// LoadIDs returns the objects with the given identifiers, keyed by
// identifier. Cached objects are served from the cache and the rest are
// read with a single IN query. Identifiers with no row are absent from the
// result; with NoCache they are also evicted.
func (t *Table[K, R]) LoadIDs(ctx context.Context, keys []K, opts ...LoadOption) (map[K]*Object[K, R], error) {
	if !t.keys.Keyed() {
		return nil, types.ErrKeyless
	}
	var lo loadOptions
	for _, opt := range opts {
		opt(&lo)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadIDs(ctx, keys, lo)
}

// loadIDs is LoadIDs for callers already holding t.mu.
func (t *Table[K, R]) loadIDs(ctx context.Context, keys []K, lo loadOptions) (map[K]*Object[K, R], error) {
	out := make(map[K]*Object[K, R], len(keys))
	var missing []any
	var fetched []K
	seen := make(map[K]bool, len(keys))
	for _, k := range keys {
		canon, err := t.canonical(k)
		if err != nil {
			return nil, err
		}
		if seen[canon] {
			continue
		}
		seen[canon] = true
		if !lo.noCache {
			if o, ok := t.cache.Load(canon); ok {
				out[canon] = o
				continue
			}
		}
		enc, err := t.keys.Encode(canon)
		if err != nil {
			return nil, err
		}
		missing = append(missing, enc)
		fetched = append(fetched, canon)
	}
	if len(missing) == 0 {
		return out, nil
	}

	where, err := sqlgen.Where(t.dialect(), types.Predicate{t.keys.Column(): missing}, types.And)
	if err != nil {
		return nil, err
	}
	objects, err := t.query(ctx, sqlgen.SelectWhere(t.dialect(), t.schema.Table, where), true)
	if err != nil {
		return nil, err
	}
	for _, o := range objects {
		out[o.key] = o
	}
	if lo.noCache {
		for _, k := range fetched {
			if _, ok := out[k]; !ok {
				t.cache.Delete(k)
			}
		}
	}
	return out, nil
}

// LoadRange loads count rows starting at offset. The offset is positional
// and unrelated to identifiers.
func (t *Table[K, R]) LoadRange(ctx context.Context, offset, count int64) ([]*Object[K, R], error) {
	return t.load(ctx, sqlgen.Limit(sqlgen.SelectAll(t.dialect(), t.schema.Table), offset, count))
}

// LoadWhereAnd loads the rows matching every column of p. A list value
// matches any of its elements.
func (t *Table[K, R]) LoadWhereAnd(ctx context.Context, p types.Predicate) ([]*Object[K, R], error) {
	return t.loadWhere(ctx, p, types.And)
}

// LoadWhereOr loads the rows matching any column of p.
func (t *Table[K, R]) LoadWhereOr(ctx context.Context, p types.Predicate) ([]*Object[K, R], error) {
	return t.loadWhere(ctx, p, types.Or)
}

func (t *Table[K, R]) loadWhere(ctx context.Context, p types.Predicate, conj types.Conjunction) ([]*Object[K, R], error) {
	p, err := t.encodePredicate(p)
	if err != nil {
		return nil, err
	}
	where, err := sqlgen.Where(t.dialect(), p, conj)
	if err != nil {
		return nil, err
	}
	return t.load(ctx, sqlgen.SelectWhere(t.dialect(), t.schema.Table, where))
}

// LoadWhereExplicit loads the rows matching a raw WHERE body. The text is
// sent as is; escaping any values in it is the caller's job.
func (t *Table[K, R]) LoadWhereExplicit(ctx context.Context, where string) ([]*Object[K, R], error) {
	return t.load(ctx, sqlgen.SelectWhere(t.dialect(), t.schema.Table, where))
}

// EmptyCache drops every cached object.
func (t *Table[K, R]) EmptyCache() {
	t.cache.Clear()
}

// UnsetCache drops the cached object for key, if any.
func (t *Table[K, R]) UnsetCache(key K) {
	if canon, err := t.canonical(key); err == nil {
		t.cache.Delete(canon)
	}
}

// CachedCount returns the number of cached objects.
func (t *Table[K, R]) CachedCount() int {
	return t.cache.Size()
}

// Cached returns the cached object for key without touching the database.
func (t *Table[K, R]) Cached(key K) (*Object[K, R], bool) {
	canon, err := t.canonical(key)
	if err != nil {
		return nil, false
	}
	return t.cache.Load(canon)
}
