// Package table maps SQL table rows to typed row objects.
//
// A Table pairs a Schema (the column to struct-field bindings of a row type)
// with a KeyStrategy that decides how rows are identified: an auto-increment
// integer id, a UUID stored as 16 raw bytes, or no primary key at all. The
// table builds every statement through pkg/sqlgen, decodes results through
// pkg/rowcodec, and keeps an identity cache of the objects it has loaded or
// written, keyed by row identifier.
//
// Tables are safe for concurrent use. Objects are not; an Object returned
// from a keyed table is the cached instance, so callers sharing a table share
// its objects.
package table
