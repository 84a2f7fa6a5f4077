// Package sqlgen renders the SQL text a table handler sends to its
// connection: WHERE clauses built from predicates and the SELECT, INSERT,
// REPLACE, UPDATE, DELETE and TRUNCATE statements around them.
//
// Every value passes through the connection's Dialect.Escape before it is
// interpolated, and every identifier through Dialect.QuoteIdent. The exact
// text produced is an implementation detail; callers should not depend on it.
package sqlgen
