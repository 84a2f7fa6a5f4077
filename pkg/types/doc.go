// Package types defines the contracts shared by every tablerow package: the
// connection and dialect a table talks through, result sets, where
// predicates, configuration, and the standard error types.
package types
