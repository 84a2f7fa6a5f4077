package types

import (
	"errors"
	"fmt"
)

// Table operation errors.
var (
	ErrQuery              = errors.New("query execution failed")
	ErrNoSuchID           = errors.New("no such id")
	ErrMissingColumn      = errors.New("missing column")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrInvalidConjunction = errors.New("invalid conjunction")
	ErrMissingSetter      = errors.New("missing setter")
	ErrKeyless            = errors.New("operation requires a primary key")
	ErrInvalidKey         = errors.New("invalid key")
	ErrInvalidData        = errors.New("invalid row data")
	ErrInvalidFilter      = errors.New("invalid search filter")
	ErrUnsupportedValue   = errors.New("unsupported value type")
)

// Row object errors.
var (
	ErrDeleted      = errors.New("row object has been deleted")
	ErrNotPersisted = errors.New("row object has not been persisted")
)

// QueryError reports a statement the database rejected. It carries the SQL
// that was attempted and the driver error.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v [sql: %s]", e.Err, e.SQL)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is reports ErrQuery as a match so callers can test the category.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// MissingColumnError reports a required column absent from the row used to
// initialize a row object.
type MissingColumnError struct {
	Column string
	Type   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q is required by %s but missing from row", e.Column, e.Type)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// InvalidConjunctionError reports a conjunction other than AND or OR.
type InvalidConjunctionError struct {
	Conjunction string
}

func (e *InvalidConjunctionError) Error() string {
	return fmt.Sprintf("invalid conjunction %q: want AND or OR", e.Conjunction)
}

func (e *InvalidConjunctionError) Is(target error) bool { return target == ErrInvalidConjunction }

// MissingSetterWarning is raised when an update names a column the row type
// has no setter for. By default it is logged and the remaining columns are
// still applied; strict tables return it as an error instead.
type MissingSetterWarning struct {
	Column string
	Type   string
}

func (w MissingSetterWarning) Error() string {
	return fmt.Sprintf("missing setter for %q when updating %s", w.Column, w.Type)
}

func (w MissingSetterWarning) Is(target error) bool { return target == ErrMissingSetter }
