package types

import "strings"

// Predicate maps a column name to either a scalar (equality) or a slice of
// scalars (membership). An empty slice matches no rows.
type Predicate map[string]any

// Conjunction combines the per-column clauses of a Predicate.
type Conjunction string

// Supported conjunctions.
const (
	And Conjunction = "AND"
	Or  Conjunction = "OR"
)

// ParseConjunction normalizes s to And or Or. Matching is case-insensitive.
func ParseConjunction(s string) (Conjunction, error) {
	switch Conjunction(strings.ToUpper(strings.TrimSpace(s))) {
	case And:
		return And, nil
	case Or:
		return Or, nil
	default:
		return "", &InvalidConjunctionError{Conjunction: s}
	}
}
