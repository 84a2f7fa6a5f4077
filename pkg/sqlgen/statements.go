package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// SelectAll returns SELECT * for the whole table.
func SelectAll(d types.Dialect, table string) string {
	return "SELECT * FROM " + d.QuoteIdent(table)
}

// SelectWhere returns SELECT * restricted by where. An empty where selects
// every row.
func SelectWhere(d types.Dialect, table, where string) string {
	return SelectAll(d, table) + whereSuffix(where)
}

// Limit appends a LIMIT offset, count clause.
func Limit(query string, offset, count int64) string {
	return fmt.Sprintf("%s LIMIT %d, %d", query, offset, count)
}

// Insert returns an INSERT for row.
func Insert(d types.Dialect, table string, row map[string]any) (string, error) {
	return writeRow(d, "INSERT INTO", table, row)
}

// Replace returns a REPLACE (insert or overwrite by primary/unique key) for row.
func Replace(d types.Dialect, table string, row map[string]any) (string, error) {
	return writeRow(d, "REPLACE INTO", table, row)
}

func writeRow(d types.Dialect, verb, table string, row map[string]any) (string, error) {
	if len(row) == 0 {
		return "", fmt.Errorf("%w: no columns to write", types.ErrInvalidData)
	}
	columns := sortedColumns(row)
	idents := make([]string, len(columns))
	lits := make([]string, len(columns))
	for i, col := range columns {
		lit, err := d.Escape(row[col])
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col, err)
		}
		idents[i] = d.QuoteIdent(col)
		lits[i] = lit
	}
	return fmt.Sprintf("%s %s (%s) VALUES (%s)",
		verb, d.QuoteIdent(table), strings.Join(idents, ", "), strings.Join(lits, ", ")), nil
}

// Update returns an UPDATE setting the columns of row, restricted by where.
func Update(d types.Dialect, table string, row map[string]any, where string) (string, error) {
	if len(row) == 0 {
		return "", fmt.Errorf("%w: no columns to update", types.ErrInvalidData)
	}
	columns := sortedColumns(row)
	pairs := make([]string, len(columns))
	for i, col := range columns {
		lit, err := d.Escape(row[col])
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col, err)
		}
		pairs[i] = d.QuoteIdent(col) + " = " + lit
	}
	return "UPDATE " + d.QuoteIdent(table) + " SET " + strings.Join(pairs, ", ") + whereSuffix(where), nil
}

// Delete returns a DELETE restricted by where. An empty where deletes every row.
func Delete(d types.Dialect, table, where string) string {
	return "DELETE FROM " + d.QuoteIdent(table) + whereSuffix(where)
}

// Truncate returns TRUNCATE where the dialect has it, DELETE FROM otherwise.
func Truncate(d types.Dialect, table string) string {
	if !d.SupportsTruncate() {
		return Delete(d, table, "")
	}
	return "TRUNCATE " + d.QuoteIdent(table)
}

func whereSuffix(where string) string {
	if where == "" {
		return ""
	}
	return " WHERE " + where
}

func sortedColumns(row map[string]any) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
