package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// parseAssignments turns col=value arguments into a column map. Values that
// parse as JSON keep their JSON type; anything else is a string.
func parseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		col, value, ok := strings.Cut(arg, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("%w: invalid assignment %q (expected column=value)", errUsage, arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		out[col] = parsed
	}
	return out, nil
}

// writeRows prints rows as a JSON array with --json, otherwise one line per
// row with columns in name order.
func (a *app) writeRows(rows []map[string]any) error {
	if a.flagJSON {
		if rows == nil {
			rows = []map[string]any{}
		}
		return a.writeJSON(rows)
	}
	for _, row := range rows {
		fmt.Fprintln(a.stdout, formatRow(row))
	}
	return nil
}

func (a *app) writeRow(row map[string]any) error {
	if a.flagJSON {
		return a.writeJSON(row)
	}
	fmt.Fprintln(a.stdout, formatRow(row))
	return nil
}

func (a *app) writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail("marshal", err)
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

func formatRow(row map[string]any) string {
	parts := make([]string, 0, len(row))
	for _, col := range slices.Sorted(maps.Keys(row)) {
		v := row[col]
		if v == nil {
			parts = append(parts, col+"=NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%q", col, cast.ToString(v)))
	}
	return strings.Join(parts, " ")
}
