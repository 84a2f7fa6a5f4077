package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
	"github.com/mesh-intelligence/tablerow/pkg/sqlgen"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		where  []string
		or     bool
		offset int64
		limit  int64
	)
	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List rows, optionally filtered by column values",
		Long: `List prints the rows of a table. Each --where adds a column=value
condition; conditions are ANDed unless --or is given. A JSON array value
matches any of its elements.`,
		Example: `  tablerow list user
  tablerow list user --where name=alice
  tablerow list user --where name=alice --where name=bob --or
  tablerow list user --where 'id=[1,2,3]'
  tablerow list user --offset 10 --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseConditions(where, or)
			if err != nil {
				return fail("list", err)
			}
			conj := types.And
			if or {
				conj = types.Or
			}
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				rows, err := h.List(cmd.Context(), p, conj, offset, limit)
				if err != nil {
					return fail("list", err)
				}
				return a.writeRows(rows)
			})
		},
	}
	cmd.Flags().StringArrayVar(&where, "where", nil, "column=value condition (repeatable)")
	cmd.Flags().BoolVar(&or, "or", false, "match rows satisfying any condition")
	cmd.Flags().Int64Var(&offset, "offset", 0, "rows to skip")
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum rows to print (0 for no limit)")
	return cmd
}

// parseConditions builds a predicate from --where arguments. A JSON list
// value matches any of its elements. Under --or a column given more than
// once matches any of its values; without it a repeated column is a usage
// error.
func parseConditions(where []string, or bool) (types.Predicate, error) {
	p := types.Predicate{}
	for _, arg := range where {
		one, err := parseAssignments([]string{arg})
		if err != nil {
			return nil, err
		}
		for col, v := range one {
			prev, seen := p[col]
			if !seen {
				p[col] = v
				continue
			}
			if !or {
				return nil, fmt.Errorf("%w: column %q given more than once (use --or to match any)", errUsage, col)
			}
			p[col] = append(asList(prev), asList(v)...)
		}
	}
	return p, nil
}

// asList returns the elements of a list value, or v alone.
func asList(v any) []any {
	if values, ok := sqlgen.ListValues(v); ok {
		return values
	}
	return []any{v}
}
