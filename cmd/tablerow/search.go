package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
	"github.com/mesh-intelligence/tablerow/pkg/table"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		startID string
		endID   string
		inIDs   []string
		offset  int64
		limit   int64
	)
	cmd := &cobra.Command{
		Use:   "search <table>",
		Short: "Search rows by key range, key set and page",
		Example: `  tablerow search user --start-id 10 --end-id 20
  tablerow search user --in-id 3 --in-id 7
  tablerow search user_uuid --offset 20 --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]any{}
			if cmd.Flags().Changed("start-id") {
				params[table.ParamStartID] = startID
			}
			if cmd.Flags().Changed("end-id") {
				params[table.ParamEndID] = endID
			}
			if cmd.Flags().Changed("in-id") {
				params[table.ParamInID] = inIDs
			}
			if cmd.Flags().Changed("offset") {
				params[table.ParamOffset] = offset
			}
			if cmd.Flags().Changed("limit") {
				params[table.ParamLimit] = limit
			}
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				rows, err := h.Search(cmd.Context(), params)
				if err != nil {
					return fail("search", err)
				}
				return a.writeRows(rows)
			})
		},
	}
	cmd.Flags().StringVar(&startID, "start-id", "", "smallest key to include")
	cmd.Flags().StringVar(&endID, "end-id", "", "largest key to include")
	cmd.Flags().StringArrayVar(&inIDs, "in-id", nil, "key to include (repeatable)")
	cmd.Flags().Int64Var(&offset, "offset", 0, "rows to skip")
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum rows (default no limit)")
	return cmd
}
