package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> column=value...",
		Short: "Insert a row and print it with its key",
		Example: `  tablerow create user name=alice email=alice@example.com
  tablerow create user_uuid uuid=0190a4d2-6f7a-7c3e-9a2b-3c4d5e6f7a8b name=bob email=bob@example.com`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseAssignments(args[1:])
			if err != nil {
				return fail("create", err)
			}
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				created, err := h.Create(cmd.Context(), row)
				if err != nil {
					return fail("create", err)
				}
				return a.writeRow(created)
			})
		},
	}
}
