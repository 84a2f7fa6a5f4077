package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <key> column=value...",
		Short: "Change columns of the row with the given key",
		Long: `Update writes the given columns of one row and prints the row as stored.
Assigning the key column moves the row to a new key.`,
		Example: `  tablerow update user 3 email=new@example.com`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := parseAssignments(args[2:])
			if err != nil {
				return fail("update", err)
			}
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				row, err := h.Update(cmd.Context(), args[1], partial)
				if err != nil {
					return fail("update", err)
				}
				return a.writeRow(row)
			})
		},
	}
}
