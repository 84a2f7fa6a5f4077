package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <key>",
		Short: "Print the row with the given key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				row, err := h.Get(cmd.Context(), args[1])
				if err != nil {
					return fail("get", err)
				}
				return a.writeRow(row)
			})
		},
	}
}
