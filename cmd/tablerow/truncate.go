package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
)

func newTruncateCmd(a *app) *cobra.Command {
	var inTransaction bool
	cmd := &cobra.Command{
		Use:   "truncate <table>",
		Short: "Remove every row of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				if err := h.Truncate(cmd.Context(), inTransaction); err != nil {
					return fail("truncate", err)
				}
				fmt.Fprintf(a.stdout, "Truncated %s\n", h.Name())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&inTransaction, "in-transaction", false, "use DELETE instead of TRUNCATE")
	return cmd
}
