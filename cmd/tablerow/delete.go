package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/demo"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <key>...",
		Short: "Remove rows by key",
		Long: `Delete removes the rows with the given keys. A single key that matches
no row is an error; with several keys the number removed is reported.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHandle(cmd.Context(), args[0], func(h demo.Handle) error {
				n, err := h.Delete(cmd.Context(), args[1:])
				if err != nil {
					return fail("delete", err)
				}
				if a.flagJSON {
					return a.writeJSON(map[string]int64{"deleted": n})
				}
				fmt.Fprintf(a.stdout, "Deleted %d row(s) from %s\n", n, h.Name())
				return nil
			})
		},
	}
}
