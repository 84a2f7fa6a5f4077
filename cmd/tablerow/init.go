package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tablerow/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and the demo tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Fprintln(a.stdout, "tablerow initialized")
			fmt.Fprintln(a.stdout, "  config:", paths.ConfigFile(a.configDir))
			fmt.Fprintln(a.stdout, "  data:  ", s.dataDir)
			return nil
		},
	}
}
