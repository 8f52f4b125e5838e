package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "crease",
		Short:        "Ball-by-ball cricket scoring",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (defaults to $CREASE_CONFIG)")

	root.AddCommand(newSimulateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "crease", version)
			return err
		},
	}
}
