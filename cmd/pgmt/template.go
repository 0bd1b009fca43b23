package main

import (
	"github.com/spf13/cobra"

	"github.com/metagram-net/pgmt"
)

func templateCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "migration-template",
		Short: "Print the embedded default migration template",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			cli.Printf(pgmt.DefaultTemplate())
		},
	}
}
