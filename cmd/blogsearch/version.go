package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/blogsearch/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogsearch %s\n", version.String())
		},
	}
}
