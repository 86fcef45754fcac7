package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"turbols/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "turbols %s", version.Version)
		if version.GitCommit != "" {
			fmt.Fprintf(os.Stdout, " (%s)", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Fprintf(os.Stdout, " built %s", version.BuildDate)
		}
		fmt.Fprintln(os.Stdout)
	},
}
