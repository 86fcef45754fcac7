package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"turbols/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "turbols",
	Short: "Turbo-Gherkin language service",
	Long:  `turbols provides tokenization, validation, completion and link resolution for Turbo-Gherkin scripts`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("toml", "", "path to turbols.toml")
	rootCmd.PersistentFlags().String("steps", "", "path to a JSON step-list payload")
	rootCmd.PersistentFlags().String("vocab", "", "path to a vocabulary snapshot")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	return flag == "on" || (flag == "auto" && isTerminal(f))
}
