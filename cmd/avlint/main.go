package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"avlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "avlint",
	Short: "Coding-guideline analyzer for compilation-unit snapshots",
	Long:  `avlint runs a pluggable guideline rule catalog over syntax and symbol snapshots (*.avu) produced by language frontends`,
}

// main wires subcommands and persistent flags, then executes the root
// command. Execution errors exit with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
