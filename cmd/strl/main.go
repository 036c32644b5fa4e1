package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"strl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "strl",
	Short:         "STRling pattern compiler",
	Long:          `strl compiles STRling pattern sources into target regex dialects`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errReported marks errors that were already rendered to stderr, so main
// does not print them a second time.
var errReported = errors.New("already reported")

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			rootCmd.PrintErrln("error:", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color mode against the output stream.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(f)
}
