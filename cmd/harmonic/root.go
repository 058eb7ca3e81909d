package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "harmonic",
	Short: "Grading harness for macro-averaged F1 implementations",
	Long: "Harmonic grades candidate macro-F1 implementations against a\nreference engine and a fixed battery of edge cases, and can drive\nLLM trial campaigns that generate and grade candidates end to end.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(trialsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
