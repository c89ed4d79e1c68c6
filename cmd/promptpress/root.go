package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "promptpress",
	Short: "Promptpress - prompt optimization service",
	Long: `Promptpress compresses and clarifies LLM prompts.

Each request runs through a deterministic rule engine and, in parallel,
through the configured LLM providers. Candidates are scored for semantic
fidelity against the original and the cheapest faithful rewrite wins.

Results are cached by prompt fingerprint and every request is journaled
for the metrics endpoint.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
