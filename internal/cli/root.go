// Package cli implements the appraise command line tool: a local
// analysis run against a directory, printed as human-readable tables.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCtx = context.Background()

var rootCmd = &cobra.Command{
	Use:   "appraise",
	Short: "Analyze and value a codebase with an LLM",
	Long: `appraise submits a local codebase to an LLM for a six-category
quality analysis and a monetary valuation, and prints the results.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		_ = godotenv.Load()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("appraise", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
