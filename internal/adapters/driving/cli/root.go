// Package cli implements the sagesearch command-line interface.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sagesearch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sagesearch",
	Short: "Retrieval-augmented question answering over your documents",
	Long: `SageSearch ingests text documents into a vector index and answers
questions about them in the voice of a configurable persona, grounded
in the most relevant passages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Secrets may live in a local .env file; absence is fine.
		if err := godotenv.Load(); err == nil {
			logger.Debug("loaded environment from .env")
		}

		return initApp(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.sagesearch/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		closeApp()
		os.Exit(1)
	}
	closeApp()
}
