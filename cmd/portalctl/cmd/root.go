package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"signin-portal/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Operate the sign-in portal",
	Long: `portalctl talks to a running portal and manages its database.

Available commands:
  signin    Sign in against the JSON API with email and password
  migrate   Apply the database schema

Use "portalctl [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
		logger.InitWriter(cmd.ErrOrStderr(), "text", level)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
