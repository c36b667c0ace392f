package cli

import (
	"github.com/spf13/cobra"
)

var envFile string

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learnify",
		Short: "Learnify quiz service",
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file")
	cmd.AddCommand(newServeCmd(&envFile))
	cmd.AddCommand(newMigrateCmd(&envFile))
	return cmd
}
