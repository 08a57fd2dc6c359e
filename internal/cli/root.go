// Package cli implements the graphql-basics command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hermdev/graphql-basics/internal/config"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "graphql-basics",
		Short: "In-memory users, posts and comments GraphQL API",
		Long: `
graphql-basics serves a small GraphQL API over an in-memory dataset of users,
posts and comments. Data lives for the lifetime of the process.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, err := cmd.Flags().GetString("env_file")
			if err != nil {
				return err
			}
			return config.LoadDotEnv(envFile)
		},
	}
	root.PersistentFlags().String("env_file", ".env",
		"File with KEY=VALUE lines loaded into the environment. Ignored if missing.")

	root.AddCommand(newServeCmd(), newSchemaCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
