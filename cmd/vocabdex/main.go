// Package main provides the vocabdex binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/vocabdex/internal/config"
	"github.com/kailas-cloud/vocabdex/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "vocabdex",
		Short: "Award vocabulary service",
		Long: `vocabdex serves the award vocabulary: CRUD over HTTP backed by
PostgreSQL, with search and suggest mirrored into a Redis Search index.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(), "Environment (selects config/<env>.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Explicit config file path")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(flags),
		migrateCmd(flags),
		reindexCmd(flags),
		purgeCmd(flags),
		funderCmd(flags),
		tokenCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return cmd
}

func (f *globalFlags) load() (config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.Load(f.env)
}
