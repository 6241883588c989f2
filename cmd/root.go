// Package cmd implements the command-line interface for the schema
// markup generator. The stepwise commands (analyze, generate, inject)
// mirror the manual wizard flow with the operator gating each stage;
// run is auto-pilot, walking every stage without a gate.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd is the root command for the schemagen CLI.
	rootCmd = &cobra.Command{
		Use:   "schemagen",
		Short: "Generate and inject Schema.org markup for a WordPress site",
		Long: `schemagen crawls a WordPress site's sitemap, drafts Schema.org
JSON-LD for each page with an LLM provider, validates the draft
locally, and writes it back into WordPress via a custom meta field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command. The command context is cancelled on
// SIGINT or SIGTERM so long-running commands shut down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// init wires global flags and subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("schemagen version %s\n", version)
		},
	})

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newInjectCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newCacheCommand())
	rootCmd.AddCommand(newScheduleCommand())
}
