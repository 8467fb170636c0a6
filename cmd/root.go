// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the StripeQL application.
// It implements subcommands for credential management, catalog inspection, ad-hoc
// scans, the SQL server and Postgres sync using the Cobra CLI framework. The
// package handles command parsing, execution, and provides a rich terminal UI
// with spinners and progress indicators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	apiKeyFlag  string
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the StripeQL application.
var rootCmd = &cobra.Command{
	Use:   "stripeql",
	Short: "Query Stripe objects as relational tables",
	Long: `StripeQL exposes Stripe objects as relational tables: scan them from the
command line, serve them to any MySQL client, or sync them into PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("stripeql %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Stripe secret key, overriding STRIPE_API_KEY and the keychain")
}
