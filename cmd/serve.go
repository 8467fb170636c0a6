// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"net"

	"stripeql/cli/internal/config"
	"stripeql/cli/internal/engine"
	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/scan"
	"stripeql/cli/internal/stripe"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveDatabase string
)

// serveCmd represents the serve command: a MySQL-protocol server over the
// object catalog, so any MySQL client or driver can query Stripe data.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over the MySQL protocol",
	Long: `The serve command starts a MySQL-protocol server over the object catalog.
Each object type is a table in one read-only database; SELECTs become
scans against the Stripe API, with column projections and supported
equality filters forwarded upstream.

Connections are not authenticated. Keep the listen address on loopback
unless the network is trusted.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client, err := stripe.New(&cfg, apiKeyFlag)
		if err != nil {
			if errors.IsKind(err, errors.Config) {
				fmt.Println("🔒 You're not logged in yet!")
				fmt.Println("   Run 'stripeql login' to get started.")
				return nil
			}
			return err
		}
		urls, err := scan.NewURLBuilder(cfg.APIBaseURL, cfg.PageSize)
		if err != nil {
			return err
		}
		driver := scan.NewDriver(client, urls)

		if !isLoopback(serveAddr) {
			pterm.Println("⚠️  Serving on a non-loopback address without authentication.")
			pterm.Println()
		}
		pterm.Printf("Serving Stripe objects on %s\n", serveAddr)
		if host, port, err := net.SplitHostPort(serveAddr); err == nil {
			pterm.Printf("Connect with: mysql --host %s --port %s %s\n", host, port, serveDatabase)
		}
		pterm.Println()

		return engine.Serve(engine.NewNamed(serveDatabase, scan.Builtin(), driver), serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:3306", "Listen address for the MySQL protocol")
	serveCmd.Flags().StringVar(&serveDatabase, "database", engine.DatabaseName, "Database name presented to clients")
}

// isLoopback reports whether addr binds a loopback interface. Anything
// unparseable counts as non-loopback so the warning errs on showing.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
