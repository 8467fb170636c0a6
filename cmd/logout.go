// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"stripeql/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing the stored API key.
// There is no remote session to invalidate; the Stripe key itself stays
// valid until revoked in the dashboard, so logout only forgets it locally.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key from the OS keychain",
	Long: `The logout command removes the Stripe secret key from the OS keychain.
The key itself remains valid until revoked in the Stripe dashboard; this
only makes the CLI forget it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := keychain.GetManager()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system")
			return err
		}

		if !manager.HasAPIKey() {
			fmt.Println("No API key is stored; nothing to remove")
			return nil
		}
		if err := manager.ClearAPIKey(); err != nil {
			return err
		}

		fmt.Println("✅ The stored API key has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
