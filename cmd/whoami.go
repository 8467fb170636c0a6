package cmd

import (
	"fmt"
	"os"
	"strings"

	"stripeql/cli/internal/config"
	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/httperrors"
	"stripeql/cli/internal/stripe"

	"github.com/spf13/cobra"
)

var (
	verboseWhoami bool
)

// whoamiCmd represents the whoami command for displaying the authenticated
// Stripe account. It resolves the API key the same way data commands do
// and calls GET /v1/account to identify the key's owner.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the authenticated Stripe account",
	Long: `The whoami command displays the Stripe account behind the configured API
key. The key is resolved the same way data commands resolve it: the
--api-key flag, the STRIPE_API_KEY environment variable, then the OS
keychain.

If no key is configured, it will indicate that the user is not logged in.
This command is useful for verifying credentials before running scans.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Enable verbose mode for all modules if --verbose is set
		if verboseWhoami {
			os.Setenv("STRIPEQL_VERBOSE", "1")
		}

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

		account, err := client.GetAccount(cmd.Context())
		if err != nil {
			if errors.IsKind(err, errors.Auth) {
				fmt.Println("🔒 Stripe rejected the configured API key.")
				fmt.Println("   Run 'stripeql login' to store a fresh one.")
				return nil
			}
			return httperrors.FormatNetworkError(err, "fetching the account")
		}

		identity := account.Email
		if identity == "" {
			identity = account.ID
		}
		fmt.Printf("👤 Current account: %s\n", identity)

		mode := "test mode"
		if account.Livemode {
			mode = "live mode"
		}
		parts := []string{mode}
		if account.Country != "" {
			parts = append(parts, "country "+account.Country)
		}
		if account.DefaultCurrency != "" {
			parts = append(parts, "currency "+strings.ToUpper(account.DefaultCurrency))
		}
		fmt.Println("   " + strings.Join(parts, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolVarP(&verboseWhoami, "verbose", "v", false, "Enable verbose debug output")
}
