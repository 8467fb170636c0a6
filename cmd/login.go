// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"stripeql/cli/internal/config"
	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/httperrors"
	"stripeql/cli/internal/keychain"
	"stripeql/cli/internal/stripe"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command for storing the Stripe API key.
// The key is verified against the Stripe API before being written to the
// OS keychain, so a mistyped key fails here instead of on the first scan.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Verify a Stripe API key and store it in the OS keychain",
	Long: `The login command stores a Stripe secret key in the OS keychain. The key
can be passed with --api-key or entered at a hidden prompt.

The key is verified with a GET /v1/account call before being stored.
Running login again replaces the stored key, which is the way to rotate
credentials.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		key := strings.TrimSpace(apiKeyFlag)
		if key == "" {
			var err error
			key, err = promptForKey()
			if err != nil {
				return err
			}
		}
		if key == "" {
			return fmt.Errorf("no API key entered")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		stopSpinner := startInlineSpinner(os.Stdout, "Verifying API key", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		account, err := stripe.NewClient(key, cfg.APIBaseURL).GetAccount(ctx)
		stopSpinner()
		if err != nil {
			if errors.IsKind(err, errors.Auth) {
				fmt.Println("❌ Stripe rejected this API key.")
				fmt.Println("   Check the key in the Stripe dashboard and try again.")
				return nil
			}
			return httperrors.FormatNetworkError(err, "verifying the API key")
		}

		manager, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := manager.SaveAPIKey(key); err != nil {
			return err
		}

		identity := account.Email
		if identity == "" {
			identity = account.ID
		}
		fmt.Println(getRandomLoginGreeting(identity))
		if !account.Livemode {
			fmt.Println("   This is a test-mode key; scans will see test data only.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// promptForKey reads the secret key without echoing it. When stdin is not
// a terminal (piped input), it falls back to a plain line read.
func promptForKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Stripe secret key (input hidden): ")
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getRandomLoginGreeting returns a random greeting phrase with the account identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"👋 Hello %s! Ready to query?",
		"⚡ Logged in as %s - let's go!",
		"✅ Authentication complete! Hi %s!",
		"🔓 Access granted! Welcome %s!",
	}

	idx := rand.Intn(len(greetings))
	return fmt.Sprintf(greetings[idx], identifier)
}
