// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stripe

import (
	"os"

	"stripeql/cli/internal/config"
	"stripeql/cli/internal/errors"
	"stripeql/cli/internal/keychain"
)

// EnvAPIKey is the environment variable consulted for the secret key.
const EnvAPIKey = "STRIPE_API_KEY"

// ResolveAPIKey returns the Stripe secret key from the first source that
// has one: the explicit override (usually a command-line flag), the
// STRIPE_API_KEY environment variable, then the OS keychain.
func ResolveAPIKey(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}

	manager, err := keychain.GetManager()
	if err != nil {
		return "", errors.Wrap(errors.Config, "opening keychain", err)
	}
	key, err := manager.LoadAPIKey()
	if err != nil {
		if err == keychain.ErrNoAPIKey {
			return "", errors.New(errors.Config, "no API key configured; run 'stripeql login' or set STRIPE_API_KEY")
		}
		return "", errors.Wrap(errors.Config, "reading API key from keychain", err)
	}
	return key, nil
}

// New resolves the API key and builds a client against the configured
// base URL.
func New(cfg *config.Config, override string) (*Client, error) {
	key, err := ResolveAPIKey(override)
	if err != nil {
		return nil, err
	}
	return NewClient(key, cfg.APIBaseURL), nil
}
