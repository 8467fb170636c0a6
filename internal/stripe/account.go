// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"stripeql/cli/internal/errors"
)

// Account is the identity behind the configured API key.
type Account struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Country         string `json:"country"`
	DefaultCurrency string `json:"default_currency"`
	Livemode        bool   `json:"livemode"`
	ChargesEnabled  bool   `json:"charges_enabled"`
}

// cachedAccount holds the last fetched account for offline reuse.
type cachedAccount struct {
	mu      sync.Mutex
	account *Account
	fetched time.Time
}

// GetAccount calls GET /account and returns the account owning the API
// key. Results are cached in memory for 10 minutes. A rejected key drops
// the cache and is reported as an auth error; other refresh failures fall
// back to the cached copy when one exists.
// This method is thread-safe.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	cache := c.accountCache
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.account != nil && time.Since(cache.fetched) < 10*time.Minute {
		return cache.account, nil
	}

	body, err := c.Fetch(ctx, c.baseURL+"/account")
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			cache.account = nil
			return nil, errors.Wrap(errors.Auth, "the API key was rejected", err)
		}
		if cache.account != nil {
			return cache.account, nil
		}
		return nil, errors.Wrap(errors.Fetch, "fetching account", err)
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		if cache.account != nil {
			return cache.account, nil
		}
		return nil, errors.Wrap(errors.Decode, "decoding account", err)
	}

	cache.account = &account
	cache.fetched = time.Now()
	return &account, nil
}
