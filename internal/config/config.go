// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the Stripe key goes to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"stripeql/cli/internal/xdg"
)

// DefaultAPIBaseURL is the production Stripe API endpoint. The trailing
// slash matters: object paths are joined onto it.
const DefaultAPIBaseURL = "https://api.stripe.com/v1/"

// DefaultPageSize is the Stripe list-endpoint maximum.
const DefaultPageSize = 100

// DefaultSyncWorkers bounds how many object types sync concurrently.
const DefaultSyncWorkers = 4

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL  string `json:"api_base_url"`
	PageSize    int64  `json:"page_size"`
	SyncWorkers int    `json:"sync_workers"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:  DefaultAPIBaseURL,
		PageSize:    DefaultPageSize,
		SyncWorkers: DefaultSyncWorkers,
	}
}

// Load reads configuration; missing file returns defaults. Unset fields
// in an existing file also fall back to defaults, so a file containing
// only {"page_size": 25} behaves as expected.
func Load() (Config, error) {
	c := Default()
	p, err := xdg.ConfigFile("config.json")
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	// Object paths are joined onto the base, so it has to end in a slash.
	if !strings.HasSuffix(c.APIBaseURL, "/") {
		c.APIBaseURL += "/"
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.SyncWorkers <= 0 {
		c.SyncWorkers = DefaultSyncWorkers
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := xdg.ConfigFile("config.json")
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
