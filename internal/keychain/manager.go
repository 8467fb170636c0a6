// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for stripeql.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving the Stripe secret key.
//
// The package supports macOS Keychain, Windows Credential Manager and the
// freedesktop Secret Service, with an encrypted file fallback for headless
// hosts where no native store is available.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"stripeql/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "stripeql"

// KeyAPIKey is the keychain entry holding the Stripe secret key.
const KeyAPIKey = "stripe_api_key"

// ErrNoAPIKey is returned when no Stripe key has been stored yet.
var ErrNoAPIKey = errors.New("no stored API key")

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	// If already initialized successfully, return it
	if globalManager != nil {
		return globalManager, nil
	}

	// If previous initialization failed, retry
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring, preferring native platform backends and
// falling back to an encrypted file under the config dir for hosts
// without one (typical for the servers this tool runs on).
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Try macOS Keychain first, then pass (password store) as fallback
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	fileDir, err := xdg.ConfigDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends,
		PassPrefix:              ServiceName,
		FileDir:                 fileDir,
		FilePasswordFunc:        keyring.TerminalPrompt,
		LibSecretCollectionName: "login",
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// SaveAPIKey stores the Stripe secret key in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveAPIKey(apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if apiKey == "" {
		return errors.New("refusing to store an empty API key")
	}

	// Use native backend if available
	if m.backend != nil {
		return m.backend.Set(KeyAPIKey, apiKey)
	}

	// Fallback to keyring library
	return m.ring.Set(keyring.Item{Key: KeyAPIKey, Data: []byte(apiKey)})
}

// LoadAPIKey retrieves the Stripe secret key from the keychain.
// Returns ErrNoAPIKey when nothing has been stored.
// This method is thread-safe.
func (m *Manager) LoadAPIKey() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Use native backend if available
	if m.backend != nil {
		key, err := m.backend.Get(KeyAPIKey)
		if err != nil {
			return "", ErrNoAPIKey
		}
		if key == "" {
			return "", ErrNoAPIKey
		}
		return key, nil
	}

	// Fallback to keyring library
	it, err := m.ring.Get(KeyAPIKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoAPIKey
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNoAPIKey
	}
	return string(it.Data), nil
}

// ClearAPIKey removes the stored Stripe secret key from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAPIKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		_ = m.backend.Delete(KeyAPIKey)
		return nil
	}

	_ = m.ring.Remove(KeyAPIKey)
	return nil
}

// HasAPIKey reports whether a key is stored, without returning it.
// This method is thread-safe.
func (m *Manager) HasAPIKey() bool {
	_, err := m.LoadAPIKey()
	return err == nil
}
