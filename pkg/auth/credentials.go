// Package auth stores the gallery session token used by the automation
// collaborator to browse authenticated pages. Tokens live in the system
// keychain when available, with an encrypted file fallback.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultAccountName is the account used when none is specified
const DefaultAccountName = "default"

var (
	// ErrInvalidCredentials indicates a nil account or empty account name
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialsNotFound indicates no stored credentials for the name
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// Account represents a stored gallery session
type Account struct {
	Name         string    `json:"name"`
	SessionToken string    `json:"session_token"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the interface for storing and retrieving session tokens
type Store interface {
	// Store saves an account
	Store(account *Account) error

	// Retrieve gets the account with the given name
	Retrieve(name string) (*Account, error)

	// Delete removes the account with the given name
	Delete(name string) error

	// Exists checks if an account exists
	Exists(name string) bool
}

// Manager handles token storage with fallback mechanisms
type Manager struct {
	stores []Store
}

// NewManager creates a credential manager with the available backends:
// system keychain first, encrypted file second, environment last.
func NewManager() (*Manager, error) {
	var stores []Store

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "session.enc"))
	if err == nil {
		stores = append(stores, encryptedStore)
	}

	stores = append(stores, NewEnvironmentStore())

	if len(stores) == 0 {
		return nil, errors.New("no credential storage backend available")
	}

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over an explicit store chain
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Store saves the account in the first store that accepts it
func (m *Manager) Store(account *Account) error {
	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}
	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to store credentials: %w", lastErr)
}

// Retrieve gets the named account from the first store that has it
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		account, err := store.Retrieve(name)
		if err == nil {
			return account, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// RetrieveDefault gets the default account
func (m *Manager) RetrieveDefault() (*Account, error) {
	return m.Retrieve(DefaultAccountName)
}

// Delete removes the named account from every store that has it
func (m *Manager) Delete(name string) error {
	found := false
	for _, store := range m.stores {
		if store.Exists(name) {
			if err := store.Delete(name); err != nil {
				return err
			}
			found = true
		}
	}
	if !found {
		return ErrCredentialsNotFound
	}
	return nil
}

// getConfigDir returns the configuration directory for stored credentials
func getConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "compscraper"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "compscraper"), nil
}
