package auth

import (
	"os"
)

// EnvironmentStore implements Store over the COMPSCRAPER_SESSION_TOKEN
// environment variable. It is read-only: Store and Delete always fail, so
// the manager falls back to a writable backend.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-variable-backed store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (s *EnvironmentStore) Store(*Account) error {
	return ErrInvalidCredentials
}

// Retrieve builds an account from the session token environment variable
func (s *EnvironmentStore) Retrieve(name string) (*Account, error) {
	token := os.Getenv("COMPSCRAPER_SESSION_TOKEN")
	if token == "" {
		return nil, ErrCredentialsNotFound
	}
	return &Account{Name: name, SessionToken: token}, nil
}

// Delete is not supported for environment variables
func (s *EnvironmentStore) Delete(string) error {
	return ErrCredentialsNotFound
}

// Exists checks if the session token environment variable is set
func (s *EnvironmentStore) Exists(string) bool {
	return os.Getenv("COMPSCRAPER_SESSION_TOKEN") != ""
}
