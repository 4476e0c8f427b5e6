package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// The variable names match what the original batch tooling consumed.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(handle string) (*Account, error) {
	envHandle := os.Getenv("BLUESKY_HANDLE")
	appPassword := os.Getenv("BLUESKY_APP_PASSWORD")
	service := os.Getenv("BLUESKY_SERVICE")

	if envHandle == "" || appPassword == "" {
		return nil, ErrCredentialsNotFound
	}

	// A specific handle only matches if it equals the configured one
	if handle != "" && handle != envHandle {
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Handle:       envHandle,
		AppPassword:  appPassword,
		Service:      service,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(handle string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(handle string) bool {
	_, err := e.Retrieve(handle)
	return err == nil
}
