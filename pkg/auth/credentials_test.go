package auth

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager, _ := NewMockManager()

	account := &Account{
		Handle:      "alice.bsky.social",
		AppPassword: "abcd-efgh-ijkl-mnop",
		Service:     "https://bsky.social",
	}

	if err := manager.Store(account); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := manager.Retrieve("alice.bsky.social")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if got.Handle != account.Handle {
		t.Errorf("Expected handle %s, got %s", account.Handle, got.Handle)
	}
	if got.AppPassword != account.AppPassword {
		t.Errorf("Expected app password to round-trip")
	}
	if got.LastModified.IsZero() {
		t.Error("Expected LastModified to be set on store")
	}
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	if err := manager.Store(&Account{AppPassword: "pass"}); err == nil {
		t.Error("Expected error for missing handle")
	}

	if err := manager.Store(&Account{Handle: "alice.bsky.social"}); err == nil {
		t.Error("Expected error for missing app password")
	}
}

func TestManagerRetrieveNotFound(t *testing.T) {
	manager, _ := NewMockManager()

	if _, err := manager.Retrieve("nobody.bsky.social"); err == nil {
		t.Error("Expected error for unknown handle")
	}
}

func TestManagerFallbackStores(t *testing.T) {
	failing := NewMockStore()
	failing.RetrieveError = errors.New("store offline")

	working := NewMockStore()
	working.Store(&Account{Handle: "alice.bsky.social", AppPassword: "pass"})

	manager := NewMockManagerWithStores(failing, working)

	got, err := manager.Retrieve("alice.bsky.social")
	if err != nil {
		t.Fatalf("Expected fallback store to serve the account: %v", err)
	}
	if got.Handle != "alice.bsky.social" {
		t.Errorf("Expected alice.bsky.social, got %s", got.Handle)
	}
}

func TestManagerDelete(t *testing.T) {
	manager, store := NewMockManager()

	store.Store(&Account{Handle: "alice.bsky.social", AppPassword: "pass"})

	if err := manager.Delete("alice.bsky.social"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if store.Exists("alice.bsky.social") {
		t.Error("Expected account to be removed")
	}

	if err := manager.Delete("alice.bsky.social"); err == nil {
		t.Error("Expected error deleting unknown handle")
	}
}

func TestManagerDeleteAll(t *testing.T) {
	manager, store := NewMockManager()

	store.Store(&Account{Handle: "alice.bsky.social", AppPassword: "pass"})
	store.Store(&Account{Handle: "bob.bsky.social", AppPassword: "pass"})

	if err := manager.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}

	accounts, _ := manager.List()
	if len(accounts) != 0 {
		t.Errorf("Expected no accounts after DeleteAll, got %d", len(accounts))
	}
}

func TestManagerListMostRecentWins(t *testing.T) {
	older := NewMockStore()
	older.Store(&Account{
		Handle:       "alice.bsky.social",
		AppPassword:  "old-pass",
		LastModified: time.Now().Add(-time.Hour),
	})

	newer := NewMockStore()
	newer.Store(&Account{
		Handle:       "alice.bsky.social",
		AppPassword:  "new-pass",
		LastModified: time.Now(),
	})

	manager := NewMockManagerWithStores(older, newer)

	accounts, err := manager.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(accounts) != 1 {
		t.Fatalf("Expected one deduplicated account, got %d", len(accounts))
	}
	if accounts[0].AppPassword != "new-pass" {
		t.Errorf("Expected most recent credentials to win, got %s", accounts[0].AppPassword)
	}
}

func TestEnvironmentStore(t *testing.T) {
	os.Setenv("BLUESKY_HANDLE", "env.bsky.social")
	os.Setenv("BLUESKY_APP_PASSWORD", "env-pass")
	os.Setenv("BLUESKY_SERVICE", "https://pds.example.com")
	defer func() {
		os.Unsetenv("BLUESKY_HANDLE")
		os.Unsetenv("BLUESKY_APP_PASSWORD")
		os.Unsetenv("BLUESKY_SERVICE")
	}()

	store := NewEnvironmentStore()

	account, err := store.Retrieve("env.bsky.social")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if account.AppPassword != "env-pass" {
		t.Errorf("Expected env-pass, got %s", account.AppPassword)
	}
	if account.Service != "https://pds.example.com" {
		t.Errorf("Expected service from env, got %s", account.Service)
	}

	if _, err := store.Retrieve("other.bsky.social"); err == nil {
		t.Error("Expected error for handle not matching environment")
	}
}

func TestEnvironmentStoreEmpty(t *testing.T) {
	os.Unsetenv("BLUESKY_HANDLE")
	os.Unsetenv("BLUESKY_APP_PASSWORD")

	store := NewEnvironmentStore()
	if _, err := store.Retrieve(""); err == nil {
		t.Error("Expected error when environment is empty")
	}
}

func TestRetrieveDefaultPrefersEnvironment(t *testing.T) {
	os.Setenv("BLUESKY_HANDLE", "env.bsky.social")
	os.Setenv("BLUESKY_APP_PASSWORD", "env-pass")
	defer func() {
		os.Unsetenv("BLUESKY_HANDLE")
		os.Unsetenv("BLUESKY_APP_PASSWORD")
	}()

	stored := NewMockStore()
	stored.Store(&Account{Handle: "stored.bsky.social", AppPassword: "stored-pass"})

	manager := NewMockManagerWithStores(stored, NewEnvironmentStore())

	account, err := manager.RetrieveDefault()
	if err != nil {
		t.Fatalf("RetrieveDefault failed: %v", err)
	}
	if account.Handle != "env.bsky.social" {
		t.Errorf("Expected environment credentials to win, got %s", account.Handle)
	}
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{
		Handle:      "alice.bsky.social",
		AppPassword: "abcd-efgh-ijkl-mnop",
	}

	sanitized := SanitizeAccount(account)

	if sanitized.AppPassword == account.AppPassword {
		t.Error("Expected app password to be masked")
	}
	if sanitized.AppPassword[:4] != "abcd" {
		t.Errorf("Expected masked password to keep prefix, got %s", sanitized.AppPassword)
	}

	// Original untouched
	if account.AppPassword != "abcd-efgh-ijkl-mnop" {
		t.Error("SanitizeAccount must not mutate the original")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	os.Setenv("BSKYBATCH_PASSPHRASE", "test-passphrase")
	defer os.Unsetenv("BSKYBATCH_PASSPHRASE")

	dir := t.TempDir()
	store, err := NewEncryptedFileStore(dir + "/credentials.enc")
	if err != nil {
		t.Fatalf("NewEncryptedFileStore failed: %v", err)
	}

	account := &Account{
		Handle:      "alice.bsky.social",
		AppPassword: "abcd-efgh-ijkl-mnop",
		Service:     "https://bsky.social",
	}

	if err := store.Store(account); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := store.Retrieve("alice.bsky.social")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if got.AppPassword != account.AppPassword {
		t.Error("Expected app password to survive encryption round trip")
	}

	accounts, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}

	if err := store.Delete("alice.bsky.social"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Exists("alice.bsky.social") {
		t.Error("Expected account to be gone after delete")
	}
}
