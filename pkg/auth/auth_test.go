package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	mgr := NewManagerWithStores(NewMockStore())

	account := &Account{Name: DefaultAccountName, SessionToken: "tok-abc"}
	require.NoError(t, mgr.Store(account))
	assert.False(t, account.LastModified.IsZero())

	got, err := mgr.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got.SessionToken)
}

func TestManagerFallbackChain(t *testing.T) {
	failing := NewMockStore()
	failing.SetFailOps(true)
	working := NewMockStore()
	mgr := NewManagerWithStores(failing, working)

	require.NoError(t, mgr.Store(&Account{Name: "work", SessionToken: "tok"}))

	got, err := mgr.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.SessionToken)
	assert.True(t, working.Exists("work"))
}

func TestManagerDelete(t *testing.T) {
	mgr := NewManagerWithStores(NewMockStore())

	require.NoError(t, mgr.Store(&Account{Name: "gone", SessionToken: "x"}))
	require.NoError(t, mgr.Delete("gone"))

	_, err := mgr.Retrieve("gone")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	assert.ErrorIs(t, mgr.Delete("never-existed"), ErrCredentialsNotFound)
}

func TestManagerRejectsInvalidAccount(t *testing.T) {
	mgr := NewManagerWithStores(NewMockStore())

	assert.ErrorIs(t, mgr.Store(nil), ErrInvalidCredentials)
	assert.ErrorIs(t, mgr.Store(&Account{SessionToken: "tok"}), ErrInvalidCredentials)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.enc")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	t.Run("retrieve before store", func(t *testing.T) {
		_, err := store.Retrieve(DefaultAccountName)
		assert.ErrorIs(t, err, ErrCredentialsNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, store.Store(&Account{Name: DefaultAccountName, SessionToken: "secret-token"}))

		got, err := store.Retrieve(DefaultAccountName)
		require.NoError(t, err)
		assert.Equal(t, "secret-token", got.SessionToken)
	})

	t.Run("token not stored in plaintext", func(t *testing.T) {
		data, err := readFile(path)
		require.NoError(t, err)
		assert.NotContains(t, data, "secret-token")
	})

	t.Run("delete removes file when last account", func(t *testing.T) {
		require.NoError(t, store.Delete(DefaultAccountName))
		assert.NoFileExists(t, path)
	})
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	store.passphrase = "first"
	require.NoError(t, store.Store(&Account{Name: "a", SessionToken: "tok"}))

	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	other.passphrase = "second"

	_, err = other.Retrieve("a")
	assert.Error(t, err)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Run("empty environment", func(t *testing.T) {
		_, err := store.Retrieve(DefaultAccountName)
		assert.ErrorIs(t, err, ErrCredentialsNotFound)
		assert.False(t, store.Exists(DefaultAccountName))
	})

	t.Run("token set", func(t *testing.T) {
		t.Setenv("COMPSCRAPER_SESSION_TOKEN", "env-token")

		got, err := store.Retrieve(DefaultAccountName)
		require.NoError(t, err)
		assert.Equal(t, "env-token", got.SessionToken)
		assert.True(t, store.Exists(DefaultAccountName))
	})

	t.Run("read only", func(t *testing.T) {
		assert.Error(t, store.Store(&Account{Name: "x", SessionToken: "y"}))
		assert.Error(t, store.Delete("x"))
	})
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
