package apiclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	_, ok := store.Get()
	assert.False(t, ok)

	pair := TokenPair{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, store.Set(pair))

	got, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, pair, got)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
}

func TestFileTokenStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	store, err := NewFileTokenStore(path)
	require.NoError(t, err)
	_, ok := store.Get()
	assert.False(t, ok)

	pair := TokenPair{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, store.Set(pair))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A new store over the same file sees the saved pair.
	reloaded, err := NewFileTokenStore(path)
	require.NoError(t, err)
	got, ok := reloaded.Get()
	assert.True(t, ok)
	assert.Equal(t, pair, got)

	require.NoError(t, reloaded.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileTokenStore(path)
	require.NoError(t, err, "a corrupt token file means a fresh login, not an error")
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestFileTokenStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tokens.json")

	store, err := NewFileTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(TokenPair{AccessToken: "a", RefreshToken: "r"}))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
