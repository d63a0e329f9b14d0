package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	id, ok := Static("u1").UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	_, ok = Static("  ").UserID()
	assert.False(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	_, ok := store.UserID()
	assert.False(t, ok, "missing file is unauthenticated")

	require.NoError(t, store.Save(&Credentials{UserID: "u1", AuthToken: "tok"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UserID)
	assert.Equal(t, "tok", creds.AuthToken)
	assert.False(t, creds.SavedAt.IsZero())
	assert.True(t, creds.Authenticated())

	id, ok := store.UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	require.NoError(t, store.Clear())
	_, ok = store.UserID()
	assert.False(t, ok)
	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: [unterminated"), 0o600))

	store := NewFileStore(path)
	_, err := store.Load()
	assert.Error(t, err)

	_, ok := store.UserID()
	assert.False(t, ok)
}

func TestFileStoreWithoutTokenIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: u1\n"), 0o600))

	store := NewFileStore(path)
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UserID)
	assert.False(t, creds.Authenticated())

	id, ok := store.UserID()
	assert.False(t, ok)
	assert.Empty(t, id)
}
