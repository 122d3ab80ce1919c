package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	session := &Session{AccessToken: "test-token", Email: "alice@example.com"}

	require.NoError(t, SaveSession(path, session))
	loaded, err := LoadSession(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.AccessToken, loaded.AccessToken)
	assert.Equal(t, session.Email, loaded.Email)
}

func TestLoadSessionMissingFile(t *testing.T) {
	loaded, err := LoadSession(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadSessionWithoutTokenIsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, &Session{Email: "bob@example.com"}))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestClearSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, &Session{AccessToken: "test-token"}))
	require.NoError(t, ClearSession(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing twice is fine.
	require.NoError(t, ClearSession(path))
}
