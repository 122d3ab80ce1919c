package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Save(testCollection()))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Conversations, 1)
	conversation := loaded.Conversations["abc12345"]
	require.NotNil(t, conversation)
	assert.Equal(t, "abc12345", conversation.ID)
	assert.Equal(t, "Hello", conversation.Title)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), conversation.Created)
	require.Len(t, conversation.Messages, 2)
	assert.Equal(t, RoleAssistant, conversation.Messages[0].Role)
	assert.Equal(t, "abc12345", loaded.ActiveChat)
}

func TestSQLiteStoreFreshDatabaseIsEmpty(t *testing.T) {
	s := newTestSQLiteStore(t)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Conversations)
	assert.Empty(t, loaded.ActiveChat)
}

func TestSQLiteStoreSaveReplacesPriorRows(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Save(testCollection()))

	replacement := NewCollection()
	replacement.Conversations["def67890"] = &Conversation{
		ID:      "def67890",
		Title:   "New Chat",
		Created: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(replacement))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Conversations, 1)
	assert.Contains(t, loaded.Conversations, "def67890")
	assert.Empty(t, loaded.ActiveChat)
}

func TestSQLiteStoreClear(t *testing.T) {
	s := newTestSQLiteStore(t)
	require.NoError(t, s.Save(testCollection()))
	require.NoError(t, s.Clear())

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Conversations)
	assert.Empty(t, loaded.ActiveChat)
}
