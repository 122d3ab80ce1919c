package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat_history.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func testCollection() *Collection {
	collection := NewCollection()
	collection.Conversations["abc12345"] = &Conversation{
		ID:      "abc12345",
		Title:   "Hello",
		Created: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Messages: []*Message{
			{Role: RoleAssistant, Content: "Hey, I'm Ramana. How can I help you today?"},
			{Role: RoleUser, Content: "Hello"},
		},
	}
	collection.ActiveChat = "abc12345"
	return collection
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, _ := newTestFileStore(t)
	require.NoError(t, s.Save(testCollection()))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Conversations, 1)
	conversation := loaded.Conversations["abc12345"]
	require.NotNil(t, conversation)
	assert.Equal(t, "abc12345", conversation.ID)
	assert.Equal(t, "Hello", conversation.Title)
	require.Len(t, conversation.Messages, 2)
	assert.Equal(t, RoleUser, conversation.Messages[1].Role)
	assert.Equal(t, "abc12345", loaded.ActiveChat)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	s, _ := newTestFileStore(t)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Conversations)
	assert.Empty(t, loaded.ActiveChat)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded, err := s.Load()
	assert.Error(t, err)
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Conversations)
}

func TestFileStoreClear(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, s.Save(testCollection()))
	require.NoError(t, s.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-empty store is fine.
	require.NoError(t, s.Clear())
}

func TestFileStoreWireFormat(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, s.Save(testCollection()))

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(bytes, &raw))
	assert.Contains(t, raw, "conversations")
	assert.Contains(t, raw, "active_chat")
	assert.Contains(t, raw, "saved_at")

	// Conversation IDs live in the map keys, not in the values.
	conversations := map[string]map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(raw["conversations"], &conversations))
	require.Contains(t, conversations, "abc12345")
	assert.NotContains(t, conversations["abc12345"], "id")
}

func TestFileStoreNoActiveChatSerializesAsNull(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, s.Save(NewCollection()))

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(bytes, &raw))
	assert.Equal(t, "null", string(raw["active_chat"]))
}
