package chat

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramana-ai/ramana/store"
)

func newTestManager(t *testing.T) (*Manager, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "chat_history.json"))
	require.NoError(t, err)
	manager := NewManager(s)

	// Deterministic ids and timestamps.
	nextID := 0
	manager.newID = func() string {
		nextID++
		return fmt.Sprintf("chat-%03d", nextID)
	}
	nextTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time {
		nextTime = nextTime.Add(time.Minute)
		return nextTime
	}
	return manager, s
}

func TestEnsureActiveChatCreatesSeededConversation(t *testing.T) {
	manager, s := newTestManager(t)

	conversation, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	assert.Equal(t, SentinelTitle, conversation.Title)
	require.Len(t, conversation.Messages, 1)
	assert.Equal(t, store.RoleAssistant, conversation.Messages[0].Role)
	assert.Equal(t, SeedGreeting, conversation.Messages[0].Content)
	assert.Equal(t, conversation, manager.ActiveChat())

	// The new conversation is persisted immediately.
	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Conversations, 1)
	assert.Equal(t, conversation.ID, loaded.ActiveChat)
}

func TestEnsureActiveChatIsIdempotent(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	second, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, manager.ListChatsForDisplay(), 1)
}

func TestNewChatAlwaysCreates(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.NewChat()
	require.NoError(t, err)
	second, err := manager.NewChat()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, manager.ActiveChat().ID)
	assert.Len(t, manager.ListChatsForDisplay(), 2)
}

func TestDeleteActiveChatRepairsOnEnsure(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.DeleteChat(first.ID))
	assert.Nil(t, manager.ActiveChat())

	replacement, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, replacement.ID)
	assert.Equal(t, replacement.ID, manager.ActiveChat().ID)
}

func TestDeleteUnknownChatIsNoop(t *testing.T) {
	manager, _ := newTestManager(t)

	conversation, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.DeleteChat("no-such-chat"))
	assert.Equal(t, conversation.ID, manager.ActiveChat().ID)
}

func TestSelectChat(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.NewChat()
	require.NoError(t, err)
	second, err := manager.NewChat()
	require.NoError(t, err)

	require.NoError(t, manager.SelectChat(first.ID))
	assert.Equal(t, first.ID, manager.ActiveChat().ID)

	// Unknown ids leave the pointer alone.
	require.NoError(t, manager.SelectChat("no-such-chat"))
	assert.Equal(t, first.ID, manager.ActiveChat().ID)

	require.NoError(t, manager.SelectChat(second.ID))
	assert.Equal(t, second.ID, manager.ActiveChat().ID)
}

func TestClearAll(t *testing.T) {
	manager, s := newTestManager(t)

	_, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.ClearAll())
	assert.Nil(t, manager.ActiveChat())
	assert.Empty(t, manager.ListChatsForDisplay())

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Conversations)
}

func TestAppendMessageToUnknownChatIsNoop(t *testing.T) {
	manager, s := newTestManager(t)

	require.NoError(t, manager.AppendMessage("no-such-chat", &store.Message{
		Role:    store.RoleUser,
		Content: "hello",
	}))
	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Conversations)
}

func TestTitleDerivation(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "first line only",
			content: "Hello there, how are you?\nSecond line",
			want:    "Hello there, how are you?",
		},
		{
			name:    "long first line truncated",
			content: "This is a very long first message that exceeds the limit",
			want:    "This is a very long first mess...",
		},
		{
			name:    "short message kept verbatim",
			content: "2+2?",
			want:    "2+2?",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			manager, _ := newTestManager(t)
			conversation, err := manager.EnsureActiveChat()
			require.NoError(t, err)
			require.NoError(t, manager.AppendMessage(conversation.ID, &store.Message{
				Role:    store.RoleUser,
				Content: tc.content,
			}))
			assert.Equal(t, tc.want, conversation.Title)
		})
	}
}

func TestTitleDerivedOnlyOnce(t *testing.T) {
	manager, _ := newTestManager(t)

	conversation, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.AppendMessage(conversation.ID, &store.Message{
		Role:    store.RoleUser,
		Content: "first",
	}))
	require.NoError(t, manager.AppendMessage(conversation.ID, &store.Message{
		Role:    store.RoleUser,
		Content: "second",
	}))
	assert.Equal(t, "first", conversation.Title)
}

func TestTitleStaysSentinelWithoutUserMessages(t *testing.T) {
	manager, _ := newTestManager(t)

	conversation, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.AppendMessage(conversation.ID, &store.Message{
		Role:    store.RoleAssistant,
		Content: "just me talking",
	}))
	assert.Equal(t, SentinelTitle, conversation.Title)
}

func TestListChatsForDisplayNewestFirst(t *testing.T) {
	manager, _ := newTestManager(t)

	first, err := manager.NewChat()
	require.NoError(t, err)
	second, err := manager.NewChat()
	require.NoError(t, err)
	third, err := manager.NewChat()
	require.NoError(t, err)

	summaries := manager.ListChatsForDisplay()
	require.Len(t, summaries, 3)
	assert.Equal(t, third.ID, summaries[0].ID)
	assert.Equal(t, second.ID, summaries[1].ID)
	assert.Equal(t, first.ID, summaries[2].ID)
}

// brokenStore loads fine but rejects every save.
type brokenStore struct{}

func (s *brokenStore) Load() (*store.Collection, error) { return store.NewCollection(), nil }
func (s *brokenStore) Save(*store.Collection) error     { return errors.New("disk full") }
func (s *brokenStore) Clear() error                     { return nil }

func TestSaveFailurePropagates(t *testing.T) {
	manager := NewManager(&brokenStore{})

	conversation, err := manager.EnsureActiveChat()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving chat history")
	assert.Contains(t, err.Error(), "disk full")
	// The conversation exists in memory despite the failed flush.
	require.NotNil(t, conversation)
	assert.Equal(t, conversation.ID, manager.ActiveChat().ID)

	err = manager.AppendMessage(conversation.ID, &store.Message{
		Role:    store.RoleUser,
		Content: "hello",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving chat history")
	require.Len(t, conversation.Messages, 2)

	require.Error(t, manager.DeleteChat(conversation.ID))
}

func TestManagerSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	s, err := store.NewFileStore(path)
	require.NoError(t, err)

	manager := NewManager(s)
	conversation, err := manager.EnsureActiveChat()
	require.NoError(t, err)
	require.NoError(t, manager.AppendMessage(conversation.ID, &store.Message{
		Role:    store.RoleUser,
		Content: "remember me",
	}))

	reopened := NewManager(s)
	restored := reopened.ActiveChat()
	require.NotNil(t, restored)
	assert.Equal(t, conversation.ID, restored.ID)
	assert.Equal(t, "remember me", restored.Title)
	assert.Len(t, restored.Messages, 2)
}
