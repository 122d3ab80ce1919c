// Package chat owns the in-memory conversation collection and enforces
// its invariants: a valid active chat, unique ids, append-only messages,
// and persistence after every mutation.
package chat

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/internal/debug"
	"github.com/ramana-ai/ramana/store"
)

const (
	// SentinelTitle is the placeholder title replaced on the first real
	// user message.
	SentinelTitle = "New Chat"
	// SeedGreeting opens every new conversation, so a conversation is
	// never persisted with zero messages.
	SeedGreeting = "Hey, I'm Ramana. How can I help you today?"

	titleMaxLength = 30
	titleEllipsis  = "..."
)

// Summary is one row of the chat list.
type Summary struct {
	ID    string
	Title string
}

// Manager translates user-facing actions into store mutations. It owns
// the collection exclusively for the lifetime of the session.
type Manager struct {
	store      store.Store
	collection *store.Collection

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewManager loads prior persisted state and returns a manager over it.
// Unreadable state degrades to an empty collection with a logged warning,
// since a fresh start is always a valid fallback.
func NewManager(s store.Store) *Manager {
	collection, err := s.Load()
	if err != nil {
		debug.GetLogger().Warn("loading chat history failed, starting fresh", "error", err)
	}
	return &Manager{
		store:      s,
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String()[:8] },
	}
}

// ActiveChat returns the active conversation, or nil when the pointer is
// unset or stale. Callers wanting a guaranteed conversation should use
// EnsureActiveChat.
func (m *Manager) ActiveChat() *store.Conversation {
	return m.collection.Active()
}

// GetChat returns the conversation with the given id, or nil.
func (m *Manager) GetChat(id string) *store.Conversation {
	return m.collection.Conversations[id]
}

// EnsureActiveChat repairs the active-chat pointer: if it is unset or
// refers to a deleted conversation, a fresh conversation is created and
// made active. Idempotent when the pointer is already valid.
func (m *Manager) EnsureActiveChat() (*store.Conversation, error) {
	if conversation := m.collection.Active(); conversation != nil {
		return conversation, nil
	}
	return m.createChat()
}

// NewChat unconditionally creates a new conversation and makes it active,
// regardless of whether the current one is still valid.
func (m *Manager) NewChat() (*store.Conversation, error) {
	return m.createChat()
}

func (m *Manager) createChat() (*store.Conversation, error) {
	conversation := &store.Conversation{
		ID:      m.newID(),
		Title:   SentinelTitle,
		Created: m.now(),
		Messages: []*store.Message{
			{Role: store.RoleAssistant, Content: SeedGreeting},
		},
	}
	m.collection.Conversations[conversation.ID] = conversation
	m.collection.ActiveChat = conversation.ID
	if err := m.persist(); err != nil {
		return conversation, err
	}
	return conversation, nil
}

// DeleteChat removes the conversation with the given id. Removing the
// active conversation unsets the pointer; the next EnsureActiveChat call
// repairs it. Deleting an unknown id is a no-op.
func (m *Manager) DeleteChat(id string) error {
	if _, ok := m.collection.Conversations[id]; !ok {
		return nil
	}
	delete(m.collection.Conversations, id)
	if m.collection.ActiveChat == id {
		m.collection.ActiveChat = ""
	}
	return m.persist()
}

// SelectChat makes the given conversation active. Unknown ids and
// re-selecting the already-active chat are no-ops and trigger no
// redundant persistence.
func (m *Manager) SelectChat(id string) error {
	if id == m.collection.ActiveChat {
		return nil
	}
	if _, ok := m.collection.Conversations[id]; !ok {
		return nil
	}
	m.collection.ActiveChat = id
	return m.persist()
}

// ClearAll empties the collection, unsets the active pointer and purges
// persisted state entirely.
func (m *Manager) ClearAll() error {
	m.collection = store.NewCollection()
	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing persisted history")
	}
	return nil
}

// AppendMessage appends to the given conversation and persists. Title
// derivation runs before persistence so the derived title is durable as
// soon as it is knowable. An unknown id is a silent no-op: callers are
// expected to have gone through EnsureActiveChat.
func (m *Manager) AppendMessage(id string, message *store.Message) error {
	conversation, ok := m.collection.Conversations[id]
	if !ok {
		return nil
	}
	conversation.Messages = append(conversation.Messages, message)
	deriveTitleIfUnset(conversation)
	return m.persist()
}

// DeriveTitleIfUnset derives a title for the given conversation from its
// first user message, if the title is still the sentinel.
func (m *Manager) DeriveTitleIfUnset(id string) {
	if conversation, ok := m.collection.Conversations[id]; ok {
		deriveTitleIfUnset(conversation)
	}
}

func deriveTitleIfUnset(conversation *store.Conversation) {
	if conversation.Title != SentinelTitle {
		return
	}
	for _, message := range conversation.Messages {
		if message.Role != store.RoleUser || message.Content == "" {
			continue
		}
		firstLine, _, _ := strings.Cut(message.Content, "\n")
		runes := []rune(firstLine)
		if len(runes) > titleMaxLength {
			firstLine = string(runes[:titleMaxLength]) + titleEllipsis
		}
		conversation.Title = firstLine
		return
	}
}

// ListChatsForDisplay returns (id, title) pairs sorted newest first, with
// ties broken by id for determinism.
func (m *Manager) ListChatsForDisplay() []Summary {
	conversations := make([]*store.Conversation, 0, len(m.collection.Conversations))
	for _, conversation := range m.collection.Conversations {
		conversations = append(conversations, conversation)
	}
	sort.Slice(conversations, func(i, j int) bool {
		if !conversations[i].Created.Equal(conversations[j].Created) {
			return conversations[i].Created.After(conversations[j].Created)
		}
		return conversations[i].ID < conversations[j].ID
	})
	summaries := make([]Summary, 0, len(conversations))
	for _, conversation := range conversations {
		summaries = append(summaries, Summary{ID: conversation.ID, Title: conversation.Title})
	}
	return summaries
}

func (m *Manager) persist() error {
	if err := m.store.Save(m.collection); err != nil {
		return errors.Wrap(err, "saving chat history")
	}
	return nil
}
